// Package images rewrites CDN image URLs to size-suffixed variants, e.g.
// products/shirt.jpg -> products/shirt_small.jpg.
package images

import (
	"regexp"
	"strings"
)

// Placeholder is the asset shown for line items without a product image.
const Placeholder = "//cdn.shopify.com/s/assets/admin/no-image-medium-cc9732cb976dd349a0df1d39816fbcc7.gif"

var sizedRe = regexp.MustCompile(`(.*/[\w\-.]+)\.(\w{2,4})`)

// Resize rewrites url to the named size variant. The transform is
// best-effort: the "original" size and any URL that does not look like an
// image path come back unchanged.
func Resize(url, size string) string {
	if size == "original" {
		return url
	}
	match := sizedRe.FindStringSubmatch(url)
	if match == nil {
		return url
	}
	return match[1] + "_" + size + "." + match[2]
}

// Thumbnail resolves a line item image for cart display: protocol-relative,
// resized to "small", with the placeholder for items that have no image.
func Thumbnail(url string) string {
	if url == "" {
		return Placeholder
	}
	return Resize(strings.TrimPrefix(url, "http:"), "small")
}
