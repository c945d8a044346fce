// Package money formats minor-unit amounts using storefront money format
// patterns such as "${{ amount }}" or "{{ amount_no_decimals_with_comma_separator }} kr".
package money

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFormat is used when a shop provides no money format.
const DefaultFormat = "${{ amount }}"

var placeholderRe = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Format renders cents according to the given format pattern. The pattern's
// placeholder token selects decimals and delimiters:
//
//	amount                                   1,134.65
//	amount_no_decimals                       1,135
//	amount_with_comma_separator              1.134,65
//	amount_no_decimals_with_comma_separator  1.135
//
// A pattern without a recognized placeholder is returned unchanged; Format
// never fails.
func Format(cents int64, format string) string {
	if format == "" {
		format = DefaultFormat
	}

	match := placeholderRe.FindStringSubmatch(format)
	if match == nil {
		return format
	}

	var value string
	switch match[1] {
	case "amount":
		value = withDelimiters(cents, 2, ",", ".")
	case "amount_no_decimals":
		value = withDelimiters(cents, 0, ",", ".")
	case "amount_with_comma_separator":
		value = withDelimiters(cents, 2, ".", ",")
	case "amount_no_decimals_with_comma_separator":
		value = withDelimiters(cents, 0, ".", ",")
	}

	return placeholderRe.ReplaceAllLiteralString(format, value)
}

func withDelimiters(cents int64, precision int, thousands, decimal string) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	units := cents / 100
	remainder := cents % 100
	if precision == 0 {
		// Round half away from zero to whole units.
		if remainder >= 50 {
			units++
		}
		remainder = 0
	}

	whole := groupThousands(fmt.Sprintf("%d", units), thousands)

	var out strings.Builder
	if negative {
		out.WriteString("-")
	}
	out.WriteString(whole)
	if precision > 0 {
		out.WriteString(decimal)
		out.WriteString(fmt.Sprintf("%02d", remainder))
	}
	return out.String()
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, sep)
}
