package domain

// Cart is the server-authoritative cart snapshot returned by the cart API.
// A snapshot is immutable once received: after every mutation the whole cart
// is re-fetched and the previous snapshot discarded.
type Cart struct {
	ItemCount     int        `json:"item_count"`
	TotalPrice    int64      `json:"total_price"`
	TotalDiscount int64      `json:"total_discount"`
	Note          string     `json:"note"`
	Items         []LineItem `json:"items"`
}

// LineItem is one variant entry in the cart. Prices are in minor currency
// units (cents). Line numbers are not part of the payload: a line is
// addressed by its 1-based position in Items, which shifts when an earlier
// line is removed.
type LineItem struct {
	Key               string            `json:"key"`
	VariantID         int64             `json:"variant_id"`
	ProductTitle      string            `json:"product_title"`
	VariantTitle      string            `json:"variant_title"`
	Vendor            string            `json:"vendor,omitempty"`
	URL               string            `json:"url"`
	Image             string            `json:"image,omitempty"`
	Quantity          int               `json:"quantity"`
	Price             int64             `json:"price"`
	LinePrice         int64             `json:"line_price"`
	OriginalLinePrice int64             `json:"original_line_price"`
	Properties        map[string]string `json:"properties,omitempty"`
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return c.ItemCount == 0
}

// QuantitySum returns the sum of all line quantities. A well-formed snapshot
// satisfies QuantitySum() == ItemCount.
func (c *Cart) QuantitySum() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// LineAt returns the item at the given 1-based line, or nil when the line is
// out of range.
func (c *Cart) LineAt(line int) *LineItem {
	if line < 1 || line > len(c.Items) {
		return nil
	}
	return &c.Items[line-1]
}

// DiscountApplied reports whether the line is selling below its original
// line price.
func (li *LineItem) DiscountApplied() bool {
	return li.LinePrice != li.OriginalLinePrice
}
