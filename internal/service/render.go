package service

import (
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/images"
	"github.com/jafarshop/storefront/internal/money"
)

// RenderModel is the display-ready structure handed to the templating
// collaborator. It is a pure projection of a cart snapshot: building it
// twice from the same cart yields the same model.
type RenderModel struct {
	Empty           bool
	ItemCount       int
	Items           []RenderItem
	Note            string
	TotalPrice      string
	SavingsMessage  string
	DiscountApplied bool
}

// RenderItem is one cart line prepared for display.
type RenderItem struct {
	Key               string
	Line              int
	URL               string
	Image             string
	Title             string
	Variant           string
	Vendor            string
	Properties        map[string]string
	Quantity          int
	ItemAdd           int
	ItemMinus         int
	Price             string
	LinePrice         string
	OriginalLinePrice string
	DiscountApplied   bool
}

// BuildRenderModel projects a cart snapshot into a RenderModel using the
// given money format. The input cart is never modified, and the builder is
// safe to call redundantly within one mutation cycle.
func BuildRenderModel(cart *domain.Cart, moneyFormat string) *RenderModel {
	if cart.IsEmpty() {
		return &RenderModel{Empty: true}
	}

	model := &RenderModel{
		ItemCount:  cart.ItemCount,
		Note:       cart.Note,
		TotalPrice: money.Format(cart.TotalPrice, moneyFormat),
		Items:      make([]RenderItem, 0, len(cart.Items)),
	}

	if cart.TotalDiscount > 0 {
		model.DiscountApplied = true
		model.SavingsMessage = strings.Replace(
			"You're saving [savings]", "[savings]",
			money.Format(cart.TotalDiscount, moneyFormat), 1,
		)
	}

	for i, item := range cart.Items {
		var properties map[string]string
		if len(item.Properties) > 0 {
			properties = make(map[string]string, len(item.Properties))
			for k, v := range item.Properties {
				properties[k] = v
			}
		}

		model.Items = append(model.Items, RenderItem{
			Key:        item.Key,
			Line:       i + 1, // the cart API uses 1-based line addressing
			URL:        item.URL,
			Image:      images.Thumbnail(item.Image),
			Title:      item.ProductTitle,
			Variant:    item.VariantTitle,
			Vendor:     item.Vendor,
			Properties: properties,
			Quantity:   item.Quantity,
			ItemAdd:    item.Quantity + 1,
			ItemMinus:  item.Quantity - 1,
			Price:      money.Format(item.Price, moneyFormat),
			LinePrice:  money.Format(item.LinePrice, moneyFormat),
			OriginalLinePrice: money.Format(
				item.OriginalLinePrice, moneyFormat,
			),
			DiscountApplied: item.DiscountApplied(),
		})
	}

	return model
}
