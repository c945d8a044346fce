package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/images"
)

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ItemCount:     3,
		TotalPrice:    10400,
		TotalDiscount: 3000,
		Note:          "ring the bell",
		Items: []domain.LineItem{
			{
				Key:               "39897499729985:abc",
				VariantID:         39897499729985,
				ProductTitle:      "Classic Crew Tee",
				VariantTitle:      "Black / M",
				URL:               "/products/classic-crew-tee",
				Image:             "http://cdn.shopify.com/s/files/1/0001/products/crew-tee.jpg",
				Quantity:          1,
				Price:             1900,
				LinePrice:         1900,
				OriginalLinePrice: 1900,
			},
			{
				Key:               "39897499729986:def",
				VariantID:         39897499729986,
				ProductTitle:      "Heavyweight Hoodie",
				VariantTitle:      "Charcoal / L",
				Quantity:          2,
				Price:             4500,
				LinePrice:         8500,
				OriginalLinePrice: 11500,
				Properties:        map[string]string{"Monogram": "AB"},
			},
		},
	}
}

func TestBuildRenderModelEmptyCart(t *testing.T) {
	model := BuildRenderModel(&domain.Cart{}, "${{ amount }}")

	require.True(t, model.Empty)
	assert.Empty(t, model.Items)
}

func TestBuildRenderModelLines(t *testing.T) {
	model := BuildRenderModel(sampleCart(), "${{ amount }}")

	require.False(t, model.Empty)
	require.Len(t, model.Items, 2)

	first := model.Items[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "$19.00", first.Price)
	assert.Equal(t, "$19.00", first.LinePrice)
	assert.False(t, first.DiscountApplied)
	assert.Equal(t, 2, first.ItemAdd)
	assert.Equal(t, 0, first.ItemMinus)
	// Protocol stripped and resized to the small variant.
	assert.Equal(t, "//cdn.shopify.com/s/files/1/0001/products/crew-tee_small.jpg", first.Image)

	second := model.Items[1]
	assert.Equal(t, 2, second.Line)
	assert.True(t, second.DiscountApplied)
	assert.Equal(t, "$85.00", second.LinePrice)
	assert.Equal(t, "$115.00", second.OriginalLinePrice)
	assert.Equal(t, map[string]string{"Monogram": "AB"}, second.Properties)
	// No image falls back to the placeholder asset.
	assert.Equal(t, images.Placeholder, second.Image)

	assert.Equal(t, "$104.00", model.TotalPrice)
	assert.True(t, model.DiscountApplied)
	assert.Equal(t, "You're saving $30.00", model.SavingsMessage)
	assert.Equal(t, "ring the bell", model.Note)
}

func TestBuildRenderModelIsIdempotent(t *testing.T) {
	cart := sampleCart()

	before := *cart
	first := BuildRenderModel(cart, "${{ amount }}")
	second := BuildRenderModel(cart, "${{ amount }}")

	assert.Equal(t, first, second)
	// The input snapshot is untouched.
	assert.Equal(t, before.ItemCount, cart.ItemCount)
	assert.Equal(t, before.Items[1].Properties, cart.Items[1].Properties)
}

func TestBuildRenderModelDiscountDetection(t *testing.T) {
	cart := &domain.Cart{
		ItemCount: 1,
		Items: []domain.LineItem{
			{Quantity: 1, LinePrice: 500, OriginalLinePrice: 500},
		},
	}

	model := BuildRenderModel(cart, "${{ amount }}")
	assert.False(t, model.Items[0].DiscountApplied)
	assert.False(t, model.DiscountApplied)
	assert.Empty(t, model.SavingsMessage)
}
