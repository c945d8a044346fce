// Package memory backs the stub cart API with an in-memory cart and variant
// catalog. It stands in for the real storefront backend in tests and local
// development.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/domain"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrNotEnoughStock = errors.New("not enough stock")
)

// Variant is a sellable catalog entry. CompareAtPrice above Price marks the
// variant as discounted; Inventory bounds how many units the cart may hold.
type Variant struct {
	ID             int64
	ProductTitle   string
	VariantTitle   string
	Vendor         string
	URL            string
	Image          string
	Price          int64
	CompareAtPrice int64
	Inventory      int
}

// CartStore holds one cart against a fixed catalog. All methods are safe for
// concurrent use.
type CartStore struct {
	mu      sync.Mutex
	catalog map[int64]Variant
	items   []domain.LineItem
	note    string
}

// NewCartStore creates an empty cart over the given catalog.
func NewCartStore(catalog []Variant) *CartStore {
	byID := make(map[int64]Variant, len(catalog))
	for _, v := range catalog {
		byID[v.ID] = v
	}
	return &CartStore{catalog: byID}
}

// Snapshot returns the full cart as the wire contract shapes it: 1-ordered
// items, item count and totals recomputed from the lines. The returned cart
// shares no memory with the store.
func (s *CartStore) Snapshot() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AddItem adds quantity units of a variant to the cart, merging into an
// existing line when variant and properties match. It returns the created or
// updated line item.
func (s *CartStore) AddItem(variantID int64, quantity int, properties map[string]string) (*domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variant, ok := s.catalog[variantID]
	if !ok {
		return nil, ErrUnknownVariant
	}

	inCart := 0
	merge := -1
	for i, item := range s.items {
		if item.VariantID == variantID {
			inCart += item.Quantity
			if sameProperties(item.Properties, properties) {
				merge = i
			}
		}
	}
	if inCart+quantity > variant.Inventory {
		return nil, ErrNotEnoughStock
	}

	if merge >= 0 {
		s.items[merge].Quantity += quantity
		s.priceLine(&s.items[merge], variant)
		item := copyItem(s.items[merge])
		return &item, nil
	}

	line := domain.LineItem{
		Key:          fmt.Sprintf("%d:%s", variantID, uuid.NewString()),
		VariantID:    variantID,
		ProductTitle: variant.ProductTitle,
		VariantTitle: variant.VariantTitle,
		Vendor:       variant.Vendor,
		URL:          variant.URL,
		Image:        variant.Image,
		Quantity:     quantity,
		Properties:   copyProperties(properties),
	}
	s.priceLine(&line, variant)
	s.items = append(s.items, line)

	item := copyItem(line)
	return &item, nil
}

// ChangeLine sets the quantity of the 1-based line; zero removes it and
// shifts the following lines up. Out-of-range lines are ignored, matching
// the tolerance of the real cart API. Returns the post-mutation snapshot.
func (s *CartStore) ChangeLine(line, quantity int) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line >= 1 && line <= len(s.items) {
		if quantity == 0 {
			s.items = append(s.items[:line-1], s.items[line:]...)
		} else {
			item := &s.items[line-1]
			variant := s.catalog[item.VariantID]
			if quantity > variant.Inventory {
				quantity = variant.Inventory
			}
			item.Quantity = quantity
			s.priceLine(item, variant)
		}
	}

	return s.snapshotLocked()
}

// SetNote replaces the cart note and returns the updated snapshot.
func (s *CartStore) SetNote(note string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.note = note
	return s.snapshotLocked()
}

func (s *CartStore) snapshotLocked() *domain.Cart {
	cart := &domain.Cart{
		Note:  s.note,
		Items: make([]domain.LineItem, 0, len(s.items)),
	}
	for _, item := range s.items {
		cart.Items = append(cart.Items, copyItem(item))
		cart.ItemCount += item.Quantity
		cart.TotalPrice += item.LinePrice
		cart.TotalDiscount += item.OriginalLinePrice - item.LinePrice
	}
	return cart
}

func (s *CartStore) priceLine(item *domain.LineItem, variant Variant) {
	original := variant.CompareAtPrice
	if original < variant.Price {
		original = variant.Price
	}
	item.Price = variant.Price
	item.LinePrice = variant.Price * int64(item.Quantity)
	item.OriginalLinePrice = original * int64(item.Quantity)
}

func sameProperties(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func copyItem(item domain.LineItem) domain.LineItem {
	item.Properties = copyProperties(item.Properties)
	return item
}

func copyProperties(properties map[string]string) map[string]string {
	if len(properties) == 0 {
		return nil
	}
	out := make(map[string]string, len(properties))
	for k, v := range properties {
		out[k] = v
	}
	return out
}
