package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
)

func newTestClient(handler http.Handler) (*Client, *events.Bus, func()) {
	server := httptest.NewServer(handler)
	bus := events.NewBus()
	client := NewClient(config.StorefrontConfig{BaseURL: server.URL + "/"}, bus, zap.NewNop())
	return client, bus, server.Close
}

func TestFetchCartDisablesCaching(t *testing.T) {
	var gotCacheControl string
	client, bus, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart.js", r.URL.Path)
		gotCacheControl = r.Header.Get("Cache-Control")
		json.NewEncoder(w).Encode(domain.Cart{ItemCount: 2, TotalPrice: 1000})
	}))
	defer done()

	var order []string
	bus.Subscribe(events.BeforeGetCart, func(interface{}) { order = append(order, "before") })
	bus.Subscribe(events.AfterGetCart, func(interface{}) { order = append(order, "after") })

	cart, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "no-cache", gotCacheControl)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, []string{"before", "after"}, order)
}

func TestAddItemPostsFormAndReturnsLineItem(t *testing.T) {
	client, bus, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/add.js", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "7", r.PostForm.Get("id"))
		assert.Equal(t, "2", r.PostForm.Get("quantity"))
		json.NewEncoder(w).Encode(domain.LineItem{Key: "7:x", VariantID: 7, Quantity: 2})
	}))
	defer done()

	var added *domain.LineItem
	bus.Subscribe(events.AfterAddItem, func(payload interface{}) {
		added = payload.(*domain.LineItem)
	})

	item, err := client.AddItem(context.Background(), url.Values{"id": {"7"}, "quantity": {"2"}})

	require.NoError(t, err)
	assert.Equal(t, "7:x", item.Key)
	require.NotNil(t, added)
	assert.Equal(t, int64(7), added.VariantID)
}

func TestAddItemParsesStructured422(t *testing.T) {
	client, bus, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      422,
			"message":     "Cart Error",
			"description": "Not enough stock",
		})
	}))
	defer done()

	var published error
	bus.Subscribe(events.ErrorAddItem, func(payload interface{}) {
		published = payload.(error)
	})

	_, err := client.AddItem(context.Background(), url.Values{"id": {"7"}})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 422, reqErr.Status)
	assert.Equal(t, "Not enough stock", reqErr.Description)
	assert.Equal(t, err, published)
}

func TestAddItemWrapsUnstructuredError(t *testing.T) {
	client, _, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer done()

	_, err := client.AddItem(context.Background(), url.Values{"id": {"7"}})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Equal(t, "upstream exploded", reqErr.Description)
}

func TestChangeLineSendsLineAndQuantity(t *testing.T) {
	client, bus, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/change.js", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "2", r.PostForm.Get("line"))
		assert.Equal(t, "0", r.PostForm.Get("quantity"))
		json.NewEncoder(w).Encode(domain.Cart{ItemCount: 1})
	}))
	defer done()

	var event ChangeEvent
	bus.Subscribe(events.AfterChangeItem, func(payload interface{}) {
		event = payload.(ChangeEvent)
	})

	cart, err := client.ChangeLine(context.Background(), 2, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)
	assert.Equal(t, 2, event.Line)
	assert.Equal(t, 0, event.Quantity)
	require.NotNil(t, event.Cart)
}

func TestUpdateNote(t *testing.T) {
	client, _, done := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/update.js", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "ring twice", r.PostForm.Get("note"))
		json.NewEncoder(w).Encode(domain.Cart{Note: "ring twice"})
	}))
	defer done()

	cart, err := client.UpdateNote(context.Background(), "ring twice")

	require.NoError(t, err)
	assert.Equal(t, "ring twice", cart.Note)
}
