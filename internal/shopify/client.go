package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
)

// Client talks to the storefront AJAX cart API: cart.js, cart/add.js,
// cart/change.js and cart/update.js. It owns no cart state; every call
// returns the server's answer and publishes lifecycle events on the bus.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bus        *events.Bus
	logger     *zap.Logger
}

// RequestError is the structured error body the cart API returns on
// validation failures (HTTP 422), typically inventory problems on add.
type RequestError struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("cart API error: status %d, %s: %s", e.Status, e.Message, e.Description)
}

// ChangeEvent is the payload for change-item lifecycle events.
type ChangeEvent struct {
	Line     int
	Quantity int
	Cart     *domain.Cart
}

// NoteEvent is the payload for note-update lifecycle events.
type NoteEvent struct {
	Note string
	Cart *domain.Cart
}

// NewClient creates a cart API client for the given storefront.
func NewClient(cfg config.StorefrontConfig, bus *events.Bus, logger *zap.Logger) *Client {
	// Normalize base URL - strip trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		bus:    bus,
		logger: logger,
	}
}

// FetchCart reads the current cart snapshot. The request is sent with
// caching disabled so a stale snapshot is never returned.
func (c *Client) FetchCart(ctx context.Context) (*domain.Cart, error) {
	c.bus.Publish(events.BeforeGetCart, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart.js", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	var cart domain.Cart
	if err := c.do(req, &cart); err != nil {
		return nil, err
	}

	c.bus.Publish(events.AfterGetCart, &cart)
	return &cart, nil
}

// AddItem submits a line-item creation form (variant id, quantity and any
// custom properties). On success it returns the created line item, not the
// whole cart. Validation failures come back as *RequestError.
func (c *Client) AddItem(ctx context.Context, form url.Values) (*domain.LineItem, error) {
	c.bus.Publish(events.BeforeAddItem, form)

	var item domain.LineItem
	if err := c.postForm(ctx, "/cart/add.js", form, &item); err != nil {
		c.bus.Publish(events.ErrorAddItem, err)
		return nil, err
	}

	c.bus.Publish(events.AfterAddItem, &item)
	return &item, nil
}

// ChangeLine sets the quantity of the 1-based cart line. Quantity 0 removes
// the line. The returned cart is the full post-mutation snapshot.
func (c *Client) ChangeLine(ctx context.Context, line, quantity int) (*domain.Cart, error) {
	c.bus.Publish(events.BeforeChangeItem, ChangeEvent{Line: line, Quantity: quantity})

	form := url.Values{}
	form.Set("line", strconv.Itoa(line))
	form.Set("quantity", strconv.Itoa(quantity))

	var cart domain.Cart
	if err := c.postForm(ctx, "/cart/change.js", form, &cart); err != nil {
		c.bus.Publish(events.ErrorChangeItem, err)
		return nil, err
	}

	c.bus.Publish(events.AfterChangeItem, ChangeEvent{Line: line, Quantity: quantity, Cart: &cart})
	return &cart, nil
}

// UpdateNote replaces the cart note and returns the updated cart.
func (c *Client) UpdateNote(ctx context.Context, note string) (*domain.Cart, error) {
	c.bus.Publish(events.BeforeUpdateCartNote, note)

	form := url.Values{}
	form.Set("note", note)

	var cart domain.Cart
	if err := c.postForm(ctx, "/cart/update.js", form, &cart); err != nil {
		c.bus.Publish(events.ErrorUpdateCartNote, err)
		return nil, err
	}

	c.bus.Publish(events.AfterUpdateCartNote, NoteEvent{Note: note, Cart: &cart})
	return &cart, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{}
		if err := json.Unmarshal(body, reqErr); err != nil || reqErr.Message == "" {
			c.logger.Warn("Cart API returned unstructured error",
				zap.String("path", req.URL.Path),
				zap.Int("status", resp.StatusCode),
			)
			reqErr.Message = http.StatusText(resp.StatusCode)
			reqErr.Description = strings.TrimSpace(string(body))
		}
		reqErr.Status = resp.StatusCode
		return reqErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
