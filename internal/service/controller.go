package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/internal/shopify"
)

// CartAPI is the transport surface the controller drives. *shopify.Client
// satisfies it.
type CartAPI interface {
	FetchCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, form url.Values) (*domain.LineItem, error)
	ChangeLine(ctx context.Context, line, quantity int) (*domain.Cart, error)
	UpdateNote(ctx context.Context, note string) (*domain.Cart, error)
}

// AddButtonState is the add-to-cart button affordance. The add flow drives
// the button through Adding and Added before reverting to Idle; this little
// state machine is independent of the controller's mutation gate.
type AddButtonState int

const (
	AddButtonIdle AddButtonState = iota
	AddButtonAdding
	AddButtonAdded
)

// View is the templating collaborator: it renders models, surfaces inline
// errors, and reports what quantity a cart line currently displays. The
// controller holds no reference to any rendered output beyond this interface.
type View interface {
	ShowCart(model *RenderModel)
	ShowSummary(itemCount int, totalPrice string)
	QuantityInput(line int) string
	ShowAddError(description string)
	SetAddButtonState(state AddButtonState)
}

// Controller orchestrates cart mutations. It owns the single-flight UPDATING
// gate: while one mutation is in flight, further quantity gestures are
// silently dropped, never queued. That keeps line-number addressing safe
// against a server that reindexes lines on removal.
type Controller struct {
	api         CartAPI
	view        View
	bus         *events.Bus
	logger      *zap.Logger
	moneyFormat string

	updating        atomic.Bool
	lastItemRemoved atomic.Int64

	// Cosmetic pause between a mutation response and the follow-up fetch,
	// so removal animations finish before the view is rebuilt.
	settleDelay time.Duration
	// Add-button label timing: Adding -> Added -> Idle.
	addedDelay  time.Duration
	revertDelay time.Duration

	sleep    func(time.Duration)
	schedule func(time.Duration, func())

	loads singleflight.Group
}

// NewController wires the cart controller. One controller serves one page
// session; its gate state resets with the process.
func NewController(api CartAPI, view View, bus *events.Bus, cfg config.StorefrontConfig, logger *zap.Logger) *Controller {
	c := &Controller{
		api:         api,
		view:        view,
		bus:         bus,
		logger:      logger,
		moneyFormat: cfg.MoneyFormat,
		settleDelay: 150 * time.Millisecond,
		addedDelay:  time.Second,
		revertDelay: 2 * time.Second,
		sleep:       time.Sleep,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	c.lastItemRemoved.Store(-1)
	return c
}

// Updating reports whether a cart mutation is in flight. Bindings use it to
// hold back form submissions while quantities are changing.
func (c *Controller) Updating() bool {
	return c.updating.Load()
}

// LoadCart fetches the current cart and rebuilds the view, updating the
// count/price summary as well. Concurrent loads are collapsed into a single
// fetch.
func (c *Controller) LoadCart(ctx context.Context) error {
	v, err, _ := c.loads.Do("cart", func() (interface{}, error) {
		return c.api.FetchCart(ctx)
	})
	if err != nil {
		c.logger.Error("Failed to load cart", zap.Error(err))
		return err
	}

	cart := v.(*domain.Cart)
	c.view.ShowSummary(cart.ItemCount, money.Format(cart.TotalPrice, c.moneyFormat))
	c.render(cart)
	return nil
}

// AdjustQuantity applies a stepper delta to a cart line. The current
// quantity is read back from the view, validated, stepped, clamped at zero
// (zero removes the line) and sent to the server. Returns false when the
// gesture was dropped because a mutation is already in flight.
func (c *Controller) AdjustQuantity(ctx context.Context, line, delta int) bool {
	if !c.updating.CompareAndSwap(false, true) {
		return false
	}

	qty := ValidateQuantity(c.view.QuantityInput(line))
	qty = StepQuantity(qty, delta, CartLineMin)

	c.changeLine(ctx, line, qty)
	return true
}

// SetQuantity sets a cart line to the quantity typed into its input field.
// Returns false when the gesture was dropped by the gate.
func (c *Controller) SetQuantity(ctx context.Context, line int, raw string) bool {
	if !c.updating.CompareAndSwap(false, true) {
		return false
	}

	c.changeLine(ctx, line, ValidateQuantity(raw))
	return true
}

// RemoveLine removes a cart line outright. Returns false when the gesture
// was dropped by the gate.
func (c *Controller) RemoveLine(ctx context.Context, line int) bool {
	if !c.updating.CompareAndSwap(false, true) {
		return false
	}

	c.changeLine(ctx, line, 0)
	return true
}

// RemoveLineDebounced removes a cart line from the mini-cart popup. A
// variant may trigger at most one removal until a different variant is
// removed, which absorbs duplicate fires from a single click.
func (c *Controller) RemoveLineDebounced(ctx context.Context, line int, variantID int64) bool {
	if c.lastItemRemoved.Load() == variantID {
		return false
	}
	if !c.RemoveLine(ctx, line) {
		return false
	}
	c.lastItemRemoved.Store(variantID)
	return true
}

// UpdateNote saves the cart note. Failures are logged and otherwise
// ignored; the note is saved again on checkout anyway.
func (c *Controller) UpdateNote(ctx context.Context, note string) {
	if _, err := c.api.UpdateNote(ctx, note); err != nil {
		c.logger.Warn("Failed to update cart note", zap.Error(err))
	}
}

// AddFromForm submits an add-to-cart form. The flow is guarded by the button
// affordance alone, not by the mutation gate: the button walks through
// Adding and Added before reverting to Idle. A 422 from the server surfaces
// its description inline next to the form.
func (c *Controller) AddFromForm(ctx context.Context, form url.Values) error {
	c.view.SetAddButtonState(AddButtonAdding)

	if _, err := c.api.AddItem(ctx, form); err != nil {
		c.view.SetAddButtonState(AddButtonIdle)

		var reqErr *shopify.RequestError
		if errors.As(err, &reqErr) && reqErr.Status == http.StatusUnprocessableEntity {
			c.view.ShowAddError(reqErr.Description)
			return nil
		}

		c.logger.Error("Failed to add item to cart", zap.Error(err))
		return err
	}

	c.schedule(c.addedDelay, func() {
		c.view.SetAddButtonState(AddButtonAdded)
	})
	c.schedule(c.revertDelay, func() {
		c.view.SetAddButtonState(AddButtonIdle)
	})

	return c.LoadCart(ctx)
}

// changeLine is the one linear mutation flow: send the change, then settle.
// The gate is always released, on failure immediately, on success once the
// settle re-render is done.
func (c *Controller) changeLine(ctx context.Context, line, quantity int) {
	cart, err := c.api.ChangeLine(ctx, line, quantity)
	if err != nil {
		// Leave the view as it is; the next successful fetch resyncs it.
		c.logger.Error("Failed to change cart line",
			zap.Int("line", line),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		c.updating.Store(false)
		return
	}

	c.settleMutation(ctx, cart)
}

// settleMutation updates the summary badges from the mutation response, then
// after the cosmetic delay re-fetches the cart and rebuilds the view. The
// re-fetch is deliberate even though the mutation response already carries a
// full cart: the rendered view must reflect the latest server state, not the
// snapshot of this particular mutation.
func (c *Controller) settleMutation(ctx context.Context, cart *domain.Cart) {
	defer c.updating.Store(false)

	c.view.ShowSummary(cart.ItemCount, money.Format(cart.TotalPrice, c.moneyFormat))

	c.sleep(c.settleDelay)

	fresh, err := c.api.FetchCart(ctx)
	if err != nil {
		c.logger.Error("Failed to refresh cart after mutation", zap.Error(err))
		return
	}
	c.render(fresh)
}

func (c *Controller) render(cart *domain.Cart) {
	c.view.ShowCart(BuildRenderModel(cart, c.moneyFormat))
	c.bus.Publish(events.AfterCartLoad, cart)
}
