package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/repository/memory"
)

// cartError is the structured error body the cart API returns on validation
// failures, mirrored by the client's RequestError.
type cartError struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// HandleGetCart serves the current cart snapshot, with caching disabled so
// clients never see a stale cart.
func HandleGetCart(store *memory.CartStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// HandleAddItem creates a cart line from a form-encoded add-to-cart
// submission: variant "id", "quantity" (default 1) and any
// "properties[...]" entries. Validation failures return a 422 with a
// structured error body; success returns the created line item, not the
// whole cart.
func HandleAddItem(store *memory.CartStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, err := strconv.ParseInt(c.PostForm("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, cartError{
				Status:      http.StatusUnprocessableEntity,
				Message:     "Cart Error",
				Description: "Cannot find variant",
			})
			return
		}

		quantity, err := strconv.Atoi(c.PostForm("quantity"))
		if err != nil || quantity < 1 {
			quantity = 1
		}

		item, err := store.AddItem(variantID, quantity, formProperties(c))
		if err != nil {
			description := "Cannot find variant"
			if errors.Is(err, memory.ErrNotEnoughStock) {
				description = "Not enough stock"
			}
			logger.Info("Rejected add to cart",
				zap.Int64("variant_id", variantID),
				zap.Int("quantity", quantity),
				zap.String("reason", description),
			)
			c.JSON(http.StatusUnprocessableEntity, cartError{
				Status:      http.StatusUnprocessableEntity,
				Message:     "Cart Error",
				Description: description,
			})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// HandleChangeLine sets a line's quantity ("line", "quantity" form fields)
// and returns the full updated cart. Quantity zero removes the line.
func HandleChangeLine(store *memory.CartStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		line, err := strconv.Atoi(c.PostForm("line"))
		if err != nil {
			c.JSON(http.StatusBadRequest, cartError{
				Status:      http.StatusBadRequest,
				Message:     "Cart Error",
				Description: "Invalid line",
			})
			return
		}

		quantity, err := strconv.Atoi(c.PostForm("quantity"))
		if err != nil || quantity < 0 {
			quantity = 0
		}

		c.JSON(http.StatusOK, store.ChangeLine(line, quantity))
	}
}

// HandleUpdateNote replaces the cart note and returns the full updated cart.
func HandleUpdateNote(store *memory.CartStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.SetNote(c.PostForm("note")))
	}
}

// formProperties collects custom line-item attributes submitted as
// properties[Name]=value form fields.
func formProperties(c *gin.Context) map[string]string {
	if err := c.Request.ParseForm(); err != nil {
		return nil
	}

	var properties map[string]string
	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, "properties[") || !strings.HasSuffix(key, "]") {
			continue
		}
		name := key[len("properties[") : len(key)-1]
		if name == "" || len(values) == 0 {
			continue
		}
		if properties == nil {
			properties = make(map[string]string)
		}
		properties[name] = values[0]
	}
	return properties
}
