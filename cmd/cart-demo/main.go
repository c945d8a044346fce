package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/shopify"
)

// consoleView renders cart models as text. It is the terminal stand-in for
// the storefront's templating layer.
type consoleView struct {
	model *service.RenderModel
}

func (v *consoleView) ShowCart(model *service.RenderModel) {
	v.model = model

	if model.Empty {
		fmt.Println("Your Cart is Empty.")
		return
	}

	for _, item := range model.Items {
		fmt.Printf("%d. %s", item.Line, item.Title)
		if item.Variant != "" && item.Variant != "Default Title" {
			fmt.Printf(" (%s)", item.Variant)
		}
		fmt.Printf("  x%d  %s", item.Quantity, item.LinePrice)
		if item.DiscountApplied {
			fmt.Printf("  (was %s)", item.OriginalLinePrice)
		}
		fmt.Println()
		for name, value := range item.Properties {
			fmt.Printf("     %s: %s\n", name, value)
		}
	}
	if model.DiscountApplied {
		fmt.Println(model.SavingsMessage)
	}
	if model.Note != "" {
		fmt.Printf("Note: %s\n", model.Note)
	}
	fmt.Printf("Total: %s\n", model.TotalPrice)
}

func (v *consoleView) ShowSummary(itemCount int, totalPrice string) {
	fmt.Printf("🛒 %d items — %s\n", itemCount, totalPrice)
}

// QuantityInput reports the quantity currently displayed for a cart line,
// the way a DOM binding would read the line's input field.
func (v *consoleView) QuantityInput(line int) string {
	if v.model != nil {
		for _, item := range v.model.Items {
			if item.Line == line {
				return strconv.Itoa(item.Quantity)
			}
		}
	}
	return ""
}

func (v *consoleView) ShowAddError(description string) {
	fmt.Printf("⚠️  %s\n", description)
}

func (v *consoleView) SetAddButtonState(state service.AddButtonState) {
	switch state {
	case service.AddButtonAdding:
		fmt.Println("[ Adding to cart ... ]")
	case service.AddButtonAdded:
		fmt.Println("[ Item Added to Cart ]")
	default:
		fmt.Println("[ Add to Cart ]")
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	bus := events.NewBus()
	bus.Subscribe(events.AfterAddItem, func(payload interface{}) {
		if item, ok := payload.(*domain.LineItem); ok {
			fmt.Printf("✅ Added %s\n", item.ProductTitle)
		}
	})

	view := &consoleView{}
	client := shopify.NewClient(cfg.Storefront, bus, logger)
	cart := service.NewController(client, view, bus, cfg.Storefront, logger)

	ctx := context.Background()
	if err := cart.LoadCart(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cart from %s: %v\n", cfg.Storefront.BaseURL, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Commands: show | + <line> | - <line> | set <line> <qty> | rm <line> | note <text> | add <variant> [qty] | quit")

	// Gesture loop: each input line maps to exactly one controller call.
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "show":
			cart.LoadCart(ctx)
		case "+", "-":
			if len(fields) < 2 {
				continue
			}
			line, _ := strconv.Atoi(fields[1])
			delta := 1
			if fields[0] == "-" {
				delta = -1
			}
			if !cart.AdjustQuantity(ctx, line, delta) {
				fmt.Println("(cart is updating, gesture ignored)")
			}
		case "set":
			if len(fields) < 3 {
				continue
			}
			line, _ := strconv.Atoi(fields[1])
			if !cart.SetQuantity(ctx, line, fields[2]) {
				fmt.Println("(cart is updating, gesture ignored)")
			}
		case "rm":
			if len(fields) < 2 {
				continue
			}
			line, _ := strconv.Atoi(fields[1])
			if !cart.RemoveLine(ctx, line) {
				fmt.Println("(cart is updating, gesture ignored)")
			}
		case "note":
			cart.UpdateNote(ctx, strings.Join(fields[1:], " "))
		case "add":
			if len(fields) < 2 {
				continue
			}
			form := url.Values{"id": {fields[1]}}
			if len(fields) > 2 {
				form.Set("quantity", fields[2])
			}
			cart.AddFromForm(ctx, form)
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command")
		}
	}
}
