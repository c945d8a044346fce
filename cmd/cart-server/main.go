package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository/memory"
)

// seedCatalog is the development catalog served by the stub cart API. The
// second variant carries a compare-at price so discount rendering can be
// exercised; the last one has almost no stock so 422 paths can be too.
var seedCatalog = []memory.Variant{
	{
		ID:           39897499729985,
		ProductTitle: "Classic Crew Tee",
		VariantTitle: "Black / M",
		Vendor:       "Jafar Basics",
		URL:          "/products/classic-crew-tee?variant=39897499729985",
		Image:        "https://cdn.shopify.com/s/files/1/0001/products/crew-tee.jpg",
		Price:        1900,
		Inventory:    120,
	},
	{
		ID:             39897499729986,
		ProductTitle:   "Heavyweight Hoodie",
		VariantTitle:   "Charcoal / L",
		Vendor:         "Jafar Basics",
		URL:            "/products/heavyweight-hoodie?variant=39897499729986",
		Image:          "https://cdn.shopify.com/s/files/1/0001/products/hoodie.jpg",
		Price:          4500,
		CompareAtPrice: 6000,
		Inventory:      35,
	},
	{
		ID:           39897499729987,
		ProductTitle: "Enamel Pin",
		VariantTitle: "Default Title",
		Vendor:       "Jafar Extras",
		URL:          "/products/enamel-pin?variant=39897499729987",
		Price:        600,
		Inventory:    2,
	},
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := memory.NewCartStore(seedCatalog)
	router := api.NewRouter(cfg, store, logger)

	logger.Info("Starting cart API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
