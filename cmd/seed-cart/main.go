// Command seed-cart loads a demo cart into the database so the checkout flow
// can be exercised end to end without a storefront.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/glowmart/checkout-api/internal/domain/cart"
	"github.com/glowmart/checkout-api/internal/repository"
)

type lineJSON struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func main() {
	var (
		databaseURL string
		cartID      string
		itemsFile   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&cartID, "cart-id", "demo", "cart id to seed")
	flag.StringVar(&itemsFile, "items-file", "", "path to cart items JSON file (defaults to a built-in demo cart)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, cartID, itemsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, cartID, itemsFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	lines, err := loadLines(itemsFile)
	if err != nil {
		return err
	}

	slog.Info("seeding cart", slog.String("id", cartID), slog.Int("lines", len(lines)))

	carts := repository.NewCartRepository(pool)
	if err := carts.Put(ctx, cartID, lines); err != nil {
		return errors.Wrap(err, "put cart")
	}

	for _, l := range lines {
		slog.Info("seeded line",
			slog.String("product", l.ProductID),
			slog.String("price", l.Price.String()),
			slog.Int("quantity", l.Quantity),
		)
	}
	return nil
}

func loadLines(itemsFile string) ([]cart.Line, error) {
	if itemsFile == "" {
		return []cart.Line{
			{ProductID: "waffle-berries", Price: decimal.NewFromInt(650), Quantity: 1},
			{ProductID: "tiramisu", Price: decimal.NewFromInt(550), Quantity: 2},
		}, nil
	}

	data, err := os.ReadFile(itemsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read items file")
	}

	var items []lineJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "parse items JSON")
	}

	lines := make([]cart.Line, len(items))
	for i, it := range items {
		lines[i] = cart.Line{ProductID: it.ProductID, Price: it.Price, Quantity: it.Quantity}
	}
	return lines, nil
}
