//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/glowmart/checkout-api/internal/domain/address"
	"github.com/glowmart/checkout-api/internal/domain/cart"
	"github.com/glowmart/checkout-api/internal/domain/order"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "checkout",
			"POSTGRES_PASSWORD": "checkout",
			"POSTGRES_DB":       "checkout",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://checkout:checkout@%s:%s/checkout?sslmode=disable", host, port.Port())
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	databaseURL := startPostgres(t)

	pool, err := NewPool(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, RunMigrations(ctx, pool))

	t.Run("cart round trip", func(t *testing.T) {
		carts := NewCartRepository(pool)

		lines, err := carts.Get(ctx, "missing")
		require.NoError(t, err)
		require.Empty(t, lines)

		want := []cart.Line{
			{ProductID: "p1", Price: decimal.NewFromInt(400), Quantity: 2},
			{ProductID: "p2", Price: decimal.NewFromInt(200), Quantity: 1},
		}
		require.NoError(t, carts.Put(ctx, "c1", want))

		got, err := carts.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "p1", got[0].ProductID)
		require.True(t, got[0].Price.Equal(want[0].Price))

		// Put replaces, not merges.
		require.NoError(t, carts.Put(ctx, "c1", want[:1]))
		got, err = carts.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got, 1)

		require.NoError(t, carts.Clear(ctx, "c1"))
		got, err = carts.Get(ctx, "c1")
		require.NoError(t, err)
		require.Empty(t, got)

		require.NoError(t, carts.Clear(ctx, "c1"))
	})

	t.Run("order create and replay", func(t *testing.T) {
		orders := NewOrderRepository(pool)

		o := &order.Order{
			ID:             "ord-1",
			IdempotencyKey: "key-1",
			UserID:         "u1",
			Address: address.ShippingAddress{
				RecipientName: "Ali Khan",
				StreetAddress: "12 Mall Road",
				City:          "Lahore",
				State:         "Punjab",
				Zip:           "54000",
				Country:       "Pakistan",
				PhoneNumber:   "+923001234567",
				Email:         "ali@example.com",
			},
			PaymentMethod: order.PaymentCashOnDelivery,
			Items: []order.Item{
				{ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: decimal.NewFromInt(400)},
			},
			Subtotal:       decimal.NewFromInt(1000),
			Discount:       decimal.Zero,
			Tax:            decimal.NewFromInt(100),
			NetTotal:       decimal.NewFromInt(1000),
			DeliveryCharge: decimal.NewFromInt(200),
			CODCharge:      decimal.NewFromInt(50),
			Total:          decimal.NewFromInt(1350),
			CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		}

		stored, created, err := orders.Create(ctx, o)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, "ord-1", stored.ID)

		// Same key, different id: the first row wins.
		dup := *o
		dup.ID = "ord-2"
		stored, created, err = orders.Create(ctx, &dup)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "ord-1", stored.ID)
		require.Equal(t, order.PaymentCashOnDelivery, stored.PaymentMethod)
		require.True(t, stored.Total.Equal(o.Total))
		require.Equal(t, "Ali Khan", stored.Address.RecipientName)
		require.Len(t, stored.Items, 1)
		require.Equal(t, "Widget", stored.Items[0].ProductName)
	})
}
