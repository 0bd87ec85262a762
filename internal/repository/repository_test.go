package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_schema.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

// database is embedded by every repository suite.
type database struct {
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
}

func (d *database) start(t *testing.T) {
	ctx := t.Context()

	var (
		connStr string
		err     error
	)
	d.container, connStr, err = startPostgres(ctx)
	require.NoError(t, err)

	d.pool, err = pgxpool.New(ctx, connStr)
	require.NoError(t, err)
}

func (d *database) stop(t *testing.T) {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.container != nil {
		require.NoError(t, testcontainers.TerminateContainer(d.container))
	}
}

func (d *database) truncate(t *testing.T) {
	_, err := d.pool.Exec(context.Background(),
		"TRUNCATE TABLE order_lines, orders, order_users, cart_lines, carts, items CASCADE")
	require.NoError(t, err)
}

func seedItem(t *testing.T, repos port.Repositories, sellerID string, price domain.Money, quantity int) domain.Item {
	t.Helper()

	item, err := repos.Items.CreateItem(t.Context(), domain.Item{
		SellerID: sellerID,
		Name:     gofakeit.ProductName(),
		Price:    price,
		Quantity: quantity,
		Active:   true,
	})
	require.NoError(t, err)

	return item
}

func seedOrderUser(t *testing.T, repos port.Repositories, buyerID string) domain.OrderUser {
	t.Helper()

	user, err := repos.OrderUsers.CreateOrderUser(t.Context(), domain.OrderUser{
		BuyerID: buyerID,
		PhoneNo: gofakeit.Numerify("##########"),
		Address: gofakeit.Street(),
		City:    gofakeit.City(),
		State:   gofakeit.State(),
		Pincode: gofakeit.Numerify("######"),
	})
	require.NoError(t, err)

	return user
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func money(amount string, unit currency.Unit) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: unit}
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})
