package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/nikolayk812/gourmet-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	if err := repository.Migrate(connStr); err != nil {
		return nil, "", fmt.Errorf("repository.Migrate: %w", err)
	}

	return postgresContainer, connStr, nil
}

// exerciseOrderRepository checks the behaviour every order store shares.
func exerciseOrderRepository(t *testing.T, repo port.OrderRepository) {
	t.Run("append and list newest first", func(t *testing.T) {
		ctx := t.Context()
		ownerID := gofakeit.UUID()
		base := time.Now().UTC().Truncate(time.Millisecond)

		var appended []domain.OrderRecord
		for i := 0; i < 3; i++ {
			record := randomOrder(ownerID, base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.AppendOrder(ctx, record))
			appended = append(appended, record)
		}

		// another owner's orders stay separate
		require.NoError(t, repo.AppendOrder(ctx, randomOrder(gofakeit.UUID(), base)))

		orders, err := repo.ListOrders(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, orders, 3)

		assertOrder(t, appended[2], orders[0])
		assertOrder(t, appended[1], orders[1])
		assertOrder(t, appended[0], orders[2])
	})

	t.Run("sub-cent prices kept exactly", func(t *testing.T) {
		ownerID := gofakeit.UUID()

		record := randomOrder(ownerID, time.Now().UTC().Truncate(time.Millisecond))
		record.Items = record.Items[:1]
		record.Items[0].UnitPrice.Amount = decimal.RequireFromString("12.3456")
		record.Items[0].Quantity = 3
		record.Total = record.Items[0].LineTotal()

		require.NoError(t, repo.AppendOrder(t.Context(), record))

		orders, err := repo.ListOrders(t.Context(), ownerID)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		assertOrder(t, record, orders[0])
		assert.Equal(t, "37.0368", orders[0].Total.Amount.String())
	})

	t.Run("list unknown owner: empty", func(t *testing.T) {
		orders, err := repo.ListOrders(t.Context(), gofakeit.UUID())
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("empty owner ID: error", func(t *testing.T) {
		err := repo.AppendOrder(t.Context(), randomOrder("", time.Now()))
		require.EqualError(t, err, "ownerID is empty")

		_, err = repo.ListOrders(t.Context(), "")
		require.EqualError(t, err, "ownerID is empty")
	})

	t.Run("duplicate order: error", func(t *testing.T) {
		record := randomOrder(gofakeit.UUID(), time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, repo.AppendOrder(t.Context(), record))

		err := repo.AppendOrder(t.Context(), record)
		require.ErrorIs(t, err, repository.ErrDuplicateOrder)

		orders, err := repo.ListOrders(t.Context(), record.OwnerID)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("update status", func(t *testing.T) {
		ctx := t.Context()
		record := randomOrder(gofakeit.UUID(), time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, repo.AppendOrder(ctx, record))

		require.NoError(t, repo.UpdateStatus(ctx, record.ID, domain.OrderStatusInProgress))
		require.NoError(t, repo.UpdateStatus(ctx, record.ID, domain.OrderStatusDelivered))

		err := repo.UpdateStatus(ctx, record.ID, domain.OrderStatusCancelled)
		require.ErrorIs(t, err, domain.ErrIllegalTransition)

		orders, err := repo.ListOrders(ctx, record.OwnerID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, domain.OrderStatusDelivered, orders[0].Status)
	})

	t.Run("update status of unknown order: not found", func(t *testing.T) {
		err := repo.UpdateStatus(t.Context(), uuid.Must(uuid.NewV7()), domain.OrderStatusInProgress)
		require.ErrorIs(t, err, repository.ErrOrderNotFound)
	})
}

func randomOrder(ownerID string, createdAt time.Time) domain.OrderRecord {
	unit := randomCurrency()

	var items []domain.LineItem
	total := domain.ZeroMoney(unit)
	for i := 0; i < gofakeit.IntRange(1, 4); i++ {
		item := domain.LineItem{
			ID:        gofakeit.UUID(),
			Name:      gofakeit.Dinner(),
			Variant:   gofakeit.RandomString([]string{"Full", "Half", ""}),
			UnitPrice: domain.Money{Amount: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), Currency: unit},
			Quantity:  gofakeit.IntRange(1, 5),
			AddedAt:   createdAt.Add(-time.Minute),
		}
		items = append(items, item)
		total = total.Add(item.LineTotal())
	}

	return domain.OrderRecord{
		ID:         uuid.Must(uuid.NewV7()),
		OwnerID:    ownerID,
		Restaurant: gofakeit.Company(),
		Items:      items,
		Total:      total,
		Status:     domain.OrderStatusPlaced,
		CreatedAt:  createdAt,
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

func assertOrder(t *testing.T, expected, actual domain.OrderRecord) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
