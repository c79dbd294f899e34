package repository_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/nikolayk812/gourmet-ledger/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupRedisOrders(t *testing.T) (port.OrderRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return repository.NewRedisOrders(client), mr
}

func TestRedisOrders(t *testing.T) {
	repo, _ := setupRedisOrders(t)
	exerciseOrderRepository(t, repo)
}

func TestRedisOrders_Layout(t *testing.T) {
	repo, mr := setupRedisOrders(t)
	ownerID := gofakeit.UUID()

	first := randomOrder(ownerID, time.Now().UTC())
	second := randomOrder(ownerID, time.Now().UTC())
	require.NoError(t, repo.AppendOrder(t.Context(), first))
	require.NoError(t, repo.AppendOrder(t.Context(), second))

	entries, err := mr.List("orders:" + ownerID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, ownerID, mr.HGet("order:"+second.ID.String(), "owner"))
	assert.Equal(t, "1", mr.HGet("order:"+second.ID.String(), "index"))
}

func TestRedisOrders_CorruptEntry(t *testing.T) {
	repo, mr := setupRedisOrders(t)
	ownerID := gofakeit.UUID()

	_, err := mr.Push("orders:"+ownerID, "{not json")
	require.NoError(t, err)

	_, err = repo.ListOrders(t.Context(), ownerID)
	require.Error(t, err)
}

func TestRedisOrders_DuplicateLeavesListUntouched(t *testing.T) {
	repo, mr := setupRedisOrders(t)
	ownerID := gofakeit.UUID()

	order := randomOrder(ownerID, time.Now().UTC())
	require.NoError(t, repo.AppendOrder(t.Context(), order))

	dup := order
	dup.OwnerID = gofakeit.UUID()
	require.ErrorIs(t, repo.AppendOrder(t.Context(), dup), repository.ErrDuplicateOrder)

	entries, err := mr.List("orders:" + ownerID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.False(t, mr.Exists("orders:"+dup.OwnerID))

	assert.Equal(t, ownerID, mr.HGet("order:"+order.ID.String(), "owner"))
	assert.Equal(t, "0", mr.HGet("order:"+order.ID.String(), "index"))
}

func TestRedisOrders_UpdateStatusDuringAppends(t *testing.T) {
	repo, _ := setupRedisOrders(t)
	ownerID := gofakeit.UUID()

	order := randomOrder(ownerID, time.Now().UTC())
	require.NoError(t, repo.AppendOrder(t.Context(), order))

	var later []domain.OrderRecord
	for range 5 {
		later = append(later, randomOrder(ownerID, time.Now().UTC()))
	}

	g, ctx := errgroup.WithContext(t.Context())
	for _, o := range later {
		g.Go(func() error {
			return repo.AppendOrder(ctx, o)
		})
	}
	g.Go(func() error {
		return repo.UpdateStatus(ctx, order.ID, domain.OrderStatusInProgress)
	})
	require.NoError(t, g.Wait())

	records, err := repo.ListOrders(t.Context(), ownerID)
	require.NoError(t, err)
	require.Len(t, records, 6)

	oldest := records[len(records)-1]
	assert.Equal(t, order.ID, oldest.ID)
	assert.Equal(t, domain.OrderStatusInProgress, oldest.Status)
}
