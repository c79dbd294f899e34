package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

var fixedNow = time.Date(2026, time.January, 5, 12, 30, 0, 0, time.UTC)

func clock() time.Time {
	return fixedNow
}

type failingHistory struct {
	err error
}

func (h failingHistory) AppendOrder(context.Context, domain.OrderRecord) error {
	return h.err
}

func (h failingHistory) ListOrders(context.Context, string) ([]domain.OrderRecord, error) {
	return nil, h.err
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.OrderRecord
	err       error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, record domain.OrderRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, record)
	return p.err
}

var errStoreDown = errors.New("store is down")

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func randomItemID() string {
	return gofakeit.LetterN(4) + "-" + gofakeit.UUID()
}

func randomPrice() decimal.Decimal {
	return decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
}

func cmpOpts() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmpopts.EquateEmpty(),
	}
}

func assertItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	diff := cmp.Diff(expected, actual, cmpOpts())
	assert.Empty(t, diff)
}
