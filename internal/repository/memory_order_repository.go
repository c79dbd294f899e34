package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
)

type inMemoryOrders struct {
	mu     sync.RWMutex
	orders []domain.OrderRecord
}

// NewInMemoryOrders keeps the order history in process memory, in append order.
func NewInMemoryOrders() port.OrderRepository {
	return &inMemoryOrders{}
}

func (r *inMemoryOrders) AppendOrder(_ context.Context, record domain.OrderRecord) error {
	if record.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.ID == record.ID {
			return ErrDuplicateOrder
		}
	}

	r.orders = append(r.orders, cloneOrder(record))
	return nil
}

func (r *inMemoryOrders) ListOrders(_ context.Context, ownerID string) ([]domain.OrderRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.OrderRecord
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].OwnerID == ownerID {
			result = append(result, cloneOrder(r.orders[i]))
		}
	}

	return result, nil
}

func (r *inMemoryOrders) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != orderID {
			continue
		}
		if !domain.CanTransition(r.orders[i].Status, status) {
			return fmt.Errorf("%s -> %s: %w", r.orders[i].Status, status, domain.ErrIllegalTransition)
		}
		r.orders[i].Status = status
		return nil
	}

	return ErrOrderNotFound
}

func cloneOrder(record domain.OrderRecord) domain.OrderRecord {
	record.Items = slices.Clone(record.Items)
	return record
}
