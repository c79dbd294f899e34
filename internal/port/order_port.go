package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
)

// OrderHistory is the append-only store of placed orders. ListOrders returns
// the newest order first.
type OrderHistory interface {
	AppendOrder(ctx context.Context, record domain.OrderRecord) error
	ListOrders(ctx context.Context, ownerID string) ([]domain.OrderRecord, error)
}

type OrderStatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}

type OrderRepository interface {
	OrderHistory
	OrderStatusUpdater
}

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, record domain.OrderRecord) error
}
