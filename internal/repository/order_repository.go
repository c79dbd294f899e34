package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/gourmet-ledger/internal/db"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"golang.org/x/text/currency"
)

const uniqueViolation = "23505"

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrders(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrdersWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) AppendOrder(ctx context.Context, record domain.OrderRecord) error {
	if record.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            record.ID,
			OwnerID:       record.OwnerID,
			Restaurant:    record.Restaurant,
			TotalAmount:   record.Total.Amount,
			TotalCurrency: record.Total.Currency.String(),
			Status:        record.Status.String(),
			CreatedAt:     record.CreatedAt,
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return struct{}{}, ErrDuplicateOrder
			}
			return struct{}{}, fmt.Errorf("q.InsertOrder: %w", err)
		}

		for i, item := range record.Items {
			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				OrderID:           record.ID,
				Position:          int32(i),
				ItemID:            item.ID,
				Name:              item.Name,
				Variant:           item.Variant,
				UnitPriceAmount:   item.UnitPrice.Amount,
				UnitPriceCurrency: item.UnitPrice.Currency.String(),
				Quantity:          int32(item.Quantity),
				AddedAt:           item.AddedAt,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertOrderItem[%s]: %w", item.ID, err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.OrderRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	dbOrders, err := r.q.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByOwner: %w", err)
	}
	if len(dbOrders) == 0 {
		return nil, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(dbOrders))
	for _, o := range dbOrders {
		orderIDs = append(orderIDs, o.ID)
	}

	dbItems, err := r.q.ListOrderItems(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderItems: %w", err)
	}

	records, err := mapOrdersToDomain(dbOrders, dbItems)
	if err != nil {
		return nil, fmt.Errorf("mapOrdersToDomain: %w", err)
	}

	return records, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status[%s] is not valid", status)
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		current, err := q.GetOrderStatusForUpdate(ctx, orderID)
		if errors.Is(err, pgx.ErrNoRows) {
			return struct{}{}, ErrOrderNotFound
		}
		if err != nil {
			return struct{}{}, fmt.Errorf("q.GetOrderStatusForUpdate: %w", err)
		}

		from := domain.OrderStatus(current)
		if !domain.CanTransition(from, status) {
			return struct{}{}, fmt.Errorf("%s -> %s: %w", from, status, domain.ErrIllegalTransition)
		}

		if _, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			ID:     orderID,
			Status: status.String(),
		}); err != nil {
			return struct{}{}, fmt.Errorf("q.UpdateOrderStatus: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func mapOrderItemToDomain(row db.OrderItem) (domain.LineItem, error) {
	parsedCurrency, err := currency.ParseISO(row.UnitPriceCurrency)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.UnitPriceCurrency, err)
	}

	return domain.LineItem{
		ID:        row.ItemID,
		Name:      row.Name,
		Variant:   row.Variant,
		UnitPrice: domain.Money{Amount: row.UnitPriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		AddedAt:   row.AddedAt,
	}, nil
}

func mapOrdersToDomain(orders []db.Order, items []db.OrderItem) ([]domain.OrderRecord, error) {
	itemsByOrder := make(map[uuid.UUID][]domain.LineItem, len(orders))
	for _, row := range items {
		item, err := mapOrderItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemToDomain: %w", err)
		}
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], item)
	}

	records := make([]domain.OrderRecord, 0, len(orders))
	for _, row := range orders {
		parsedCurrency, err := currency.ParseISO(row.TotalCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", row.TotalCurrency, err)
		}

		records = append(records, domain.OrderRecord{
			ID:         row.ID,
			OwnerID:    row.OwnerID,
			Restaurant: row.Restaurant,
			Items:      itemsByOrder[row.ID],
			Total:      domain.Money{Amount: row.TotalAmount, Currency: parsedCurrency},
			Status:     domain.OrderStatus(row.Status),
			CreatedAt:  row.CreatedAt,
		})
	}

	return records, nil
}
