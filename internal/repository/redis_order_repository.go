package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	// orders:{owner_id} -> list of JSON order records, append order
	keyOwnerOrders = "orders:%s"

	// order:{order_id} -> hash {owner, index}
	keyOrderIndex = "order:%s"

	watchRetries = 10
)

// KEYS[1] order index hash, KEYS[2] owner list; ARGV[1] owner, ARGV[2] payload.
// Returns the list position of the pushed record, -1 when the id is taken.
var appendOrderScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], 'owner', ARGV[1]) == 0 then
  return -1
end
local length = redis.call('RPUSH', KEYS[2], ARGV[2])
redis.call('HSET', KEYS[1], 'index', length - 1)
return length - 1
`)

type redisOrders struct {
	client *redis.Client
}

// NewRedisOrders stores each owner's order history as a Redis list.
func NewRedisOrders(client *redis.Client) port.OrderRepository {
	return &redisOrders{client: client}
}

type redisMoney struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type redisLineItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Variant   string     `json:"variant"`
	UnitPrice redisMoney `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	AddedAt   time.Time  `json:"added_at"`
}

type redisOrder struct {
	ID         uuid.UUID       `json:"id"`
	OwnerID    string          `json:"owner_id"`
	Restaurant string          `json:"restaurant"`
	Items      []redisLineItem `json:"items"`
	Total      redisMoney      `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (r *redisOrders) AppendOrder(ctx context.Context, record domain.OrderRecord) error {
	if record.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	payload, err := json.Marshal(mapOrderToRedis(record))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	keys := []string{
		fmt.Sprintf(keyOrderIndex, record.ID),
		fmt.Sprintf(keyOwnerOrders, record.OwnerID),
	}

	position, err := appendOrderScript.Run(ctx, r.client, keys, record.OwnerID, payload).Int64()
	if err != nil {
		return fmt.Errorf("appendOrderScript.Run: %w", err)
	}
	if position < 0 {
		return ErrDuplicateOrder
	}

	return nil
}

func (r *redisOrders) ListOrders(ctx context.Context, ownerID string) ([]domain.OrderRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	raw, err := r.client.LRange(ctx, fmt.Sprintf(keyOwnerOrders, ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("client.LRange: %w", err)
	}

	records := make([]domain.OrderRecord, 0, len(raw))
	for _, entry := range raw {
		record, err := decodeRedisOrder(entry)
		if err != nil {
			return nil, fmt.Errorf("decodeRedisOrder: %w", err)
		}
		records = append(records, record)
	}

	slices.Reverse(records)

	return records, nil
}

func (r *redisOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status[%s] is not valid", status)
	}

	index, err := r.client.HGetAll(ctx, fmt.Sprintf(keyOrderIndex, orderID)).Result()
	if err != nil {
		return fmt.Errorf("client.HGetAll: %w", err)
	}

	ownerID, ok := index["owner"]
	if !ok {
		return ErrOrderNotFound
	}

	position, err := strconv.ParseInt(index["index"], 10, 64)
	if err != nil {
		return fmt.Errorf("order[%s] index is not valid: %w", orderID, err)
	}

	listKey := fmt.Sprintf(keyOwnerOrders, ownerID)

	// appends to the same owner list abort the transaction; retry on them
	for range watchRetries {
		err = r.updateStatusAt(ctx, listKey, position, status)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}

	return fmt.Errorf("order[%s] status update: %w", orderID, err)
}

func (r *redisOrders) updateStatusAt(ctx context.Context, listKey string, position int64, status domain.OrderStatus) error {
	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		entry, err := tx.LIndex(ctx, listKey, position).Result()
		if errors.Is(err, redis.Nil) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("tx.LIndex: %w", err)
		}

		var stored redisOrder
		if err := json.Unmarshal([]byte(entry), &stored); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}

		from := domain.OrderStatus(stored.Status)
		if !domain.CanTransition(from, status) {
			return fmt.Errorf("%s -> %s: %w", from, status, domain.ErrIllegalTransition)
		}

		stored.Status = status.String()
		payload, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LSet(ctx, listKey, position, payload)
			return nil
		})
		if err != nil {
			return fmt.Errorf("tx.TxPipelined: %w", err)
		}

		return nil
	}, listKey)
}

func mapMoneyToRedis(m domain.Money) redisMoney {
	return redisMoney{Amount: m.Amount, Currency: m.Currency.String()}
}

func mapOrderToRedis(record domain.OrderRecord) redisOrder {
	items := make([]redisLineItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, redisLineItem{
			ID:        item.ID,
			Name:      item.Name,
			Variant:   item.Variant,
			UnitPrice: mapMoneyToRedis(item.UnitPrice),
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
		})
	}

	return redisOrder{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		Restaurant: record.Restaurant,
		Items:      items,
		Total:      mapMoneyToRedis(record.Total),
		Status:     record.Status.String(),
		CreatedAt:  record.CreatedAt,
	}
}

func mapRedisMoneyToDomain(m redisMoney) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(m.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", m.Currency, err)
	}
	return domain.Money{Amount: m.Amount, Currency: parsedCurrency}, nil
}

func decodeRedisOrder(entry string) (domain.OrderRecord, error) {
	var stored redisOrder
	if err := json.Unmarshal([]byte(entry), &stored); err != nil {
		return domain.OrderRecord{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	total, err := mapRedisMoneyToDomain(stored.Total)
	if err != nil {
		return domain.OrderRecord{}, err
	}

	var items []domain.LineItem
	for _, item := range stored.Items {
		price, err := mapRedisMoneyToDomain(item.UnitPrice)
		if err != nil {
			return domain.OrderRecord{}, err
		}
		items = append(items, domain.LineItem{
			ID:        item.ID,
			Name:      item.Name,
			Variant:   item.Variant,
			UnitPrice: price,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
		})
	}

	return domain.OrderRecord{
		ID:         stored.ID,
		OwnerID:    stored.OwnerID,
		Restaurant: stored.Restaurant,
		Items:      items,
		Total:      total,
		Status:     domain.OrderStatus(stored.Status),
		CreatedAt:  stored.CreatedAt,
	}, nil
}
