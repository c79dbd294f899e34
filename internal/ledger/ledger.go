package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var DefaultMinOrder = decimal.RequireFromString("20.00")

// Ledger holds the line items of the order being assembled for one owner.
// It is not safe for concurrent use.
type Ledger struct {
	ownerID string
	history port.OrderHistory

	items map[string]*domain.LineItem
	order []string

	minOrder   decimal.Decimal
	unit       currency.Unit
	restaurant string
	now        func() time.Time
	newID      func() (uuid.UUID, error)
	publisher  port.OrderPublisher
	log        *slog.Logger
}

type Option func(*Ledger)

func WithMinOrder(amount decimal.Decimal) Option {
	return func(l *Ledger) { l.minOrder = amount }
}

func WithCurrency(unit currency.Unit) Option {
	return func(l *Ledger) { l.unit = unit }
}

func WithRestaurant(name string) Option {
	return func(l *Ledger) { l.restaurant = name }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(l *Ledger) { l.newID = newID }
}

func WithPublisher(publisher port.OrderPublisher) Option {
	return func(l *Ledger) { l.publisher = publisher }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithSeed starts the ledger with the given items. Items with a quantity
// below 1 are dropped and repeated ids are coalesced.
func WithSeed(items ...domain.LineItem) Option {
	return func(l *Ledger) {
		for _, item := range items {
			if item.Quantity < 1 {
				continue
			}
			if existing, ok := l.items[item.ID]; ok {
				existing.Quantity += item.Quantity
				continue
			}
			seeded := item
			l.items[item.ID] = &seeded
			l.order = append(l.order, item.ID)
		}
	}
}

func New(ownerID string, history port.OrderHistory, opts ...Option) *Ledger {
	l := &Ledger{
		ownerID:  ownerID,
		history:  history,
		items:    make(map[string]*domain.LineItem),
		minOrder: DefaultMinOrder,
		unit:     currency.INR,
		now:      time.Now,
		newID:    uuid.NewV7,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	// seeded prices follow the ledger currency
	for _, item := range l.items {
		item.UnitPrice.Currency = l.unit
	}

	return l
}

func (l *Ledger) OwnerID() string {
	return l.ownerID
}

func (l *Ledger) MinOrder() domain.Money {
	return domain.Money{Amount: l.minOrder, Currency: l.unit}
}

// AddItem inserts id with quantity 1, or bumps the quantity when id is
// already present. Name, price and variant of an existing entry are kept.
func (l *Ledger) AddItem(id, name string, unitPrice decimal.Decimal, variant string) {
	if item, ok := l.items[id]; ok {
		item.Quantity++
		return
	}

	l.items[id] = &domain.LineItem{
		ID:        id,
		Name:      name,
		Variant:   variant,
		UnitPrice: domain.Money{Amount: unitPrice, Currency: l.unit},
		Quantity:  1,
		AddedAt:   l.now(),
	}
	l.order = append(l.order, id)
}

func (l *Ledger) RemoveItem(id string) {
	if _, ok := l.items[id]; !ok {
		return
	}

	delete(l.items, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *Ledger) IncrementQuantity(id string) {
	if item, ok := l.items[id]; ok {
		item.Quantity++
	}
}

func (l *Ledger) DecrementQuantity(id string) {
	item, ok := l.items[id]
	if !ok {
		return
	}

	if item.Quantity > 1 {
		item.Quantity--
		return
	}

	l.RemoveItem(id)
}

// Quantity returns 0 for ids not in the ledger.
func (l *Ledger) Quantity(id string) int {
	if item, ok := l.items[id]; ok {
		return item.Quantity
	}
	return 0
}

func (l *Ledger) Len() int {
	return len(l.order)
}

// Items returns copies of the line items in insertion order.
func (l *Ledger) Items() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(l.order))
	for _, id := range l.order {
		items = append(items, *l.items[id])
	}
	return items
}

func (l *Ledger) Totals() domain.Totals {
	return domain.ComputeTotals(l.Items(), l.unit)
}

func (l *Ledger) CanCheckout() bool {
	return l.validate() == nil
}

func (l *Ledger) Clear() {
	l.items = make(map[string]*domain.LineItem)
	l.order = nil
}

func (l *Ledger) validate() error {
	if len(l.items) == 0 {
		return &domain.OrderRejectedError{
			Reason:  domain.RejectEmptyCart,
			Minimum: l.MinOrder(),
		}
	}

	totals := l.Totals()
	if totals.Subtotal.LessThan(l.minOrder) {
		return &domain.OrderRejectedError{
			Reason:   domain.RejectBelowMinimum,
			Subtotal: totals.Subtotal,
			Minimum:  l.MinOrder(),
		}
	}

	return nil
}

// Checkout turns the ledger into a placed order, appends it to the history
// and empties the ledger. On any error the ledger is left as it was.
func (l *Ledger) Checkout(ctx context.Context) (domain.OrderRecord, error) {
	if err := l.validate(); err != nil {
		return domain.OrderRecord{}, err
	}

	orderID, err := l.newID()
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("newID: %w", err)
	}

	record := domain.OrderRecord{
		ID:         orderID,
		OwnerID:    l.ownerID,
		Restaurant: l.restaurant,
		Items:      l.Items(),
		Total:      l.Totals().Subtotal,
		Status:     domain.OrderStatusPlaced,
		CreatedAt:  l.now(),
	}

	if err := l.history.AppendOrder(ctx, record); err != nil {
		return domain.OrderRecord{}, fmt.Errorf("history.AppendOrder: %w", err)
	}

	l.Clear()

	l.log.Info("order placed",
		slog.String("order_id", record.ID.String()),
		slog.String("owner_id", record.OwnerID),
		slog.String("total", record.Total.String()),
		slog.Int("items", len(record.Items)),
	)

	if l.publisher != nil {
		if err := l.publisher.PublishOrderPlaced(ctx, record); err != nil {
			l.log.Warn("publish order placed failed",
				slog.String("order_id", record.ID.String()),
				slog.Any("err", err),
			)
		}
	}

	return record, nil
}
