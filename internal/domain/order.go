package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPlaced:     {OrderStatusInProgress: true, OrderStatusCancelled: true},
	OrderStatusInProgress: {OrderStatusDelivered: true, OrderStatusCancelled: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// OrderRecord is created once at checkout. Only Status changes afterwards,
// driven by fulfillment.
type OrderRecord struct {
	ID         uuid.UUID
	OwnerID    string
	Restaurant string
	Items      []LineItem
	Total      Money
	Status     OrderStatus

	CreatedAt time.Time
}

type OrderSummary struct {
	Orders  int
	Revenue Money

	// OtherCurrency counts orders left out of Revenue because they were
	// placed in a different currency.
	OtherCurrency int
}

// SummarizeOrders skips cancelled orders when adding up revenue. Revenue is
// kept in zero's currency; orders in any other currency are counted but not
// added.
func SummarizeOrders(records []OrderRecord, zero Money) OrderSummary {
	summary := OrderSummary{Revenue: zero}

	for _, record := range records {
		summary.Orders++
		if record.Status == OrderStatusCancelled {
			continue
		}
		if record.Total.Currency != zero.Currency {
			summary.OtherCurrency++
			continue
		}
		summary.Revenue = summary.Revenue.Add(record.Total)
	}

	return summary
}
