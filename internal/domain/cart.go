package domain

import (
	"time"

	"golang.org/x/text/currency"
)

// LineItem is one purchasable entry in a ledger. Variant is descriptive only
// and never part of the item identity.
type LineItem struct {
	ID        string
	Name      string
	Variant   string
	UnitPrice Money
	Quantity  int

	AddedAt time.Time
}

func (i LineItem) LineTotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

type Totals struct {
	ItemCount int
	Subtotal  Money
}

// ComputeTotals sums quantities and line totals from scratch.
func ComputeTotals(items []LineItem, unit currency.Unit) Totals {
	totals := Totals{Subtotal: ZeroMoney(unit)}

	for _, item := range items {
		totals.ItemCount += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal())
	}

	return totals
}
