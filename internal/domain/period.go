package domain

import (
	"fmt"
	"time"
)

// Period selects the orders shown on the owner dashboard.
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("period[%s] is not supported", s)
	}
}

// Window returns the half-open range [from, to) covered by the period in
// now's location. Week and month are the last 7 and 30 days including today.
// PeriodAll is unbounded and reports ok == false.
func (p Period) Window(now time.Time) (from, to time.Time, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch p {
	case PeriodToday:
		return today, tomorrow, true
	case PeriodYesterday:
		return today.AddDate(0, 0, -1), today, true
	case PeriodWeek:
		return today.AddDate(0, 0, -6), tomorrow, true
	case PeriodMonth:
		return today.AddDate(0, 0, -29), tomorrow, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterOrders keeps the records created inside the period, preserving order.
func FilterOrders(records []OrderRecord, p Period, now time.Time) []OrderRecord {
	from, to, ok := p.Window(now)
	if !ok {
		return records
	}

	var filtered []OrderRecord
	for _, record := range records {
		if record.CreatedAt.Before(from) || !record.CreatedAt.Before(to) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}
