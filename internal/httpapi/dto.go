package httpapi

import (
	"time"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/menu"
	"github.com/shopspring/decimal"
)

type addItemReq struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Variant   string          `json:"variant"`
}

type checkoutReq struct {
	Confirm *bool `json:"confirm"`
}

type statusReq struct {
	Status domain.OrderStatus `json:"status"`
}

type menuItemReq struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Vegetarian  bool            `json:"vegetarian"`
	Available   *bool           `json:"available"`
}

type lineItemResp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Variant   string `json:"variant,omitempty"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartResp struct {
	Items       []lineItemResp `json:"items"`
	ItemCount   int            `json:"item_count"`
	Subtotal    string         `json:"subtotal"`
	Currency    string         `json:"currency"`
	MinOrder    string         `json:"min_order"`
	CanCheckout bool           `json:"can_checkout"`
}

type orderResp struct {
	ID         string         `json:"id"`
	Restaurant string         `json:"restaurant,omitempty"`
	Items      []lineItemResp `json:"items"`
	Total      string         `json:"total"`
	Currency   string         `json:"currency"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

type checkoutResp struct {
	State string     `json:"state"`
	Order *orderResp `json:"order,omitempty"`
}

type menuItemResp struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Vegetarian  bool   `json:"vegetarian"`
	Available   bool   `json:"available"`
}

type menuSectionResp struct {
	Category string         `json:"category"`
	Title    string         `json:"title"`
	Items    []menuItemResp `json:"items"`
}

type dashboardResp struct {
	Period    string `json:"period"`
	Orders    int    `json:"orders"`
	Revenue   string `json:"revenue"`
	Currency  string `json:"currency"`
	MenuItems int    `json:"menu_items"`
}

type errorResp struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func mapLineItems(items []domain.LineItem) []lineItemResp {
	resp := make([]lineItemResp, 0, len(items))
	for _, item := range items {
		resp = append(resp, lineItemResp{
			ID:        item.ID,
			Name:      item.Name,
			Variant:   item.Variant,
			UnitPrice: item.UnitPrice.Amount.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Amount.StringFixed(2),
		})
	}
	return resp
}

func mapOrder(record domain.OrderRecord) orderResp {
	return orderResp{
		ID:         record.ID.String(),
		Restaurant: record.Restaurant,
		Items:      mapLineItems(record.Items),
		Total:      record.Total.Amount.StringFixed(2),
		Currency:   record.Total.Currency.String(),
		Status:     record.Status.String(),
		CreatedAt:  record.CreatedAt,
	}
}

func mapMenuItem(item domain.MenuItem) menuItemResp {
	return menuItemResp{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price.Amount.StringFixed(2),
		Currency:    item.Price.Currency.String(),
		Vegetarian:  item.Vegetarian,
		Available:   item.Available,
	}
}

func mapMenuItems(items []domain.MenuItem) []menuItemResp {
	resp := make([]menuItemResp, 0, len(items))
	for _, item := range items {
		resp = append(resp, mapMenuItem(item))
	}
	return resp
}

func mapSections(sections []menu.Section) []menuSectionResp {
	resp := make([]menuSectionResp, 0, len(sections))
	for _, section := range sections {
		resp = append(resp, menuSectionResp{
			Category: section.Category,
			Title:    section.Title,
			Items:    mapMenuItems(section.Items),
		})
	}
	return resp
}
