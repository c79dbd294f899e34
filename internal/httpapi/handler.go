package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/ledger"
	"github.com/nikolayk812/gourmet-ledger/internal/menu"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/nikolayk812/gourmet-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/text/currency"
)

const sessionHeader = "X-Session-Id"

type Handler struct {
	Sessions   *Sessions
	Orders     port.OrderRepository
	Catalog    *menu.Catalog
	Currency   currency.Unit
	ClearDelay time.Duration
	Log        *slog.Logger
	Now        func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h.Register(r)

	return otelhttp.NewHandler(r, "gourmet-ledger")
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Delete("/items/{id}", h.removeItem)
		r.Post("/items/{id}/increment", h.incrementItem)
		r.Post("/items/{id}/decrement", h.decrementItem)
		r.Post("/checkout", h.checkout)
	})

	r.Get("/orders", h.listOrders)
	r.Patch("/orders/{id}/status", h.updateOrderStatus)

	r.Get("/menu", h.searchMenu)
	r.Get("/menu/sections", h.menuSections)
	r.Post("/menu", h.createMenuItem)
	r.Put("/menu/{id}", h.updateMenuItem)
	r.Delete("/menu/{id}", h.deleteMenuItem)
	r.Post("/menu/{id}/toggle", h.toggleMenuItem)

	r.Get("/dashboard", h.dashboard)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResp{Error: msg})
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+sessionHeader+" header")
		return "", false
	}
	return id, true
}

func cartView(l *ledger.Ledger) cartResp {
	totals := l.Totals()
	return cartResp{
		Items:       mapLineItems(l.Items()),
		ItemCount:   totals.ItemCount,
		Subtotal:    totals.Subtotal.Amount.StringFixed(2),
		Currency:    totals.Subtotal.Currency.String(),
		MinOrder:    l.MinOrder().Amount.StringFixed(2),
		CanCheckout: l.CanCheckout(),
	}
}

// mutateCart applies op to the session ledger and answers with the updated cart.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op func(l *ledger.Ledger)) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var resp cartResp
	_ = h.Sessions.With(id, func(l *ledger.Ledger) error {
		op(l)
		resp = cartView(l)
		return nil
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var resp cartResp
	h.Sessions.View(id, func(l *ledger.Ledger) {
		resp = cartView(l)
	})

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" || req.Name == "" || !req.UnitPrice.IsPositive() {
		writeError(w, http.StatusBadRequest, "id, name and a positive unit_price are required")
		return
	}
	if !wholeCents(req.UnitPrice) {
		writeError(w, http.StatusBadRequest, "unit_price must not have more than 2 decimal places")
		return
	}

	h.mutateCart(w, r, func(l *ledger.Ledger) {
		l.AddItem(req.ID, req.Name, req.UnitPrice, req.Variant)
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	h.mutateCart(w, r, func(l *ledger.Ledger) { l.RemoveItem(itemID) })
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	h.mutateCart(w, r, func(l *ledger.Ledger) { l.IncrementQuantity(itemID) })
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	h.mutateCart(w, r, func(l *ledger.Ledger) { l.DecrementQuantity(itemID) })
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Confirm == nil {
		writeError(w, http.StatusBadRequest, "confirm is required")
		return
	}

	confirmer := ledger.ConfirmerFunc(func(context.Context, domain.Totals) (bool, error) {
		return *req.Confirm, nil
	})

	var result ledger.FlowResult
	err := h.Sessions.With(id, func(l *ledger.Ledger) error {
		var err error
		result, err = ledger.NewCheckoutFlow(l, confirmer, h.ClearDelay).Run(r.Context())
		return err
	})

	var rejected *domain.OrderRejectedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp{Error: rejected.Error(), Reason: string(rejected.Reason)})
		return
	case err != nil:
		h.Log.Error("checkout failed", slog.String("session_id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	if result.Order == nil {
		writeJSON(w, http.StatusOK, checkoutResp{State: string(result.State)})
		return
	}

	order := mapOrder(*result.Order)
	writeJSON(w, http.StatusCreated, checkoutResp{State: string(result.State), Order: &order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	records, err := h.Orders.ListOrders(r.Context(), id)
	if err != nil {
		h.Log.Error("list orders failed", slog.String("session_id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}

	resp := make([]orderResp, 0, len(records))
	for _, record := range records {
		resp = append(resp, mapOrder(record))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	err = h.Orders.UpdateStatus(r.Context(), orderID, req.Status)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.Log.Error("update order status failed", slog.String("order_id", orderID.String()), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "update order status failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) searchMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItems(items))
}

func (h *Handler) menuSections(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSections(menu.Sections(items)))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeMenuItem(w, r)
	if !ok {
		return
	}

	created, err := h.Catalog.Add(r.Context(), item)
	if err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapMenuItem(created))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := menuItemID(w, r)
	if !ok {
		return
	}

	item, ok := h.decodeMenuItem(w, r)
	if !ok {
		return
	}
	item.ID = itemID

	if err := h.Catalog.Update(r.Context(), item); err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItem(item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := menuItemID(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.Delete(r.Context(), itemID); err != nil {
		h.writeMenuError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := menuItemID(w, r)
	if !ok {
		return
	}

	item, err := h.Catalog.ToggleAvailability(r.Context(), itemID)
	if err != nil {
		h.writeMenuError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItem(item))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.Orders.ListOrders(r.Context(), id)
	if err != nil {
		h.Log.Error("dashboard orders failed", slog.String("session_id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "dashboard failed")
		return
	}

	items, err := h.Catalog.List(r.Context())
	if err != nil {
		h.writeMenuError(w, err)
		return
	}

	records = domain.FilterOrders(records, period, h.now())

	summary := domain.SummarizeOrders(records, domain.ZeroMoney(h.Currency))
	writeJSON(w, http.StatusOK, dashboardResp{
		Period:    string(period),
		Orders:    summary.Orders,
		Revenue:   summary.Revenue.Amount.StringFixed(2),
		Currency:  summary.Revenue.Currency.String(),
		MenuItems: len(items),
	})
}

func (h *Handler) decodeMenuItem(w http.ResponseWriter, r *http.Request) (domain.MenuItem, bool) {
	var req menuItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return domain.MenuItem{}, false
	}

	if !wholeCents(req.Price) {
		writeError(w, http.StatusBadRequest, "price must not have more than 2 decimal places")
		return domain.MenuItem{}, false
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	return domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       domain.Money{Amount: req.Price, Currency: h.Currency},
		Vegetarian:  req.Vegetarian,
		Available:   available,
	}, true
}

func (h *Handler) writeMenuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, menu.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, menu.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Log.Error("menu operation failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "menu operation failed")
	}
}

func wholeCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

func menuItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item id")
		return 0, false
	}
	return id, true
}
