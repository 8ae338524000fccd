package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"restaurant-pos/internal/pos"
)

// CartHandler exposes the per-terminal cart. Carts live in this process and
// are never shared between terminals; only checkout touches the order store.
type CartHandler struct {
	Carts   *pos.CartRegistry
	Catalog pos.Catalog
	Manager *pos.Manager
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type setQuantityReq struct {
	ProductID string `json:"product_id"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity"`
}

type assignTableReq struct {
	TableID string `json:"table_id"` // empty = takeaway
}

type checkoutReq struct {
	CustomerName string `json:"customer_name,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type cartView struct {
	Items         []pos.OrderItem `json:"items"`
	Table         *pos.Table      `json:"table,omitempty"`
	SubtotalCents int64           `json:"subtotal_cents"`
	TaxCents      int64           `json:"tax_cents"`
	TotalCents    int64           `json:"total_cents"`
	Currency      string          `json:"currency"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Route("/carts/{terminal}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.discard)
		r.Post("/items", h.addItem)
		r.Patch("/items", h.setQuantity)
		r.Delete("/items", h.removeItem)
		r.Put("/table", h.assignTable)
		r.Post("/checkout", h.checkout)
	})
}

func (h *CartHandler) cart(r *http.Request) *pos.Cart {
	return h.Carts.Get(chi.URLParam(r, "terminal"))
}

func (h *CartHandler) view(c *pos.Cart) cartView {
	settings := h.Manager.Settings()
	items := c.Items()
	subtotal, tax, total := pos.Totals(items, settings.TaxRateBps)
	return cartView{
		Items:         items,
		Table:         c.Table(),
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		Currency:      settings.Currency,
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view(h.cart(r)))
}

func (h *CartHandler) discard(w http.ResponseWriter, r *http.Request) {
	h.Carts.Discard(chi.URLParam(r, "terminal"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if errors.Is(err, pos.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	} else if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	c := h.cart(r)
	if err := c.AddItem(p, req.Variant, req.Quantity); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if req.Notes != "" {
		c.SetItemNotes(req.ProductID, req.Variant, req.Notes)
	}
	writeJSON(w, http.StatusOK, h.view(c))
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	c := h.cart(r)
	c.SetQuantity(req.ProductID, req.Variant, req.Quantity)
	writeJSON(w, http.StatusOK, h.view(c))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.RemoveItem(r.URL.Query().Get("product_id"), r.URL.Query().Get("variant"))
	writeJSON(w, http.StatusOK, h.view(c))
}

func (h *CartHandler) assignTable(w http.ResponseWriter, r *http.Request) {
	var req assignTableReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	c := h.cart(r)
	if req.TableID == "" {
		c.AssignTable(nil)
		writeJSON(w, http.StatusOK, h.view(c))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	t, err := h.Manager.GetTableByID(ctx, req.TableID)
	if errors.Is(err, pos.ErrTableNotFound) {
		writeError(w, http.StatusNotFound, "table not found")
		return
	} else if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	c.AssignTable(&t)
	writeJSON(w, http.StatusOK, h.view(c))
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Manager.Commit(ctx, h.cart(r), req.CustomerName, req.Notes)
	if err != nil {
		var conflict *pos.TableConflictError
		switch {
		case errors.Is(err, pos.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &conflict):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, pos.ErrTableNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
