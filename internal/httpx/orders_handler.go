package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"restaurant-pos/internal/pos"
	"restaurant-pos/internal/redisx"
)

// OrdersHandler serves the polling terminals: order history with search,
// the kitchen queue, derived table occupancy, and status transitions.
type OrdersHandler struct {
	Manager     *pos.Manager
	Catalog     pos.Catalog
	Redis       *redis.Client
	UrgentAfter time.Duration
}

type transitionReq struct {
	Status pos.Status `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Patch("/orders/{id}/status", h.transition)
	r.Get("/kitchen/queue", h.kitchenQueue)
	r.Get("/tables", h.tables)
	r.Get("/products", h.products)
	r.Get("/settings", h.settings)
}

// list applies the query projection server-side: ?q= matches number or
// customer name, ?status= filters exact ("all" or absent matches every one).
func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	all, err := h.Manager.List(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, pos.SearchOrders(all, q.Get("q"), q.Get("status")))
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Manager.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, pos.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	} else if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// getStatus serves the tight polling loop from the Redis cache when it can,
// falling back to the store and refilling the cache.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(s))
			return
		}
	}

	order, err := h.Manager.Get(ctx, orderID)
	if errors.Is(err, pos.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	} else if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.cacheStatus(ctx, order)
	writeJSON(w, http.StatusOK, map[string]any{"status": order.Status, "updated_at": order.UpdatedAt})
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request) {
	var req transitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !pos.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Manager.Transition(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		var invalid *pos.InvalidTransitionError
		switch {
		case errors.Is(err, pos.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.As(err, &invalid):
			writeError(w, http.StatusConflict, invalid.Error())
		default:
			// transient store/transport failure: nothing was applied,
			// the terminal keeps showing the last known-good state
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	// refresh the cache only after the store accepted the transition
	h.cacheStatus(ctx, order)
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, order pos.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	b, _ := json.Marshal(map[string]any{"status": order.Status, "updated_at": order.UpdatedAt})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) kitchenQueue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	all, err := h.Manager.List(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	tickets := pos.KitchenQueue(all, time.Now(), h.UrgentAfter)
	if tickets == nil {
		tickets = []pos.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *OrdersHandler) tables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tables, err := h.Manager.Tables(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	orders, err := h.Manager.List(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pos.BuildTableViews(tables, orders))
}

func (h *OrdersHandler) products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Manager.Settings())
}
