package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/catalog"
	"github.com/packprint/sales-agent/internal/engine"
	"github.com/packprint/sales-agent/internal/interp"
	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/internal/pricing"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
)

// OrderHandler handles the admin order endpoints.
type OrderHandler struct {
	orders  store.OrderStore
	catalog *catalog.Index
	engine  *engine.Engine
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders store.OrderStore, idx *catalog.Index, eng *engine.Engine, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		catalog: idx,
		engine:  eng,
		logger:  log,
	}
}

// List handles GET /api/v1/orders?status=
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.OrderStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.OrderStatusPendingApproval
	}

	orders, err := h.orders.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

type decisionRequest struct {
	HasCapacity    *bool    `json:"has_capacity"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	EstimatedDays  *int     `json:"estimated_days,omitempty"`
}

// Decision handles POST /api/v1/orders/{id}/decision. The decision is
// one-shot: a second call returns 409.
func (h *OrderHandler) Decision(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HasCapacity == nil {
		writeError(w, http.StatusBadRequest, "has_capacity is required")
		return
	}

	decision := model.ManagementDecision{
		HasCapacity:    *req.HasCapacity,
		ApprovedAmount: req.ApprovedAmount,
		EstimatedDays:  req.EstimatedDays,
	}

	if decision.HasCapacity && decision.ApprovedAmount == nil {
		if amount, ok := h.estimateTotal(r.Context(), id); ok {
			decision.ApprovedAmount = &amount
		} else {
			writeError(w, http.StatusBadRequest, "approved_amount is required when no pricing tier covers the order")
			return
		}
	}

	order, err := h.orders.SetDecision(r.Context(), id, decision)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, store.ErrDecisionAlreadySet):
		writeError(w, http.StatusConflict, "decision already recorded")
		return
	case err != nil:
		h.logger.Error("failed to record decision", zap.Error(err), zap.Uint("order_id", id))
		writeError(w, http.StatusInternalServerError, "failed to record decision")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// estimateTotal computes quantity x tier unit price from the order's frozen
// snapshot, falling back to the variant base price when no tier matches.
func (h *OrderHandler) estimateTotal(ctx context.Context, id uint) (float64, bool) {
	order, err := h.orders.Get(ctx, id)
	if err != nil {
		return 0, false
	}
	details, err := order.DecodeDetails()
	if err != nil || details.Variant == nil || details.Quantity <= 0 {
		return 0, false
	}

	tiers := h.catalog.TiersByVariant(details.Variant.ID)
	if unit, err := pricing.UnitPriceFor(tiers, details.Quantity); err == nil {
		return unit * float64(details.Quantity), true
	}

	if v, ok := h.catalog.VariantByID(details.Variant.ID); ok && v.BasePrice > 0 {
		return v.BasePrice * float64(details.Quantity), true
	}
	return 0, false
}

// Payment handles POST /api/v1/orders/{id}/payment
func (h *OrderHandler) Payment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.MarkPaid(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case err != nil:
		h.logger.Error("failed to mark order paid", zap.Error(err), zap.Uint("order_id", id))
		writeError(w, http.StatusInternalServerError, "failed to mark order paid")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// PaymentLink handles POST /api/v1/orders/{id}/payment-link. Link minting is
// a stub pending a real payment provider.
func (h *OrderHandler) PaymentLink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	existing, err := h.orders.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case err != nil:
		h.logger.Error("failed to load order", zap.Error(err), zap.Uint("order_id", id))
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	url := fmt.Sprintf("https://pay.packprint.example/%s", existing.Reference)
	order, err := h.orders.SetPaymentLink(r.Context(), id, url)
	if err != nil {
		h.logger.Error("failed to store payment link", zap.Error(err), zap.Uint("order_id", id))
		writeError(w, http.StatusInternalServerError, "failed to store payment link")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment_url": order.PaymentURL,
		"order":       order,
	})
}

// Simulate handles GET /api/v1/simulate/{message}: runs the deterministic
// keyword pass and previews the greeting prompt without touching any
// conversation or sending anything.
func (h *OrderHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	message := chi.URLParam(r, "message")
	fields := interp.FallbackDetect(message)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fields":  fields,
		"preview": h.engine.PromptPreview(model.StepGreeting),
	})
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return uint(id), true
}
