package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/pkg/metrics"
)

// materialize freezes the conversation's selections into an order record,
// creates it pending approval, and resets the conversation. The snapshot
// copies every value out of live state; later resets cannot reach into it.
func (e *Engine) materialize(ctx context.Context, state *model.ConversationState) (*model.Order, error) {
	details := e.snapshot(state)

	raw, err := model.EncodeDetails(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order details: %w", err)
	}

	name := state.CustomerName
	if name == "" {
		name = state.CustomerID
	}

	order := &model.Order{
		Reference:    newReference(),
		CustomerID:   state.CustomerID,
		CustomerName: name,
		Details:      raw,
		Status:       model.OrderStatusPendingApproval,
		Notes:        state.Notes,
	}
	if err := e.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues(string(order.Status)).Inc()

	log := e.logger.With(
		zap.String("customer_id", state.CustomerID),
		zap.String("reference", order.Reference))
	log.Info("order created", zap.Uint("order_id", order.ID))

	// Paperwork and bookkeeping are best-effort: the order already exists.
	if path, err := e.docs.Invoice(ctx, order); err != nil {
		log.Warn("invoice generation failed", zap.Error(err))
	} else if path != "" {
		if err := e.orders.SetInvoicePath(ctx, order.ID, path); err != nil {
			log.Warn("failed to record invoice path", zap.Error(err))
		}
	}

	if err := e.customers.RecordOrder(ctx, state.CustomerID); err != nil {
		log.Warn("failed to bump customer order count", zap.Error(err))
	}
	if _, err := e.states.Reset(ctx, state.CustomerID); err != nil {
		log.Warn("failed to reset conversation after order", zap.Error(err))
	}

	return order, nil
}

// snapshot copies the state's selections, resolved against the catalog, into
// a frozen details value.
func (e *Engine) snapshot(state *model.ConversationState) model.OrderDetails {
	details := model.OrderDetails{
		Notes:        state.Notes,
		CustomerName: state.CustomerName,
	}
	if state.Quantity != nil {
		details.Quantity = *state.Quantity
	}

	if state.CategoryID != nil {
		if c, ok := e.catalog.CategoryByID(*state.CategoryID); ok {
			details.Category = c.Name
		}
	}
	if state.TypeID != nil {
		if t, ok := e.catalog.TypeByID(*state.TypeID); ok {
			details.ProductType = t.Name
			details.Material = t.Material
		}
	}
	if state.VariantID != nil {
		if v, ok := e.catalog.VariantByID(*state.VariantID); ok {
			details.Variant = &model.OrderVariant{
				ID:          v.ID,
				Name:        v.Name,
				Size:        v.Size,
				SizeDetails: v.SizeDetails,
				Kind:        v.Kind,
				MinQuantity: v.MinQuantity,
			}
		}
	}
	if len(state.Accessories) > 0 {
		details.Accessories = make([]model.AccessorySelection, len(state.Accessories))
		copy(details.Accessories, state.Accessories)
	}
	return details
}

// newReference mints a short human-readable order reference.
func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + id[:8]
}
