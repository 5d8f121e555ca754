// Package store provides durable persistence for conversation states, orders
// and catalog rows, with in-memory equivalents for tests and DB-less runs.
package store

import (
	"context"
	"errors"

	"github.com/packprint/sales-agent/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDecisionAlreadySet is returned when a management decision is applied to
// an order that already has one.
var ErrDecisionAlreadySet = errors.New("management decision already set")

// StateStore persists per-customer conversation state. Implementations must
// serialize operations for the same customer identifier and may run
// operations for different customers concurrently.
type StateStore interface {
	// GetOrCreate returns the existing state or atomically creates one at the
	// greeting step.
	GetOrCreate(ctx context.Context, customerID string) (*model.ConversationState, error)

	// Update applies a partial update and refreshes the updated timestamp.
	Update(ctx context.Context, customerID string, upd model.StateUpdate) (*model.ConversationState, error)

	// Reset restores the initial step and clears all selections, name, notes
	// and accessories, preserving the customer identifier.
	Reset(ctx context.Context, customerID string) (*model.ConversationState, error)
}

// OrderStore persists orders. Creation is atomic; later mutations belong to
// the management-decision and payment collaborators, never the step engine.
type OrderStore interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id uint) (*model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// SetDecision applies the one-time capacity decision. A second call for
	// the same order fails with ErrDecisionAlreadySet.
	SetDecision(ctx context.Context, id uint, d model.ManagementDecision) (*model.Order, error)

	MarkPaid(ctx context.Context, id uint) (*model.Order, error)
	SetPaymentLink(ctx context.Context, id uint, url string) (*model.Order, error)
	SetInvoicePath(ctx context.Context, id uint, path string) error
}

// CustomerStore tracks customer contact records across conversations.
type CustomerStore interface {
	// Touch creates or refreshes the contact record. A non-empty name
	// overwrites a previously empty one.
	Touch(ctx context.Context, customerID, name string) error

	// RecordOrder bumps the customer's order counter.
	RecordOrder(ctx context.Context, customerID string) error
}

// ChatLogStore appends chat log entries. Called fire-and-forget off the
// turn's critical path.
type ChatLogStore interface {
	Append(ctx context.Context, entry *model.ChatLog) error
}

// CatalogData is the full set of catalog rows, loaded once at startup into
// the read-optimized index.
type CatalogData struct {
	Categories  []model.Category
	Types       []model.ProductType
	Variants    []model.ProductVariant
	Accessories []model.Accessory
	Tiers       []model.PricingTier
}

// CatalogSource loads catalog rows for indexing.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*CatalogData, error)
}
