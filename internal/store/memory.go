package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/packprint/sales-agent/internal/model"
)

// Memory implements every store interface in process memory. It backs tests
// and DB-less development runs; semantics match the GORM implementation.
type Memory struct {
	keys *keyMutex

	mu        sync.RWMutex
	states    map[string]*model.ConversationState
	orders    map[uint]*model.Order
	customers map[string]*model.Customer
	chatLogs  []model.ChatLog
	catalog   *CatalogData

	nextStateID uint
	nextOrderID uint
	nextLogID   uint
}

// NewMemory creates an in-memory store seeded with the given catalog.
// A nil catalog gets the standard seed fixture.
func NewMemory(catalog *CatalogData) *Memory {
	if catalog == nil {
		catalog = SeedCatalog()
	}
	return &Memory{
		keys:      newKeyMutex(),
		states:    make(map[string]*model.ConversationState),
		orders:    make(map[uint]*model.Order),
		customers: make(map[string]*model.Customer),
		catalog:   catalog,
	}
}

// LoadCatalog returns the seeded catalog rows.
func (m *Memory) LoadCatalog(ctx context.Context) (*CatalogData, error) {
	return m.catalog, nil
}

// GetOrCreate returns or creates the customer's conversation state.
func (m *Memory) GetOrCreate(ctx context.Context, customerID string) (*model.ConversationState, error) {
	unlock := m.keys.Lock(customerID)
	defer unlock()
	return m.getOrCreateLocked(customerID), nil
}

func (m *Memory) getOrCreateLocked(customerID string) *model.ConversationState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[customerID]; ok {
		return state.Clone()
	}

	m.nextStateID++
	state := &model.ConversationState{
		ID:         m.nextStateID,
		CustomerID: customerID,
		Step:       model.StepGreeting,
		UpdatedAt:  time.Now().UTC(),
	}
	m.states[customerID] = state
	return state.Clone()
}

// Update applies a partial update under the customer's key lock.
func (m *Memory) Update(ctx context.Context, customerID string, upd model.StateUpdate) (*model.ConversationState, error) {
	unlock := m.keys.Lock(customerID)
	defer unlock()

	m.getOrCreateLocked(customerID)

	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.states[customerID]
	upd.Apply(state)
	state.UpdatedAt = time.Now().UTC()
	return state.Clone(), nil
}

// Reset restores the greeting step and clears all selections.
func (m *Memory) Reset(ctx context.Context, customerID string) (*model.ConversationState, error) {
	unlock := m.keys.Lock(customerID)
	defer unlock()

	m.getOrCreateLocked(customerID)

	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.states[customerID]
	state.Step = model.StepGreeting
	state.CategoryID = nil
	state.TypeID = nil
	state.VariantID = nil
	state.Quantity = nil
	state.Accessories = nil
	state.CustomerName = ""
	state.Notes = ""
	state.UpdatedAt = time.Now().UTC()
	return state.Clone(), nil
}

// Create persists a new order.
func (m *Memory) Create(ctx context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextOrderID++
	order.ID = m.nextOrderID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	clone := *order
	m.orders[order.ID] = &clone
	return nil
}

// Get retrieves an order by id.
func (m *Memory) Get(ctx context.Context, id uint) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *order
	return &clone, nil
}

// ListByStatus returns orders in a status, newest first.
func (m *Memory) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []model.Order
	for _, order := range m.orders {
		if status == "" || order.Status == status {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// SetDecision applies the one-time management decision.
func (m *Memory) SetDecision(ctx context.Context, id uint, decision model.ManagementDecision) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if order.HasCapacity != nil {
		return nil, ErrDecisionAlreadySet
	}

	applyDecision(order, decision)
	clone := *order
	return &clone, nil
}

// MarkPaid records payment confirmation.
func (m *Memory) MarkPaid(ctx context.Context, id uint) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	order.PaymentStatus = model.PaymentStatusPaid
	order.Status = model.OrderStatusPaid
	order.PaidAt = &now
	clone := *order
	return &clone, nil
}

// SetPaymentLink attaches a payment URL to an order.
func (m *Memory) SetPaymentLink(ctx context.Context, id uint, url string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	order.PaymentURL = url
	order.PaymentStatus = model.PaymentStatusPending
	clone := *order
	return &clone, nil
}

// SetInvoicePath records the generated document's location.
func (m *Memory) SetInvoicePath(ctx context.Context, id uint, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.InvoicePath = path
	return nil
}

// Touch creates or refreshes the customer contact record.
func (m *Memory) Touch(ctx context.Context, customerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer, ok := m.customers[customerID]
	if !ok {
		now := time.Now().UTC()
		m.customers[customerID] = &model.Customer{
			CustomerID:   customerID,
			Name:         name,
			FirstContact: now,
			LastContact:  now,
		}
		return nil
	}

	if name != "" && customer.Name == "" {
		customer.Name = name
	}
	customer.LastContact = time.Now().UTC()
	return nil
}

// RecordOrder bumps the customer's order counter.
func (m *Memory) RecordOrder(ctx context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if customer, ok := m.customers[customerID]; ok {
		customer.TotalOrders++
	}
	return nil
}

// Append writes a chat log entry.
func (m *Memory) Append(ctx context.Context, entry *model.ChatLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextLogID++
	entry.ID = m.nextLogID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	m.chatLogs = append(m.chatLogs, *entry)
	return nil
}

// ChatLogs returns a copy of all chat log entries. Used in tests.
func (m *Memory) ChatLogs() []model.ChatLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ChatLog, len(m.chatLogs))
	copy(out, m.chatLogs)
	return out
}
