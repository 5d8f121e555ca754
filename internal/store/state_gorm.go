package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/packprint/sales-agent/internal/model"
)

// GetOrCreate returns the customer's state, creating it at greeting on first
// contact. Idempotent: repeated calls without writes return the same state.
func (d *DB) GetOrCreate(ctx context.Context, customerID string) (*model.ConversationState, error) {
	unlock := d.keys.Lock(customerID)
	defer unlock()

	return d.getOrCreateLocked(ctx, customerID)
}

func (d *DB) getOrCreateLocked(ctx context.Context, customerID string) (*model.ConversationState, error) {
	var state model.ConversationState
	err := d.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}

	state = model.ConversationState{
		CustomerID: customerID,
		Step:       model.StepGreeting,
	}
	if err := d.db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation state: %w", err)
	}
	return &state, nil
}

// Update applies a partial update under the customer's key lock.
func (d *DB) Update(ctx context.Context, customerID string, upd model.StateUpdate) (*model.ConversationState, error) {
	unlock := d.keys.Lock(customerID)
	defer unlock()

	state, err := d.getOrCreateLocked(ctx, customerID)
	if err != nil {
		return nil, err
	}

	upd.Apply(state)
	state.UpdatedAt = time.Now().UTC()

	if err := d.db.WithContext(ctx).Save(state).Error; err != nil {
		return nil, fmt.Errorf("failed to update conversation state: %w", err)
	}
	return state, nil
}

// Reset restores the greeting step and clears every selection field.
func (d *DB) Reset(ctx context.Context, customerID string) (*model.ConversationState, error) {
	unlock := d.keys.Lock(customerID)
	defer unlock()

	state, err := d.getOrCreateLocked(ctx, customerID)
	if err != nil {
		return nil, err
	}

	state.Step = model.StepGreeting
	state.CategoryID = nil
	state.TypeID = nil
	state.VariantID = nil
	state.Quantity = nil
	state.Accessories = nil
	state.CustomerName = ""
	state.Notes = ""
	state.UpdatedAt = time.Now().UTC()

	// Save writes all columns, including the cleared ones.
	if err := d.db.WithContext(ctx).Save(state).Error; err != nil {
		return nil, fmt.Errorf("failed to reset conversation state: %w", err)
	}
	return state, nil
}
