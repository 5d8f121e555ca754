package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/model"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	first, err := m.GetOrCreate(ctx, "+15550001")
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, first.Step)

	second, err := m.GetOrCreate(ctx, "+15550001")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	catID := uint(1)
	step := model.StepType
	state, err := m.Update(ctx, "+15550002", model.StateUpdate{
		Step:       &step,
		CategoryID: &catID,
	})
	require.NoError(t, err)
	require.Equal(t, model.StepType, state.Step)
	require.Equal(t, catID, *state.CategoryID)
	require.Nil(t, state.TypeID)

	qty := 1000
	state, err = m.Update(ctx, "+15550002", model.StateUpdate{Quantity: &qty})
	require.NoError(t, err)
	require.Equal(t, 1000, *state.Quantity)
	// Earlier fields survive a partial update.
	require.Equal(t, model.StepType, state.Step)
	require.Equal(t, catID, *state.CategoryID)
}

func TestResetClearsSelections(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	catID, typeID, varID, qty := uint(1), uint(1), uint(5), 2000
	step := model.StepConfirm
	name := "Dana"
	_, err := m.Update(ctx, "+15550003", model.StateUpdate{
		Step:         &step,
		CategoryID:   &catID,
		TypeID:       &typeID,
		VariantID:    &varID,
		Quantity:     &qty,
		CustomerName: &name,
	})
	require.NoError(t, err)

	state, err := m.Reset(ctx, "+15550003")
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, state.Step)
	require.Nil(t, state.CategoryID)
	require.Nil(t, state.TypeID)
	require.Nil(t, state.VariantID)
	require.Nil(t, state.Quantity)
	require.Empty(t, state.CustomerName)
	require.Equal(t, "+15550003", state.CustomerID)
}

func TestHandedOutStatesAreCopies(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	state, err := m.GetOrCreate(ctx, "+15550004")
	require.NoError(t, err)
	state.Step = model.StepConfirm

	fresh, err := m.GetOrCreate(ctx, "+15550004")
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, fresh.Step)
}

func TestConcurrentUpdatesDistinctCustomers(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	customers := []string{"+1", "+2", "+3", "+4", "+5"}
	var wg sync.WaitGroup
	for _, id := range customers {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id string, qty int) {
				defer wg.Done()
				_, err := m.Update(ctx, id, model.StateUpdate{Quantity: &qty})
				require.NoError(t, err)
			}(id, i+1)
		}
	}
	wg.Wait()

	for _, id := range customers {
		state, err := m.GetOrCreate(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, state.Quantity)
	}
}

func newTestOrder(t *testing.T, m *Memory) *model.Order {
	t.Helper()
	details, err := model.EncodeDetails(model.OrderDetails{
		Category:    "Cups",
		ProductType: "Hot Cups",
		Variant:     &model.OrderVariant{ID: 5, Name: "Hot Cup 8oz Double", Size: "8 oz", Kind: "Double Wall"},
		Quantity:    2000,
	})
	require.NoError(t, err)

	order := &model.Order{
		Reference:    "ORD-TEST0001",
		CustomerID:   "+15550010",
		CustomerName: "Dana",
		Details:      details,
		Status:       model.OrderStatusPendingApproval,
	}
	require.NoError(t, m.Create(context.Background(), order))
	return order
}

func TestDecisionIsOneShot(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	order := newTestOrder(t, m)
	ctx := context.Background()

	amount := 108.0
	days := 10
	updated, err := m.SetDecision(ctx, order.ID, model.ManagementDecision{
		HasCapacity:    true,
		ApprovedAmount: &amount,
		EstimatedDays:  &days,
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusApprovedWaitingPayment, updated.Status)
	require.Equal(t, amount, *updated.TotalAmount)
	require.Equal(t, days, *updated.EstimatedDays)

	_, err = m.SetDecision(ctx, order.ID, model.ManagementDecision{HasCapacity: false})
	require.ErrorIs(t, err, ErrDecisionAlreadySet)
}

func TestDecisionReject(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	order := newTestOrder(t, m)

	updated, err := m.SetDecision(context.Background(), order.ID, model.ManagementDecision{HasCapacity: false})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusRejectedNoCapacity, updated.Status)
	require.Nil(t, updated.TotalAmount)
}

func TestMarkPaid(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	order := newTestOrder(t, m)

	updated, err := m.MarkPaid(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPaid, updated.Status)
	require.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaidAt)

	_, err = m.MarkPaid(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByStatus(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	order := newTestOrder(t, m)

	pending, err := m.ListByStatus(context.Background(), model.OrderStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, order.Reference, pending[0].Reference)

	paid, err := m.ListByStatus(context.Background(), model.OrderStatusPaid)
	require.NoError(t, err)
	require.Empty(t, paid)
}

func TestTouchAndRecordOrder(t *testing.T) {
	t.Parallel()
	m := NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, m.Touch(ctx, "+15550020", ""))
	require.NoError(t, m.Touch(ctx, "+15550020", "Dana"))
	require.NoError(t, m.RecordOrder(ctx, "+15550020"))
	require.NoError(t, m.RecordOrder(ctx, "+15550020"))

	m.mu.RLock()
	customer := m.customers["+15550020"]
	m.mu.RUnlock()
	require.Equal(t, "Dana", customer.Name)
	require.Equal(t, 2, customer.TotalOrders)
}
