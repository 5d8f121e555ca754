package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/catalog"
	"github.com/packprint/sales-agent/internal/docgen"
	"github.com/packprint/sales-agent/internal/interp"
	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
)

// scripted returns fixed results in order, for driving the engine without a
// real backend.
type scripted struct {
	results []interp.Result
	calls   int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Interpret(ctx context.Context, message string, history []interp.Exchange) interp.Result {
	if s.calls >= len(s.results) {
		return interp.Result{Fields: interp.Fields{Intent: interp.IntentOther}}
	}
	r := s.results[s.calls]
	s.calls++
	return r
}

func newTestEngine(t *testing.T, in interp.Interpreter) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(nil)
	idx, err := catalog.Load(context.Background(), mem)
	require.NoError(t, err)
	if in == nil {
		in = interp.Fallback{}
	}
	eng := New(mem, mem, mem, idx, in, docgen.Noop{}, nil, logger.NewNop())
	return eng, mem
}

func TestGuidedFlowEndToEnd(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000001"

	// A plain greeting gets the welcome script only; the flow does not move
	// until the customer says something more.
	reply, err := eng.HandleTurn(ctx, customer, "hello")
	require.NoError(t, err)
	require.Contains(t, reply, "Welcome")
	require.NotContains(t, reply, "Cups")

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, state.Step)

	reply, err = eng.HandleTurn(ctx, customer, "I need hot cups for my coffee shop")
	require.NoError(t, err)
	require.Contains(t, reply, "What size")
	require.Contains(t, reply, "8 oz")

	reply, err = eng.HandleTurn(ctx, customer, "8 oz double wall")
	require.NoError(t, err)
	require.Contains(t, reply, "How many pieces")

	reply, err = eng.HandleTurn(ctx, customer, "2000 pieces")
	require.NoError(t, err)
	require.Contains(t, reply, "order summary")
	require.Contains(t, reply, "Hot Cup 8oz Double")
	require.Contains(t, reply, "Quantity: 2000")

	reply, err = eng.HandleTurn(ctx, customer, "approve")
	require.NoError(t, err)
	require.Contains(t, reply, "ORD-")

	orders, err := mem.ListByStatus(ctx, model.OrderStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Nil(t, orders[0].TotalAmount)

	details, err := orders[0].DecodeDetails()
	require.NoError(t, err)
	require.Equal(t, "Hot Cup 8oz Double", details.Variant.Name)
	require.Equal(t, 2000, details.Quantity)

	// The conversation restarts once the order is placed.
	state, err = mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, state.Step)
}

func TestCategoryReselectionMidFlow(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000010"

	_, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepSize, state.Step)
	cupsCategoryID := *state.CategoryID

	// Naming a different product mid-flow replaces the working selection
	// instead of being ignored.
	reply, err := eng.HandleTurn(ctx, customer, "actually I want pizza boxes")
	require.NoError(t, err)
	require.Contains(t, reply, "What size")

	state, err = mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.NotNil(t, state.CategoryID)
	require.NotEqual(t, cupsCategoryID, *state.CategoryID)
	require.NotNil(t, state.TypeID)

	// The rest of the flow completes against the new selection.
	_, err = eng.HandleTurn(ctx, customer, "small")
	require.NoError(t, err)
	reply, err = eng.HandleTurn(ctx, customer, "1000 pcs")
	require.NoError(t, err)
	require.Contains(t, reply, "Pizza")
}

func TestGreetingAdvancesOnFollowingTurn(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000011"

	_, err := eng.HandleTurn(ctx, customer, "hello")
	require.NoError(t, err)

	reply, err := eng.HandleTurn(ctx, customer, "show me what you have")
	require.NoError(t, err)
	require.Contains(t, reply, "Pick a section")

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepCategory, state.Step)
}

func TestPromptContents(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000012"

	_, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "8 oz")
	require.NoError(t, err)

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepVariant, state.Step)

	t.Run("variant kinds carry editorial tags", func(t *testing.T) {
		reply := eng.stepPrompt(state)
		require.Contains(t, reply, "Double Wall (premium, high heat insulation) ⭐")
		require.Contains(t, reply, "Single Wall (economy)")
		require.Contains(t, reply, "Ripple Wall (deluxe, embossed texture) ✨")
	})

	t.Run("quantity prompt hints at price breaks", func(t *testing.T) {
		reply, err := eng.HandleTurn(ctx, customer, "double wall")
		require.NoError(t, err)
		require.Contains(t, reply, "How many pieces")
		require.Contains(t, reply, "the lower the unit price")
	})

	t.Run("confirm summary shows material and notes", func(t *testing.T) {
		_, err := eng.HandleTurn(ctx, customer, "1000 pcs")
		require.NoError(t, err)

		notes := "hide the bag cord inside"
		_, err = mem.Update(ctx, customer, model.StateUpdate{Notes: &notes})
		require.NoError(t, err)

		state, err := mem.GetOrCreate(ctx, customer)
		require.NoError(t, err)
		summary := eng.stepPrompt(state)
		require.Contains(t, summary, "Notes: hide the bag cord inside")
		require.Contains(t, summary, "set by management")
	})
}

func TestVariantStepSkippedWhenTypeHasNoKinds(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000002"

	_, err := eng.HandleTurn(ctx, customer, "pizza boxes please")
	require.NoError(t, err)

	reply, err := eng.HandleTurn(ctx, customer, "small")
	require.NoError(t, err)
	require.Contains(t, reply, "How many pieces")

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepQuantity, state.Step)
	require.NotNil(t, state.VariantID)
}

func TestEditReturnsToQuantity(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000003"

	_, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "8 oz single wall")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "1000 pcs")
	require.NoError(t, err)

	reply, err := eng.HandleTurn(ctx, customer, "edit")
	require.NoError(t, err)
	require.Contains(t, reply, "How many pieces")

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepQuantity, state.Step)

	reply, err = eng.HandleTurn(ctx, customer, "3000 pcs")
	require.NoError(t, err)
	require.Contains(t, reply, "Quantity: 3000")
}

func TestCancelNeverCreatesAnOrder(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000004"

	_, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "8 oz ripple")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "1000 pcs")
	require.NoError(t, err)

	reply, err := eng.HandleTurn(ctx, customer, "cancel")
	require.NoError(t, err)
	require.Contains(t, reply, "start over")

	orders, err := mem.ListByStatus(ctx, "")
	require.NoError(t, err)
	require.Empty(t, orders)

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, model.StepGreeting, state.Step)
	require.Nil(t, state.VariantID)
}

func TestReadyForInvoiceMaterializesImmediately(t *testing.T) {
	t.Parallel()
	in := &scripted{results: []interp.Result{
		{Fields: interp.Fields{
			Intent:          interp.IntentConfirmation,
			Category:        "Cups",
			ProductType:     "Hot Cups",
			Size:            "12 oz",
			Variant:         "Double Wall",
			Quantity:        5000,
			ReadyForInvoice: true,
			CustomerName:    "Dana",
		}},
	}}
	eng, mem := newTestEngine(t, in)
	ctx := context.Background()
	customer := "whatsapp:+15551000005"

	reply, err := eng.HandleTurn(ctx, customer, "12oz double wall hot cups, 5000, confirmed, name Dana")
	require.NoError(t, err)
	require.Contains(t, reply, "ORD-")

	orders, err := mem.ListByStatus(ctx, model.OrderStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "Dana", orders[0].CustomerName)

	details, err := orders[0].DecodeDetails()
	require.NoError(t, err)
	require.Equal(t, "Hot Cup 12oz Double", details.Variant.Name)
	require.Equal(t, 5000, details.Quantity)
}

func TestBackendFailureDegradesToKeywordPass(t *testing.T) {
	t.Parallel()
	in := &scripted{results: []interp.Result{interp.ErrorResult()}}
	eng, mem := newTestEngine(t, in)
	ctx := context.Background()
	customer := "whatsapp:+15551000006"

	reply, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)
	require.NotEmpty(t, reply)

	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.NotNil(t, state.CategoryID)
	require.NotNil(t, state.TypeID)
}

func TestInterpreterReplyWinsOverStepPrompt(t *testing.T) {
	t.Parallel()
	in := &scripted{results: []interp.Result{
		{
			ResponseText: "Happy to help with cups! What size do you need?",
			Fields:       interp.Fields{Intent: interp.IntentInquiry, Category: "Cups", ProductType: "Hot Cups"},
		},
	}}
	eng, _ := newTestEngine(t, in)

	reply, err := eng.HandleTurn(context.Background(), "whatsapp:+15551000007", "do you sell cups?")
	require.NoError(t, err)
	require.Equal(t, "Happy to help with cups! What size do you need?", reply)
}

func TestSnapshotSurvivesReset(t *testing.T) {
	t.Parallel()
	eng, mem := newTestEngine(t, nil)
	ctx := context.Background()
	customer := "whatsapp:+15551000008"

	_, err := eng.HandleTurn(ctx, customer, "hot cups")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "16 oz double")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "1000 pcs")
	require.NoError(t, err)
	_, err = eng.HandleTurn(ctx, customer, "approve")
	require.NoError(t, err)

	// Materialization resets the live state; the frozen snapshot keeps its
	// values.
	state, err := mem.GetOrCreate(ctx, customer)
	require.NoError(t, err)
	require.Nil(t, state.VariantID)

	orders, err := mem.ListByStatus(ctx, model.OrderStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	details, err := orders[0].DecodeDetails()
	require.NoError(t, err)
	require.Equal(t, "Hot Cup 16oz Double", details.Variant.Name)
	require.Equal(t, 1000, details.Quantity)
}
