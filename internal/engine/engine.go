// Package engine drives the guided selection flow: one inbound message in,
// one reply out, with conversation state advanced between the two. A turn
// never fails outward; every degradation path ends in an apologetic reply.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/catalog"
	"github.com/packprint/sales-agent/internal/docgen"
	"github.com/packprint/sales-agent/internal/interp"
	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
	"github.com/packprint/sales-agent/pkg/metrics"
)

// cancelWords reset the conversation from any step.
var cancelWords = map[string]bool{
	"cancel":     true,
	"restart":    true,
	"start over": true,
	"new order":  true,
}

// affirmativeWords confirm the order at the confirm step.
var affirmativeWords = map[string]bool{
	"approve": true,
	"yes":     true,
	"ok":      true,
	"okay":    true,
	"confirm": true,
}

const apologyReply = "Sorry, something went wrong on my end. Please try again in a moment. 🙏"

// ChatSink receives chat log entries off the turn's critical path.
// Implementations must tolerate being called concurrently.
type ChatSink interface {
	Record(ctx context.Context, entry *model.ChatLog)
}

// Engine executes conversation turns against the stores and catalog.
type Engine struct {
	states    store.StateStore
	orders    store.OrderStore
	customers store.CustomerStore
	catalog   *catalog.Index
	interp    interp.Interpreter
	docs      docgen.Generator
	chat      ChatSink
	logger    *logger.Logger
}

// New wires an Engine. chat may be nil when chat logging is disabled.
func New(
	states store.StateStore,
	orders store.OrderStore,
	customers store.CustomerStore,
	idx *catalog.Index,
	in interp.Interpreter,
	docs docgen.Generator,
	chat ChatSink,
	log *logger.Logger,
) *Engine {
	if docs == nil {
		docs = docgen.Noop{}
	}
	return &Engine{
		states:    states,
		orders:    orders,
		customers: customers,
		catalog:   idx,
		interp:    in,
		docs:      docs,
		chat:      chat,
		logger:    log,
	}
}

// HandleTurn processes one inbound message and returns the reply text. The
// returned error is for observability only; a non-nil error still comes with
// a usable reply.
func (e *Engine) HandleTurn(ctx context.Context, customerID, message string) (string, error) {
	start := time.Now()
	log := e.logger.With(zap.String("customer_id", customerID))

	e.record(ctx, customerID, model.ChatInbound, message, "")

	reply, err := e.turn(ctx, log, customerID, message)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		log.Error("turn failed", zap.Error(err))
		if reply == "" {
			reply = apologyReply
		}
	}
	metrics.RecordTurn(outcome, time.Since(start).Seconds())

	e.record(ctx, customerID, model.ChatOutbound, reply, "")
	return reply, err
}

func (e *Engine) turn(ctx context.Context, log *logger.Logger, customerID, message string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if cancelWords[normalized] {
		state, err := e.states.Reset(ctx, customerID)
		if err != nil {
			return "", err
		}
		return "No problem, let's start over. 🔄\n\n" + e.stepPrompt(state), nil
	}

	state, err := e.states.GetOrCreate(ctx, customerID)
	if err != nil {
		return "", err
	}

	if state.Step == model.StepConfirm {
		if reply, handled, err := e.confirmTurn(ctx, log, state, normalized); handled {
			return reply, err
		}
	}

	result := e.interpret(ctx, state, message)
	fields := result.Fields

	upd, materialized := e.merge(state, fields)
	msg := message
	upd.LastMessage = &msg

	state, err = e.states.Update(ctx, customerID, upd)
	if err != nil {
		return "", err
	}

	if fields.CustomerName != "" {
		if err := e.customers.Touch(ctx, customerID, fields.CustomerName); err != nil {
			log.Warn("failed to record customer contact", zap.Error(err))
		}
	}

	if materialized || e.readyToMaterialize(state, fields) {
		order, err := e.materialize(ctx, state)
		if err != nil {
			return apologyReply, err
		}
		return e.orderPlacedReply(order), nil
	}

	if result.ResponseText != "" {
		return result.ResponseText, nil
	}
	return e.stepPrompt(state), nil
}

// confirmTurn handles the fixed confirm-step vocabulary. handled=false means
// the message was neither approval nor edit and falls through to normal
// interpretation.
func (e *Engine) confirmTurn(ctx context.Context, log *logger.Logger, state *model.ConversationState, normalized string) (string, bool, error) {
	switch {
	case affirmativeWords[normalized]:
		order, err := e.materialize(ctx, state)
		if err != nil {
			return apologyReply, true, err
		}
		return e.orderPlacedReply(order), true, nil

	case normalized == "edit":
		step := model.StepQuantity
		state, err := e.states.Update(ctx, state.CustomerID, model.StateUpdate{Step: &step})
		if err != nil {
			return "", true, err
		}
		return e.stepPrompt(state), true, nil
	}
	return "", false, nil
}

func (e *Engine) interpret(ctx context.Context, state *model.ConversationState, message string) interp.Result {
	var history []interp.Exchange
	if state.LastMessage != "" {
		history = append(history, interp.Exchange{Role: interp.RoleUser, Content: state.LastMessage})
	}

	result := e.interp.Interpret(ctx, message, history)
	status := "ok"
	if result.Fields.Intent == interp.IntentError {
		status = "error"
		// Degrade to the deterministic keyword pass so the flow can still
		// advance during a backend outage.
		result = interp.Result{Fields: interp.FallbackDetect(message)}
	}
	metrics.InterpretationsTotal.WithLabelValues(e.interp.Name(), status).Inc()
	return result
}

// merge folds extracted fields into a partial state update, advancing the
// step as selections resolve against the catalog. It returns materialize=true
// when the interpreter signalled a completed, confirmed order.
func (e *Engine) merge(state *model.ConversationState, fields interp.Fields) (model.StateUpdate, bool) {
	var upd model.StateUpdate
	next := state.Clone()

	if fields.CustomerName != "" {
		upd.CustomerName = &fields.CustomerName
	}

	// A named category always wins, even mid-flow: re-selection overwrites the
	// working category and regresses to the type step. Downstream selections
	// are left in place until something new resolves over them.
	if fields.Category != "" {
		if c := e.catalog.FindCategoryByName(fields.Category); c != nil {
			upd.CategoryID = &c.ID
			next.CategoryID = &c.ID
			e.advance(&upd, next, model.StepType)
		}
	}

	if fields.ProductType != "" && next.CategoryID != nil {
		if t := e.catalog.FindTypeByName(*next.CategoryID, fields.ProductType); t != nil {
			upd.TypeID = &t.ID
			next.TypeID = &t.ID
			if len(e.catalog.DistinctSizes(t.ID)) > 0 {
				e.advance(&upd, next, model.StepSize)
			} else if len(e.catalog.DistinctKinds(t.ID)) > 0 {
				e.advance(&upd, next, model.StepVariant)
			} else {
				e.resolveVariant(&upd, next, "", "")
				e.advance(&upd, next, model.StepQuantity)
			}
		}
	}

	if fields.Size != "" && next.TypeID != nil {
		if e.resolveVariant(&upd, next, fields.Size, fields.Variant) {
			if fields.Variant == "" && len(e.catalog.DistinctKinds(*next.TypeID)) > 0 {
				e.advance(&upd, next, model.StepVariant)
			} else {
				e.advance(&upd, next, model.StepQuantity)
			}
		}
	}

	if fields.Variant != "" && fields.Size == "" && next.TypeID != nil {
		size := ""
		if next.VariantID != nil {
			if v, ok := e.catalog.VariantByID(*next.VariantID); ok {
				size = v.Size
			}
		}
		if e.resolveVariant(&upd, next, size, fields.Variant) {
			e.advance(&upd, next, model.StepQuantity)
		}
	}

	if fields.Quantity > 0 {
		qty := fields.Quantity
		upd.Quantity = &qty
		next.Quantity = &qty
		// Any stated quantity moves the flow to confirmation; the summary
		// prompt lets the customer correct gaps before placing the order.
		e.advance(&upd, next, model.StepConfirm)
	}

	materialize := fields.ReadyForInvoice && next.VariantID != nil && next.Quantity != nil

	// A plain greeting stays at the greeting step and gets the welcome script;
	// anything after that moves the customer on to picking a category.
	if upd.Step == nil && state.Step == model.StepGreeting && fields.Intent != interp.IntentGreeting {
		step := model.StepCategory
		upd.Step = &step
	}

	return upd, materialize
}

// resolveVariant picks the first available variant matching size and kind
// under the working type and records it on the update. With several matches
// the earliest seeded one wins; the variant step refines the choice later.
func (e *Engine) resolveVariant(upd *model.StateUpdate, next *model.ConversationState, size, kind string) bool {
	if next.TypeID == nil {
		return false
	}
	v := e.catalog.FindVariant(*next.TypeID, size, kind)
	if v == nil {
		return false
	}
	upd.VariantID = &v.ID
	next.VariantID = &v.ID
	return true
}

func (e *Engine) advance(upd *model.StateUpdate, next *model.ConversationState, step model.Step) {
	upd.Step = &step
	next.Step = step
}

func (e *Engine) readyToMaterialize(state *model.ConversationState, fields interp.Fields) bool {
	return fields.ReadyForInvoice && state.VariantID != nil && state.Quantity != nil
}

func (e *Engine) orderPlacedReply(order *model.Order) string {
	return "Thank you! 🎉 Your order " + order.Reference + " has been received and sent for approval.\n" +
		"We'll message you with the final price and timeline shortly."
}

// PromptPreview renders the deterministic prompt for a step over an empty
// conversation, for diagnostics.
func (e *Engine) PromptPreview(step model.Step) string {
	return e.stepPrompt(&model.ConversationState{Step: step})
}

// record appends a chat log entry without blocking the turn.
func (e *Engine) record(ctx context.Context, customerID string, dir model.ChatDirection, content, intent string) {
	if e.chat == nil || content == "" {
		return
	}
	e.chat.Record(ctx, &model.ChatLog{
		CustomerID: customerID,
		Direction:  dir,
		Content:    content,
		Intent:     intent,
	})
}
