// Package interp turns free-text customer messages into structured fields
// for the step engine. Backends wrap external models; a deterministic
// keyword fallback covers outages. No implementation may surface an error to
// the turn: failures degrade to a fixed low-confidence result.
package interp

import "context"

// Intent values produced by interpretation.
const (
	IntentGreeting     = "greeting"
	IntentInquiry      = "inquiry"
	IntentConfirmation = "confirmation"
	IntentOther        = "other"
	IntentError        = "error"
)

// FallbackResponse is the fixed low-confidence reply used when a backend
// fails entirely.
const FallbackResponse = "Sorry, something went wrong on my end. How can I help you?"

// Fields are the structured values extracted from one message. Zero values
// mean "not present".
type Fields struct {
	Intent          string `json:"intent,omitempty"`
	Category        string `json:"category,omitempty"`
	ProductType     string `json:"product_type,omitempty"`
	Size            string `json:"size,omitempty"`
	Variant         string `json:"variant,omitempty"`
	Quantity        int    `json:"quantity,omitempty"`
	ReadyForInvoice bool   `json:"ready_for_invoice,omitempty"`
	CustomerName    string `json:"customer_name,omitempty"`
}

// History roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Exchange is one prior turn supplied as conversation history.
type Exchange struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is an interpretation outcome: a conversational reply (possibly
// empty, in which case the engine renders its own step prompt) plus the
// extracted fields.
type Result struct {
	ResponseText string
	Fields       Fields
}

// Interpreter analyzes a customer message. Implementations must not return
// errors; on internal failure they return FallbackResponse with
// Intent=IntentError.
type Interpreter interface {
	Interpret(ctx context.Context, message string, history []Exchange) Result
	Name() string
}

// ErrorResult is the uniform degraded outcome for backend failures.
func ErrorResult() Result {
	return Result{
		ResponseText: FallbackResponse,
		Fields:       Fields{Intent: IntentError},
	}
}
