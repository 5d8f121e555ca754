package engine

import (
	"fmt"
	"strings"

	"github.com/packprint/sales-agent/internal/model"
)

const defaultMinQuantity = 500

// stepPrompt renders the deterministic question for the state's current
// step. These are used whenever the interpreter produced no conversational
// reply of its own.
func (e *Engine) stepPrompt(state *model.ConversationState) string {
	switch state.Step {
	case model.StepGreeting:
		return e.greetingPrompt()
	case model.StepCategory:
		return e.categoryPrompt()
	case model.StepType:
		return e.typePrompt(state)
	case model.StepSize:
		return e.sizePrompt(state)
	case model.StepVariant:
		return e.variantPrompt(state)
	case model.StepQuantity:
		return e.quantityPrompt(state)
	case model.StepConfirm:
		return e.confirmPrompt(state)
	case model.StepInvoice:
		return "Your order has been received and is awaiting approval. We'll message you with the price and timeline shortly. 🙏"
	default:
		return e.categoryPrompt()
	}
}

func (e *Engine) greetingPrompt() string {
	return "Welcome! I'm the print shop's sales agent, here to turn your idea into a finished product. 😊\n" +
		"With any order you can add exact notes if you'd like something special, for example \"hide the bag cord inside\" or \"swap it for a red ribbon\". Every note is taken into account, so don't worry.\n" +
		"Shall we start by picking the product you have in mind? Send me whatever details you have and I'll sort them out."
}

func (e *Engine) categoryPrompt() string {
	var b strings.Builder
	b.WriteString("What are you looking for today? Pick a section:\n\n")
	for _, c := range e.catalog.Categories() {
		fmt.Fprintf(&b, "%s %s\n", c.Icon, c.Name)
	}
	b.WriteString("\nJust tell me which product interests you.")
	return b.String()
}

func (e *Engine) typePrompt(state *model.ConversationState) string {
	if state.CategoryID == nil {
		return e.categoryPrompt()
	}
	cat, ok := e.catalog.CategoryByID(*state.CategoryID)
	if !ok {
		return e.categoryPrompt()
	}

	types := e.catalog.TypesByCategory(cat.ID)
	if len(types) == 0 {
		return "Sorry, there are no products in this section right now."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Great choice! %s %s, which kind do you need?\n\n", cat.Icon, cat.Name)
	for _, t := range types {
		if t.Material != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Name, t.Material)
		} else {
			fmt.Fprintf(&b, "- %s\n", t.Name)
		}
	}
	return b.String()
}

func (e *Engine) sizePrompt(state *model.ConversationState) string {
	if state.TypeID == nil {
		return e.categoryPrompt()
	}
	sizes := e.catalog.DistinctSizes(*state.TypeID)
	if len(sizes) == 0 {
		return "What size do you need?"
	}

	var b strings.Builder
	b.WriteString("📏 What size would you like?\n\n")
	for _, s := range sizes {
		if s.Details != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", s.Size, s.Details)
		} else {
			fmt.Fprintf(&b, "- %s\n", s.Size)
		}
	}
	return b.String()
}

func (e *Engine) variantPrompt(state *model.ConversationState) string {
	if state.TypeID == nil {
		return e.categoryPrompt()
	}
	kinds := e.catalog.DistinctKinds(*state.TypeID)
	if len(kinds) == 0 {
		return e.quantityPrompt(state)
	}

	var b strings.Builder
	b.WriteString("Which construction do you prefer?\n\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "- %s%s\n", k, kindNote(k))
	}
	return b.String()
}

// kindNote is the fixed editorial tag shown next to a construction kind.
func kindNote(kind string) string {
	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "double"):
		return " (premium, high heat insulation) ⭐"
	case strings.Contains(k, "single"):
		return " (economy)"
	case strings.Contains(k, "ripple"):
		return " (deluxe, embossed texture) ✨"
	}
	return ""
}

func (e *Engine) quantityPrompt(state *model.ConversationState) string {
	min := defaultMinQuantity
	if state.VariantID != nil {
		if v, ok := e.catalog.VariantByID(*state.VariantID); ok && v.MinQuantity > 0 {
			min = v.MinQuantity
		}
	}
	return fmt.Sprintf("🔢 How many pieces would you like?\n\n📌 Minimum order: %d pieces\n💡 The more you order, the lower the unit price.", min)
}

func (e *Engine) confirmPrompt(state *model.ConversationState) string {
	var b strings.Builder
	b.WriteString("📋 Here's your final order summary:\n\n")

	if state.CategoryID != nil {
		if c, ok := e.catalog.CategoryByID(*state.CategoryID); ok {
			fmt.Fprintf(&b, "Category: %s %s\n", c.Icon, c.Name)
		}
	}
	if state.TypeID != nil {
		if t, ok := e.catalog.TypeByID(*state.TypeID); ok {
			if t.Material != "" {
				fmt.Fprintf(&b, "Product: %s (%s)\n", t.Name, t.Material)
			} else {
				fmt.Fprintf(&b, "Product: %s\n", t.Name)
			}
		}
	}
	if state.VariantID != nil {
		if v, ok := e.catalog.VariantByID(*state.VariantID); ok {
			fmt.Fprintf(&b, "Item: %s\n", v.Name)
			switch {
			case v.SizeDetails != "":
				fmt.Fprintf(&b, "Size: %s\n", v.SizeDetails)
			case v.Size != "":
				fmt.Fprintf(&b, "Size: %s\n", v.Size)
			}
			if v.Kind != "" {
				fmt.Fprintf(&b, "Kind: %s\n", v.Kind)
			}
		}
	}
	if state.Quantity != nil {
		fmt.Fprintf(&b, "Quantity: %d\n", *state.Quantity)
	}
	for _, acc := range state.Accessories {
		fmt.Fprintf(&b, "Add-on: %s x%d\n", acc.Name, acc.Quantity)
	}
	if state.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", state.Notes)
	}

	b.WriteString("\n💰 Price: set by management after reviewing capacity.")
	b.WriteString("\n\nReply \"approve\" to place the order, \"edit\" to change the quantity, or \"cancel\" to start over.")
	return b.String()
}
