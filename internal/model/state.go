package model

import (
	"time"

	"gorm.io/datatypes"
)

// Step is one stage in the guided selection flow.
type Step string

const (
	StepGreeting    Step = "greeting"
	StepCategory    Step = "category"
	StepType        Step = "type"
	StepSize        Step = "size"
	StepVariant     Step = "variant"
	StepQuantity    Step = "quantity"
	StepAccessories Step = "accessories"
	StepConfirm     Step = "confirm"
	StepInvoice     Step = "invoice"
)

// Steps is the ordered flow. Accessories is optional and may be routed around;
// variant may be skipped when a type has no distinct kinds.
var Steps = []Step{
	StepGreeting,
	StepCategory,
	StepType,
	StepSize,
	StepVariant,
	StepQuantity,
	StepAccessories,
	StepConfirm,
	StepInvoice,
}

// Valid reports whether s is one of the enumerated steps.
func (s Step) Valid() bool {
	for _, step := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

// Next returns the step following s, or greeting when s is last or unknown.
func (s Step) Next() Step {
	for i, step := range Steps {
		if s == step && i < len(Steps)-1 {
			return Steps[i+1]
		}
	}
	return StepGreeting
}

// AccessorySelection is one chosen add-on with its quantity.
type AccessorySelection struct {
	AccessoryID uint   `json:"accessory_id"`
	Name        string `json:"name,omitempty"`
	Quantity    int    `json:"quantity"`
}

// ConversationState tracks one customer's position in the selection flow.
type ConversationState struct {
	ID           uint                                     `gorm:"column:id;primaryKey" json:"id"`
	CustomerID   string                                   `gorm:"column:customer_id;uniqueIndex;not null" json:"customer_id"`
	Step         Step                                     `gorm:"column:current_step;default:'greeting'" json:"step"`
	CategoryID   *uint                                    `gorm:"column:selected_category_id" json:"category_id,omitempty"`
	TypeID       *uint                                    `gorm:"column:selected_type_id" json:"type_id,omitempty"`
	VariantID    *uint                                    `gorm:"column:selected_variant_id" json:"variant_id,omitempty"`
	Quantity     *int                                     `gorm:"column:selected_quantity" json:"quantity,omitempty"`
	Accessories  datatypes.JSONSlice[AccessorySelection] `gorm:"column:selected_accessories" json:"accessories,omitempty"`
	CustomerName string                                   `gorm:"column:customer_name" json:"customer_name,omitempty"`
	Notes        string                                   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	LastMessage  string                                   `gorm:"column:last_message;type:text" json:"last_message,omitempty"`
	UpdatedAt    time.Time                                `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Clone returns a deep copy of the state. Stores hand out copies so callers
// cannot mutate persisted state behind the store's back.
func (s *ConversationState) Clone() *ConversationState {
	out := *s
	out.CategoryID = clonePtr(s.CategoryID)
	out.TypeID = clonePtr(s.TypeID)
	out.VariantID = clonePtr(s.VariantID)
	out.Quantity = clonePtr(s.Quantity)
	if s.Accessories != nil {
		out.Accessories = make(datatypes.JSONSlice[AccessorySelection], len(s.Accessories))
		copy(out.Accessories, s.Accessories)
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StateUpdate is a typed partial update of a ConversationState. Nil fields are
// left untouched; unknown field names cannot exist by construction.
type StateUpdate struct {
	Step         *Step
	CategoryID   *uint
	TypeID       *uint
	VariantID    *uint
	Quantity     *int
	Accessories  *[]AccessorySelection
	CustomerName *string
	Notes        *string
	LastMessage  *string
}

// Apply copies the set fields of u onto s.
func (u StateUpdate) Apply(s *ConversationState) {
	if u.Step != nil {
		s.Step = *u.Step
	}
	if u.CategoryID != nil {
		s.CategoryID = clonePtr(u.CategoryID)
	}
	if u.TypeID != nil {
		s.TypeID = clonePtr(u.TypeID)
	}
	if u.VariantID != nil {
		s.VariantID = clonePtr(u.VariantID)
	}
	if u.Quantity != nil {
		s.Quantity = clonePtr(u.Quantity)
	}
	if u.Accessories != nil {
		s.Accessories = datatypes.NewJSONSlice(*u.Accessories)
	}
	if u.CustomerName != nil {
		s.CustomerName = *u.CustomerName
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.LastMessage != nil {
		s.LastMessage = *u.LastMessage
	}
}
