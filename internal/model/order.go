package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew                   OrderStatus = "New"
	OrderStatusPendingApproval       OrderStatus = "PendingApproval"
	OrderStatusApprovedWaitingPayment OrderStatus = "ApprovedWaitingPayment"
	OrderStatusPaid                  OrderStatus = "Paid"
	OrderStatusInProduction          OrderStatus = "InProduction"
	OrderStatusReady                 OrderStatus = "Ready"
	OrderStatusDelivered             OrderStatus = "Delivered"
	OrderStatusRejectedNoCapacity    OrderStatus = "RejectedNoCapacity"
	OrderStatusCancelled             OrderStatus = "Cancelled"
)

// PaymentStatus is the payment sub-state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// OrderVariant is the variant portion of a frozen order snapshot.
type OrderVariant struct {
	ID          uint   `json:"id,omitempty"`
	Name        string `json:"name"`
	Size        string `json:"size,omitempty"`
	SizeDetails string `json:"size_details,omitempty"`
	Kind        string `json:"kind,omitempty"`
	MinQuantity int    `json:"min_quantity,omitempty"`
}

// OrderDetails is the frozen snapshot of a conversation's selections taken at
// confirmation time. It holds copies, never references into live state.
type OrderDetails struct {
	Category     string               `json:"category,omitempty"`
	ProductType  string               `json:"product_type,omitempty"`
	Material     string               `json:"material,omitempty"`
	Variant      *OrderVariant        `json:"variant,omitempty"`
	Quantity     int                  `json:"quantity,omitempty"`
	Accessories  []AccessorySelection `json:"accessories,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	CustomerName string               `json:"customer_name,omitempty"`
}

// Order is an append-only record of a confirmed request.
type Order struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	Reference    string         `gorm:"column:reference;uniqueIndex" json:"reference"`
	CustomerID   string         `gorm:"column:customer_id;index;not null" json:"customer_id"`
	CustomerName string         `gorm:"column:customer_name;not null" json:"customer_name"`
	BusinessName string         `gorm:"column:business_name" json:"business_name,omitempty"`
	Details      datatypes.JSON `gorm:"column:order_details" json:"details"`
	TotalAmount  *float64       `gorm:"column:total_amount" json:"total_amount,omitempty"`
	InvoicePath  string         `gorm:"column:invoice_path" json:"invoice_path,omitempty"`
	Status       OrderStatus    `gorm:"column:status;default:'New'" json:"status"`

	// Management decision fields, set exactly once.
	HasCapacity    *bool    `gorm:"column:has_capacity" json:"has_capacity,omitempty"`
	ApprovedAmount *float64 `gorm:"column:approved_amount" json:"approved_amount,omitempty"`
	EstimatedDays  *int     `gorm:"column:estimated_days" json:"estimated_days,omitempty"`

	// Payment fields.
	PaymentURL    string        `gorm:"column:payment_url" json:"payment_url,omitempty"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;default:'Pending'" json:"payment_status"`
	PaidAt        *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`

	Notes     string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// EncodeDetails marshals a snapshot into the JSON column value.
func EncodeDetails(d OrderDetails) (datatypes.JSON, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeDetails unmarshals the stored snapshot.
func (o *Order) DecodeDetails() (OrderDetails, error) {
	var d OrderDetails
	if len(o.Details) == 0 {
		return d, nil
	}
	err := json.Unmarshal(o.Details, &d)
	return d, err
}

// ManagementDecision is the one-time capacity/pricing decision on an order.
type ManagementDecision struct {
	HasCapacity    bool     `json:"has_capacity"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	EstimatedDays  *int     `json:"estimated_days,omitempty"`
}

// Customer is contact information accumulated across conversations.
type Customer struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	CustomerID   string    `gorm:"column:customer_id;uniqueIndex;not null" json:"customer_id"`
	Name         string    `gorm:"column:name" json:"name,omitempty"`
	BusinessName string    `gorm:"column:business_name" json:"business_name,omitempty"`
	FirstContact time.Time `gorm:"column:first_contact;autoCreateTime" json:"first_contact"`
	LastContact  time.Time `gorm:"column:last_contact;autoUpdateTime" json:"last_contact"`
	TotalOrders  int       `gorm:"column:total_orders;default:0" json:"total_orders"`
}

// ChatDirection marks a chat log entry as inbound or outbound.
type ChatDirection string

const (
	ChatInbound  ChatDirection = "incoming"
	ChatOutbound ChatDirection = "outgoing"
)

// ChatLog is one message exchanged with a customer, kept for diagnostics.
type ChatLog struct {
	ID         uint          `gorm:"column:id;primaryKey" json:"id"`
	CustomerID string        `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Direction  ChatDirection `gorm:"column:direction" json:"direction"`
	Content    string        `gorm:"column:content;type:text" json:"content"`
	Intent     string        `gorm:"column:intent" json:"intent,omitempty"`
	Timestamp  time.Time     `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}
