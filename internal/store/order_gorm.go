package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/packprint/sales-agent/internal/model"
)

// Create persists a new order. Single insert, atomic: a failed create leaves
// no partial row behind.
func (d *DB) Create(ctx context.Context, order *model.Order) error {
	if err := d.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Get retrieves an order by id.
func (d *DB) Get(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// ListByStatus returns orders in a status, newest first.
func (d *DB) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	q := d.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SetDecision applies the one-time management decision in a transaction.
func (d *DB) SetDecision(ctx context.Context, id uint, decision model.ManagementDecision) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.HasCapacity != nil {
			return ErrDecisionAlreadySet
		}

		applyDecision(&order, decision)
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func applyDecision(order *model.Order, decision model.ManagementDecision) {
	hasCapacity := decision.HasCapacity
	order.HasCapacity = &hasCapacity

	if !hasCapacity {
		order.Status = model.OrderStatusRejectedNoCapacity
		return
	}

	order.ApprovedAmount = decision.ApprovedAmount
	order.EstimatedDays = decision.EstimatedDays
	order.TotalAmount = decision.ApprovedAmount
	order.Status = model.OrderStatusApprovedWaitingPayment
}

// MarkPaid records payment confirmation.
func (d *DB) MarkPaid(ctx context.Context, id uint) (*model.Order, error) {
	order, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.PaymentStatus = model.PaymentStatusPaid
	order.Status = model.OrderStatusPaid
	order.PaidAt = &now

	if err := d.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return order, nil
}

// SetPaymentLink attaches a payment URL to an order.
func (d *DB) SetPaymentLink(ctx context.Context, id uint, url string) (*model.Order, error) {
	order, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order.PaymentURL = url
	order.PaymentStatus = model.PaymentStatusPending

	if err := d.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, fmt.Errorf("failed to set payment link: %w", err)
	}
	return order, nil
}

// SetInvoicePath records the generated document's location.
func (d *DB) SetInvoicePath(ctx context.Context, id uint, path string) error {
	res := d.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("invoice_path", path)
	if res.Error != nil {
		return fmt.Errorf("failed to set invoice path: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch creates or refreshes the customer contact record.
func (d *DB) Touch(ctx context.Context, customerID, name string) error {
	var customer model.Customer
	err := d.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = model.Customer{CustomerID: customerID, Name: name}
		if err := d.db.WithContext(ctx).Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}

	if name != "" && customer.Name == "" {
		customer.Name = name
	}
	customer.LastContact = time.Now().UTC()
	if err := d.db.WithContext(ctx).Save(&customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// RecordOrder bumps the customer's order counter.
func (d *DB) RecordOrder(ctx context.Context, customerID string) error {
	return d.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("customer_id = ?", customerID).
		Update("total_orders", gorm.Expr("total_orders + 1")).Error
}

// Append writes a chat log entry.
func (d *DB) Append(ctx context.Context, entry *model.ChatLog) error {
	if err := d.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append chat log: %w", err)
	}
	return nil
}
