// Package events defines the notifications published when sales change and
// the Publisher contract that delivers them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salesdesk/m/domain"
)

// Topics used for sale notifications.
const (
	TopicSaleCreated       = "sale_created"
	TopicSaleModified      = "sale_modified"
	TopicSaleCancelled     = "sale_cancelled"
	TopicSaleItemCancelled = "sale_item_cancelled"
)

// Topics lists every topic, for declaring queues up front.
var Topics = []string{TopicSaleCreated, TopicSaleModified, TopicSaleCancelled, TopicSaleItemCancelled}

// Publisher delivers a payload to a topic. Delivery guarantees belong to the implementation.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Envelope pairs a payload with its topic so callers can queue notifications
// and publish them later in order.
type Envelope struct {
	Topic   string
	Payload any
}

// SaleSnapshot is the sale as it stood when the notification was raised.
type SaleSnapshot struct {
	ID                 uuid.UUID      `json:"id"`
	SaleNumber         int64          `json:"sale_number"`
	CreatedAt          time.Time      `json:"created_at"`
	CustomerID         int64          `json:"customer_id"`
	BranchID           int64          `json:"branch_id"`
	Total              string         `json:"total"`
	TotalDiscount      string         `json:"total_discount"`
	TotalAfterDiscount string         `json:"total_after_discount"`
	Cancelled          bool           `json:"cancelled"`
	Items              []ItemSnapshot `json:"items"`
}

// ItemSnapshot is a line item as it stood when the notification was raised.
type ItemSnapshot struct {
	ID                     uuid.UUID `json:"id"`
	SaleID                 uuid.UUID `json:"sale_id"`
	ProductID              int64     `json:"product_id"`
	Quantity               int       `json:"quantity"`
	UnitPrice              string    `json:"unit_price"`
	DiscountPercentage     string    `json:"discount_percentage"`
	LineTotal              string    `json:"total"`
	LineDiscount           string    `json:"total_discount"`
	LineTotalAfterDiscount string    `json:"total_after_discount"`
	Cancelled              bool      `json:"cancelled"`
}

// SaleCreated is published once a new sale is committed.
type SaleCreated struct {
	Sale       SaleSnapshot `json:"sale"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SaleModified is published once per committed update.
type SaleModified struct {
	Sale       SaleSnapshot `json:"sale"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SaleCancelled is published when a sale moves to cancelled.
type SaleCancelled struct {
	Sale       SaleSnapshot `json:"sale"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SaleItemCancelled is published for each item that moves to cancelled.
type SaleItemCancelled struct {
	Item       ItemSnapshot `json:"item"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// SnapshotSale copies the sale and its attached items.
func SnapshotSale(s *domain.Sale) SaleSnapshot {
	items := make([]ItemSnapshot, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SnapshotItem(item))
	}

	return SaleSnapshot{
		ID:                 s.ID,
		SaleNumber:         s.Number,
		CreatedAt:          s.CreatedAt,
		CustomerID:         s.CustomerID,
		BranchID:           s.BranchID,
		Total:              s.Total().StringFixed(2),
		TotalDiscount:      s.TotalDiscount().StringFixed(2),
		TotalAfterDiscount: s.TotalAfterDiscount().StringFixed(2),
		Cancelled:          s.IsCancelled(),
		Items:              items,
	}
}

// SnapshotItem copies one item.
func SnapshotItem(i *domain.SaleItem) ItemSnapshot {
	return ItemSnapshot{
		ID:                     i.ID,
		SaleID:                 i.SaleID,
		ProductID:              i.ProductID,
		Quantity:               i.Quantity,
		UnitPrice:              i.UnitPrice.StringFixed(2),
		DiscountPercentage:     i.DiscountPercentage().StringFixed(2),
		LineTotal:              i.LineTotal().StringFixed(2),
		LineDiscount:           i.LineDiscount().StringFixed(2),
		LineTotalAfterDiscount: i.LineTotalAfterDiscount().StringFixed(2),
		Cancelled:              i.IsCancelled(),
	}
}
