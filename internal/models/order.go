package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order is immutable once created: the chat flow collects every field
// before the confirm step and nothing is edited afterwards.
type Order struct {
	gorm.Model
	OrderID           string  `gorm:"uniqueIndex;not null" json:"order_id"`
	ClientID          string  `gorm:"index;not null" json:"client_id"`
	Platform          string  `json:"platform"`
	Quantity          int     `json:"quantity"`
	TargetLink        string  `json:"target_link"`
	Instructions      string  `json:"instructions"`
	ContentGeneration bool    `json:"content_generation"`
	Price             float64 `json:"price"`
	TrackingID        string  `json:"tracking_id"`
	Status            string  `gorm:"default:'pending'" json:"status"`
}

// Order status constants
const (
	OrderStatusPending     = "pending"
	OrderStatusPaid        = "paid"
	OrderStatusDistributed = "distributed"
	OrderStatusCompleted   = "completed"
	OrderStatusCancelled   = "cancelled"
)

// Platform constants (closed set)
const (
	PlatformGoogleReviews = "google_reviews"
	PlatformTrustpilot    = "trustpilot"
	PlatformOther         = "other"
)

// PlatformLabel returns the display name for a platform value.
func PlatformLabel(platform string) string {
	switch platform {
	case PlatformGoogleReviews:
		return "Google Reviews"
	case PlatformTrustpilot:
		return "Trustpilot"
	default:
		return "Other platforms"
	}
}

// StatusLabel returns the client-facing description for an order status.
func StatusLabel(status string) string {
	switch status {
	case OrderStatusPending:
		return "Awaiting payment"
	case OrderStatusPaid:
		return "Paid - processing"
	case OrderStatusDistributed:
		return "Delivery in progress"
	case OrderStatusCompleted:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// BeforeCreate assigns an order ID if none was provided
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == "" {
		o.OrderID = fmt.Sprintf("OR%d", time.Now().UnixNano())
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}
