package models

import "gorm.io/gorm"

// Review is one piece of review content attached to an order,
// added by the admin (manually or via bulk import) before distribution.
type Review struct {
	gorm.Model
	OrderID string  `gorm:"index;not null" json:"order_id"`
	Content string  `json:"content"`
	Rating  float64 `gorm:"default:5.0" json:"rating"`
}
