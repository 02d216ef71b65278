package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Worker posts the collected reviews and earns a balance per validated task
type Worker struct {
	gorm.Model
	WorkerID string  `gorm:"uniqueIndex;not null" json:"worker_id"`
	Phone    string  `gorm:"uniqueIndex;not null" json:"phone"`
	Username string  `json:"username"`
	Status   string  `gorm:"default:'pending'" json:"status"`
	Balance  float64 `gorm:"default:0" json:"balance"`
}

// Worker status constants
const (
	WorkerStatusPending = "pending"
	WorkerStatusActive  = "active"
	WorkerStatusBlocked = "blocked"
)

// BeforeCreate assigns a worker ID if none was provided
func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.WorkerID == "" {
		w.WorkerID = fmt.Sprintf("WK%d", time.Now().UnixNano())
	}
	if w.Status == "" {
		w.Status = WorkerStatusPending
	}
	return nil
}
