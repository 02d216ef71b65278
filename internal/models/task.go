package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultTaskReward is credited to a worker for each validated task.
const DefaultTaskReward = 1.0

// Task is one unit of distribution work: a single review to be posted
// on the order's target link.
type Task struct {
	gorm.Model
	TaskID          string  `gorm:"uniqueIndex;not null" json:"task_id"`
	OrderID         string  `gorm:"index;not null" json:"order_id"`
	ReviewID        uint    `json:"review_id"`
	WorkerID        string  `gorm:"index" json:"worker_id"`
	Reward          float64 `json:"reward"`
	Status          string  `gorm:"default:'available'" json:"status"`
	ProofScreenshot string  `json:"proof_screenshot,omitempty"`
}

// Task status constants
const (
	TaskStatusAvailable = "available"
	TaskStatusSubmitted = "submitted"
	TaskStatusValidated = "validated"
)

// BeforeCreate assigns a task ID if none was provided
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.TaskID == "" {
		t.TaskID = fmt.Sprintf("TA%d", time.Now().UnixNano())
	}
	if t.Status == "" {
		t.Status = TaskStatusAvailable
	}
	if t.Reward == 0 {
		t.Reward = DefaultTaskReward
	}
	return nil
}
