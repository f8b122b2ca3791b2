package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority is the urgency of a repair order.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is a member of the priority enumeration.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is the processing state of a repair order.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatuses are the states in which an order can no longer be late.
var TerminalStatuses = []Status{StatusCompleted, StatusCancelled}

// RepairOrder represents a single work order.
type RepairOrder struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `json:"description"`
	Location    string     `gorm:"size:255;not null" json:"location"`
	Priority    Priority   `gorm:"size:16;not null;index" json:"priority"`
	Status      Status     `gorm:"size:16;not null;index" json:"status"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns an opaque identifier when none is set.
func (o *RepairOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
