package model

import (
	"time"

	"gorm.io/gorm"
)

// Interaction types
const (
	InteractionTypeCall    = "call"
	InteractionTypeEmail   = "email"
	InteractionTypeMeeting = "meeting"
	InteractionTypeNote    = "note"
)

// Interaction statuses
const (
	InteractionStatusScheduled = "scheduled"
	InteractionStatusCompleted = "completed"
	InteractionStatusCancelled = "cancelled"
)

// ClientInteraction records a touchpoint with a client, optionally tied to
// a specific contact.
type ClientInteraction struct {
	gorm.Model
	ClientID        uint       `gorm:"column:client_id;not null;index"`
	ContactID       *uint      `gorm:"column:contact_id;index"`
	InteractionType string     `gorm:"column:interaction_type;not null;index"`
	Subject         string     `gorm:"column:subject;not null"`
	Description     string     `gorm:"column:description"`
	Outcome         string     `gorm:"column:outcome"`
	ScheduledDate   *time.Time `gorm:"column:scheduled_date;index"`
	CompletedDate   *time.Time `gorm:"column:completed_date"`
	Status          string     `gorm:"column:status;default:scheduled;index"`
	CreatedBy       uint       `gorm:"column:created_by"`
}
