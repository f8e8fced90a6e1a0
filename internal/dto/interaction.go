package dto

import "time"

// CreateInteractionRequest is the payload for recording a client interaction
type CreateInteractionRequest struct {
	ContactID       *uint      `json:"contactId"`
	InteractionType string     `json:"interactionType" binding:"required,oneof=call email meeting note"`
	Subject         string     `json:"subject" binding:"required,notblank"`
	Description     string     `json:"description"`
	Outcome         string     `json:"outcome"`
	ScheduledDate   *time.Time `json:"scheduledDate"`
	Status          string     `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

// UpdateInteractionRequest is the payload for partial interaction updates
type UpdateInteractionRequest struct {
	ContactID       *uint      `json:"contactId"`
	InteractionType *string    `json:"interactionType" binding:"omitempty,oneof=call email meeting note"`
	Subject         *string    `json:"subject"`
	Description     *string    `json:"description"`
	Outcome         *string    `json:"outcome"`
	ScheduledDate   *time.Time `json:"scheduledDate"`
	CompletedDate   *time.Time `json:"completedDate"`
	Status          *string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

// InteractionFilter carries the list endpoint's filters. From/To bound the
// interaction's creation date, inclusive.
type InteractionFilter struct {
	InteractionType string    `form:"interactionType" binding:"omitempty,oneof=call email meeting note"`
	Status          string    `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	From            time.Time `form:"from" time_format:"2006-01-02"`
	To              time.Time `form:"to" time_format:"2006-01-02"`
}
