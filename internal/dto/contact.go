package dto

// CreateContactRequest is the payload for adding a contact to a client
type CreateContactRequest struct {
	FirstName              string `json:"firstName" binding:"required,notblank"`
	LastName               string `json:"lastName"`
	Email                  string `json:"email" binding:"omitempty,email"`
	Phone                  string `json:"phone"`
	Position               string `json:"position"`
	Department             string `json:"department"`
	ContactType            string `json:"contactType" binding:"omitempty,oneof=business technical billing executive"`
	IsPrimaryContact       bool   `json:"isPrimaryContact"`
	CanMakeDecisions       bool   `json:"canMakeDecisions"`
	PreferredContactMethod string `json:"preferredContactMethod" binding:"omitempty,oneof=email phone sms"`
	Timezone               string `json:"timezone"`
	AvailabilityNotes      string `json:"availabilityNotes"`
}

// UpdateContactRequest is the payload for partial contact updates
type UpdateContactRequest struct {
	FirstName              *string `json:"firstName"`
	LastName               *string `json:"lastName"`
	Email                  *string `json:"email" binding:"omitempty,email"`
	Phone                  *string `json:"phone"`
	Position               *string `json:"position"`
	Department             *string `json:"department"`
	ContactType            *string `json:"contactType" binding:"omitempty,oneof=business technical billing executive"`
	CanMakeDecisions       *bool   `json:"canMakeDecisions"`
	PreferredContactMethod *string `json:"preferredContactMethod" binding:"omitempty,oneof=email phone sms"`
	Timezone               *string `json:"timezone"`
	AvailabilityNotes      *string `json:"availabilityNotes"`
	IsActive               *bool   `json:"isActive"`
}
