package model

import (
	"gorm.io/gorm"
)

// ClientContact belongs to exactly one client. For any client at most one
// active contact has IsPrimaryContact = true; the repository enforces this
// inside a transaction and a partial unique index backs it at the storage
// layer.
type ClientContact struct {
	gorm.Model
	ClientID               uint   `gorm:"column:client_id;not null;index"`
	FirstName              string `gorm:"column:first_name;not null"`
	LastName               string `gorm:"column:last_name"`
	Email                  string `gorm:"column:email"`
	Phone                  string `gorm:"column:phone"`
	Position               string `gorm:"column:position"`
	Department             string `gorm:"column:department"`
	ContactType            string `gorm:"column:contact_type;default:business"`
	IsPrimaryContact       bool   `gorm:"column:is_primary_contact;default:false;not null"`
	CanMakeDecisions       bool   `gorm:"column:can_make_decisions;default:false"`
	PreferredContactMethod string `gorm:"column:preferred_contact_method;default:email"`
	Timezone               string `gorm:"column:timezone"`
	AvailabilityNotes      string `gorm:"column:availability_notes"`
	IsActive               bool   `gorm:"column:is_active;default:true;not null;index"`
}
