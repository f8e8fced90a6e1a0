package model

import (
	"time"

	"gorm.io/gorm"
)

// Client statuses
const (
	ClientStatusProspect = "prospect"
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
	ClientStatusChurned  = "churned"
)

// Service tiers
const (
	ServiceTierBasic      = "basic"
	ServiceTierStandard   = "standard"
	ServiceTierPremium    = "premium"
	ServiceTierEnterprise = "enterprise"
)

// Client is a company entity managed by the CRM. It owns zero or one
// primary contact at any instant.
type Client struct {
	gorm.Model
	CompanyName       string     `gorm:"column:company_name;not null;index"`
	Industry          string     `gorm:"column:industry;index"`
	CompanySize       string     `gorm:"column:company_size"`
	Website           string     `gorm:"column:website"`
	FoundedYear       *int       `gorm:"column:founded_year"`
	Description       string     `gorm:"column:description"`
	PrimaryEmail      string     `gorm:"column:primary_email"`
	PrimaryPhone      string     `gorm:"column:primary_phone"`
	Address           string     `gorm:"column:address"`
	City              string     `gorm:"column:city"`
	State             string     `gorm:"column:state"`
	Country           string     `gorm:"column:country"`
	PostalCode        string     `gorm:"column:postal_code"`
	AnnualRevenue     *float64   `gorm:"column:annual_revenue"`
	EmployeeCount     *int       `gorm:"column:employee_count"`
	BusinessType      string     `gorm:"column:business_type"`
	ServiceTier       string     `gorm:"column:service_tier;default:basic;index"`
	ContractStartDate *time.Time `gorm:"column:contract_start_date"`
	ContractEndDate   *time.Time `gorm:"column:contract_end_date"`
	PaymentTerms      string     `gorm:"column:payment_terms"`
	Status            string     `gorm:"column:status;default:prospect;index"`
	PriorityLevel     string     `gorm:"column:priority_level;default:medium"`
	Notes             string     `gorm:"column:notes"`
	CreatedBy         uint       `gorm:"column:created_by"`

	Contacts     []ClientContact     `gorm:"foreignKey:ClientID"`
	Interactions []ClientInteraction `gorm:"foreignKey:ClientID"`

	// Read-only aggregates filled by list queries, not stored columns.
	ContactCount     int64 `gorm:"->;-:migration" json:"contactCount"`
	InteractionCount int64 `gorm:"->;-:migration" json:"interactionCount"`
}
