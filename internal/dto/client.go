package dto

import "time"

// CreateClientRequest is the payload for creating a client company
type CreateClientRequest struct {
	CompanyName       string     `json:"companyName" binding:"required,notblank"`
	Industry          string     `json:"industry"`
	CompanySize       string     `json:"companySize" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Website           string     `json:"website" binding:"omitempty,url"`
	FoundedYear       *int       `json:"foundedYear" binding:"omitempty,min=1800,max=2100"`
	Description       string     `json:"description"`
	PrimaryEmail      string     `json:"primaryEmail" binding:"omitempty,email"`
	PrimaryPhone      string     `json:"primaryPhone"`
	Address           string     `json:"address"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Country           string     `json:"country"`
	PostalCode        string     `json:"postalCode"`
	AnnualRevenue     *float64   `json:"annualRevenue" binding:"omitempty,min=0"`
	EmployeeCount     *int       `json:"employeeCount" binding:"omitempty,min=0"`
	BusinessType      string     `json:"businessType"`
	ServiceTier       string     `json:"serviceTier" binding:"omitempty,oneof=basic standard premium enterprise"`
	ContractStartDate *time.Time `json:"contractStartDate"`
	ContractEndDate   *time.Time `json:"contractEndDate"`
	PaymentTerms      string     `json:"paymentTerms"`
	Status            string     `json:"status" binding:"omitempty,oneof=prospect active inactive churned"`
	PriorityLevel     string     `json:"priorityLevel" binding:"omitempty,oneof=low medium high critical"`
	Notes             string     `json:"notes"`
}

// UpdateClientRequest is the payload for partial client updates. Nil fields
// are left untouched.
type UpdateClientRequest struct {
	CompanyName       *string    `json:"companyName"`
	Industry          *string    `json:"industry"`
	CompanySize       *string    `json:"companySize" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Website           *string    `json:"website" binding:"omitempty,url"`
	FoundedYear       *int       `json:"foundedYear" binding:"omitempty,min=1800,max=2100"`
	Description       *string    `json:"description"`
	PrimaryEmail      *string    `json:"primaryEmail" binding:"omitempty,email"`
	PrimaryPhone      *string    `json:"primaryPhone"`
	Address           *string    `json:"address"`
	City              *string    `json:"city"`
	State             *string    `json:"state"`
	Country           *string    `json:"country"`
	PostalCode        *string    `json:"postalCode"`
	AnnualRevenue     *float64   `json:"annualRevenue" binding:"omitempty,min=0"`
	EmployeeCount     *int       `json:"employeeCount" binding:"omitempty,min=0"`
	BusinessType      *string    `json:"businessType"`
	ServiceTier       *string    `json:"serviceTier" binding:"omitempty,oneof=basic standard premium enterprise"`
	ContractStartDate *time.Time `json:"contractStartDate"`
	ContractEndDate   *time.Time `json:"contractEndDate"`
	PaymentTerms      *string    `json:"paymentTerms"`
	Status            *string    `json:"status" binding:"omitempty,oneof=prospect active inactive churned"`
	PriorityLevel     *string    `json:"priorityLevel" binding:"omitempty,oneof=low medium high critical"`
	Notes             *string    `json:"notes"`
}

// ClientFilter carries the list endpoint's filters
type ClientFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=prospect active inactive churned"`
	Industry    string `form:"industry"`
	ServiceTier string `form:"serviceTier" binding:"omitempty,oneof=basic standard premium enterprise"`
	CompanySize string `form:"companySize" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Search      string `form:"search"`
}
