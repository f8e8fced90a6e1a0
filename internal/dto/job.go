package dto

import "time"

// CreateJobRequest is the payload for posting a job
type CreateJobRequest struct {
	Title               string     `json:"title" binding:"required,notblank"`
	Description         string     `json:"description" binding:"required"`
	CompanyName         string     `json:"companyName" binding:"required"`
	Location            string     `json:"location"`
	SalaryMin           *float64   `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax           *float64   `json:"salaryMax" binding:"omitempty,min=0"`
	SalaryCurrency      string     `json:"salaryCurrency"`
	JobType             string     `json:"jobType" binding:"omitempty,oneof=full-time part-time contract internship temporary"`
	ExperienceLevel     string     `json:"experienceLevel" binding:"omitempty,oneof=entry mid senior lead executive"`
	RemoteOption        string     `json:"remoteOption" binding:"omitempty,oneof=on-site hybrid remote"`
	Skills              []string   `json:"skills"`
	Benefits            []string   `json:"benefits"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	ContactEmail        string     `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone        string     `json:"contactPhone"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	Status              string     `json:"status" binding:"omitempty,oneof=active closed draft"`
}

// UpdateJobRequest is the payload for partial job updates
type UpdateJobRequest struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	CompanyName         *string    `json:"companyName"`
	Location            *string    `json:"location"`
	SalaryMin           *float64   `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax           *float64   `json:"salaryMax" binding:"omitempty,min=0"`
	SalaryCurrency      *string    `json:"salaryCurrency"`
	JobType             *string    `json:"jobType" binding:"omitempty,oneof=full-time part-time contract internship temporary"`
	ExperienceLevel     *string    `json:"experienceLevel" binding:"omitempty,oneof=entry mid senior lead executive"`
	RemoteOption        *string    `json:"remoteOption" binding:"omitempty,oneof=on-site hybrid remote"`
	Skills              []string   `json:"skills"`
	Benefits            []string   `json:"benefits"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	ContactEmail        *string    `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone        *string    `json:"contactPhone"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	Status              *string    `json:"status" binding:"omitempty,oneof=active closed draft"`
}

// JobFilter carries the list endpoint's filters
type JobFilter struct {
	Search          string `form:"search"`
	Location        string `form:"location"`
	JobType         string `form:"jobType" binding:"omitempty,oneof=full-time part-time contract internship temporary"`
	ExperienceLevel string `form:"experienceLevel" binding:"omitempty,oneof=entry mid senior lead executive"`
	RemoteOption    string `form:"remoteOption" binding:"omitempty,oneof=on-site hybrid remote"`
	Status          string `form:"status" binding:"omitempty,oneof=active closed draft"`
}
