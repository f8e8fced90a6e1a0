package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job statuses
const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// Job is a job posting owned by the user who posted it. Skills, benefits,
// requirements and responsibilities are stored as JSON arrays.
type Job struct {
	gorm.Model
	Title               string         `gorm:"column:title;not null;index"`
	Description         string         `gorm:"column:description;not null"`
	CompanyName         string         `gorm:"column:company_name;not null;index"`
	Location            string         `gorm:"column:location;index"`
	SalaryMin           *float64       `gorm:"column:salary_min"`
	SalaryMax           *float64       `gorm:"column:salary_max"`
	SalaryCurrency      string         `gorm:"column:salary_currency;default:USD"`
	JobType             string         `gorm:"column:job_type;index"`
	ExperienceLevel     string         `gorm:"column:experience_level;index"`
	RemoteOption        string         `gorm:"column:remote_option;index"`
	Skills              datatypes.JSON `gorm:"column:skills"`
	Benefits            datatypes.JSON `gorm:"column:benefits"`
	Requirements        datatypes.JSON `gorm:"column:requirements"`
	Responsibilities    datatypes.JSON `gorm:"column:responsibilities"`
	ContactEmail        string         `gorm:"column:contact_email"`
	ContactPhone        string         `gorm:"column:contact_phone"`
	ApplicationDeadline *time.Time     `gorm:"column:application_deadline"`
	Status              string         `gorm:"column:status;default:active;index"`
	PostedBy            uint           `gorm:"column:posted_by;index"`
}
