package service

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// JobStore is the persistence surface the job service needs
type JobStore interface {
	GetByID(ctx context.Context, id uint) (*model.Job, error)
	GetAll(ctx context.Context, limit, offset int, filter dto.JobFilter) ([]model.Job, int64, error)
	GetByPoster(ctx context.Context, posterID uint, limit, offset int) ([]model.Job, int64, error)
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

// JobService implements job posting CRUD with ownership checks: a posting
// can only be changed by the user who posted it or by an admin.
type JobService struct {
	jobs JobStore
}

func NewJobService(jobs JobStore) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) Get(ctx context.Context, id uint) (*model.Job, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Get")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return job, nil
}

func (s *JobService) List(ctx context.Context, limit, offset int, filter dto.JobFilter) ([]model.Job, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	jobs, total, err := s.jobs.GetAll(ctx, limit, offset, filter)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return jobs, total, nil
}

// ListMine returns the caller's own postings, drafts included
func (s *JobService) ListMine(ctx context.Context, posterID uint, limit, offset int) ([]model.Job, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListMine")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	jobs, total, err := s.jobs.GetByPoster(ctx, posterID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return jobs, total, nil
}

func (s *JobService) Create(ctx context.Context, req dto.CreateJobRequest, postedBy uint) (*model.Job, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, apperrors.ErrInvalidInput
	}

	job := &model.Job{
		Title:               req.Title,
		Description:         req.Description,
		CompanyName:         req.CompanyName,
		Location:            req.Location,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		SalaryCurrency:      req.SalaryCurrency,
		JobType:             req.JobType,
		ExperienceLevel:     req.ExperienceLevel,
		RemoteOption:        req.RemoteOption,
		Skills:              toJSONList(req.Skills),
		Benefits:            toJSONList(req.Benefits),
		Requirements:        toJSONList(req.Requirements),
		Responsibilities:    toJSONList(req.Responsibilities),
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              req.Status,
		PostedBy:            postedBy,
	}

	if job.SalaryCurrency == "" {
		job.SalaryCurrency = "USD"
	}
	if job.Status == "" {
		job.Status = model.JobStatusActive
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return job, nil
}

func (s *JobService) Update(ctx context.Context, id uint, req dto.UpdateJobRequest, actorID uint, actorRole Role) (*model.Job, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(ctx, job, actorID, actorRole); err != nil {
		return nil, err
	}

	fields := jobUpdateFields(req)
	if len(fields) > 0 {
		if err := s.jobs.Update(ctx, id, fields); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	return s.Get(ctx, id)
}

func (s *JobService) Delete(ctx context.Context, id uint, actorID uint, actorRole Role) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnership(ctx, job, actorID, actorRole); err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

func (s *JobService) requireOwnership(ctx context.Context, job *model.Job, actorID uint, actorRole Role) error {
	if job.PostedBy == actorID || actorRole.CanManageUsers() {
		return nil
	}

	logger.WarnWithContext(ctx, "Job modification denied, caller is not the poster").
		Uint("job_id", job.ID).
		Uint("actor_id", actorID).
		Log()

	return apperrors.ErrForbidden
}

func jobUpdateFields(req dto.UpdateJobRequest) map[string]interface{} {
	fields := make(map[string]interface{})

	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CompanyName != nil {
		fields["company_name"] = *req.CompanyName
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.SalaryMin != nil {
		fields["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		fields["salary_max"] = *req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		fields["salary_currency"] = *req.SalaryCurrency
	}
	if req.JobType != nil {
		fields["job_type"] = *req.JobType
	}
	if req.ExperienceLevel != nil {
		fields["experience_level"] = *req.ExperienceLevel
	}
	if req.RemoteOption != nil {
		fields["remote_option"] = *req.RemoteOption
	}
	if req.Skills != nil {
		fields["skills"] = toJSONList(req.Skills)
	}
	if req.Benefits != nil {
		fields["benefits"] = toJSONList(req.Benefits)
	}
	if req.Requirements != nil {
		fields["requirements"] = toJSONList(req.Requirements)
	}
	if req.Responsibilities != nil {
		fields["responsibilities"] = toJSONList(req.Responsibilities)
	}
	if req.ContactEmail != nil {
		fields["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		fields["contact_phone"] = *req.ContactPhone
	}
	if req.ApplicationDeadline != nil {
		fields["application_deadline"] = *req.ApplicationDeadline
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	return fields
}

func toJSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}
