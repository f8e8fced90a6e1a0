package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) GetByID(ctx context.Context, id uint) (*model.Job, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var job model.Job
	result := r.db.WithContext(ctx).First(&job, id)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get job by ID").
				Uint("job_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &job, nil
}

// GetAll returns a page of jobs with filters applied. Listing is public, so
// drafts are only visible when explicitly filtered by their owner.
func (r *JobRepository) GetAll(ctx context.Context, limit, offset int, filter dto.JobFilter) ([]model.Job, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetAll")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var jobs []model.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status = ?", model.JobStatusActive)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.RemoteOption != "" {
		query = query.Where("remote_option = ?", filter.RemoteOption)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count jobs").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch jobs").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Jobs retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(jobs)).
		Duration(time.Since(start)).
		Log()

	return jobs, total, nil
}

// GetByPoster returns a page of jobs posted by a specific user, drafts
// included
func (r *JobRepository) GetByPoster(ctx context.Context, posterID uint, limit, offset int) ([]model.Job, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByPoster")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var jobs []model.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Job{}).Where("posted_by = ?", posterID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch jobs by poster").
			Uint("poster_id", posterID).
			Err(err).
			Log()
		return nil, 0, err
	}

	return jobs, total, nil
}

// Create creates a new job posting
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(job)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create job").
			String("title", job.Title).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Job created successfully").
		String("title", job.Title).
		Uint("job_id", job.ID).
		Duration(duration).
		Log()

	return nil
}

// Update applies a partial update to a job
func (r *JobRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.Job{}).Where("id = ?", id).Updates(fields)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update job").
			Uint("job_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No job found to update").
			Uint("job_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete soft-deletes a job
func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Delete(&model.Job{}, id)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete job").
			Uint("job_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Job deleted successfully").
		Uint("job_id", id).
		Log()

	return nil
}
