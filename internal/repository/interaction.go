package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) GetByID(ctx context.Context, id uint) (*model.ClientInteraction, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var interaction model.ClientInteraction
	result := r.db.WithContext(ctx).First(&interaction, id)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get interaction by ID").
				Uint("interaction_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &interaction, nil
}

// GetByClient returns a page of a client's interactions, newest first
func (r *InteractionRepository) GetByClient(ctx context.Context, clientID uint, limit, offset int, filter dto.InteractionFilter) ([]model.ClientInteraction, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByClient")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var interactions []model.ClientInteraction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ClientInteraction{}).Where("client_id = ?", clientID)

	if filter.InteractionType != "" {
		query = query.Where("interaction_type = ?", filter.InteractionType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		// To is a date; include the whole day.
		query = query.Where("created_at < ?", filter.To.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count interactions").
			Uint("client_id", clientID).
			Err(err).
			Log()
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&interactions).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch interactions").
			Uint("client_id", clientID).
			Err(err).
			Log()
		return nil, 0, err
	}

	return interactions, total, nil
}

// Create creates a new interaction
func (r *InteractionRepository) Create(ctx context.Context, interaction *model.ClientInteraction) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := r.db.WithContext(ctx).Create(interaction).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create interaction").
			Uint("client_id", interaction.ClientID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Interaction created successfully").
		Uint("client_id", interaction.ClientID).
		Uint("interaction_id", interaction.ID).
		String("interaction_type", interaction.InteractionType).
		Log()

	return nil
}

// Update applies a partial update to an interaction
func (r *InteractionRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.ClientInteraction{}).Where("id = ?", id).Updates(fields)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update interaction").
			Uint("interaction_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No interaction found to update").
			Uint("interaction_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete soft-deletes an interaction
func (r *InteractionRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Delete(&model.ClientInteraction{}, id)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete interaction").
			Uint("interaction_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Interaction deleted successfully").
		Uint("interaction_id", id).
		Log()

	return nil
}
