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

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint) (*model.Client, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var client model.Client
	result := r.db.WithContext(ctx).
		Preload("Contacts", "is_active = ?", true).
		First(&client, id)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get client by ID").
				Uint("client_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &client, nil
}

// GetAll returns a page of clients with optional filters applied
func (r *ClientRepository) GetAll(ctx context.Context, limit, offset int, filter dto.ClientFilter) ([]model.Client, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetAll")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var clients []model.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Client{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Industry != "" {
		query = query.Where("industry = ?", filter.Industry)
	}
	if filter.ServiceTier != "" {
		query = query.Where("service_tier = ?", filter.ServiceTier)
	}
	if filter.CompanySize != "" {
		query = query.Where("company_size = ?", filter.CompanySize)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"company_name ILIKE ? OR primary_email ILIKE ? OR city ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count clients").
			Err(err).
			Log()
		return nil, 0, err
	}

	// Contact and interaction counts ride along as correlated subqueries so
	// the list view needs no extra round trips.
	query = query.Select(
		"clients.*, " +
			"(SELECT COUNT(*) FROM client_contacts WHERE client_contacts.client_id = clients.id AND client_contacts.is_active = true AND client_contacts.deleted_at IS NULL) AS contact_count, " +
			"(SELECT COUNT(*) FROM client_interactions WHERE client_interactions.client_id = clients.id AND client_interactions.deleted_at IS NULL) AS interaction_count",
	)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch clients").
			Int("limit", limit).
			Int("offset", offset).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Clients retrieved successfully").
		Int("limit", limit).
		Int("offset", offset).
		Int64("total", total).
		Int("returned_count", len(clients)).
		Duration(time.Since(start)).
		Log()

	return clients, total, nil
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(client)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create client").
			String("company_name", client.CompanyName).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Client created successfully").
		String("company_name", client.CompanyName).
		Uint("client_id", client.ID).
		Duration(duration).
		Log()

	return nil
}

// Update applies a partial update to a client
func (r *ClientRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(fields) == 0 {
		return nil
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Updates(fields)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update client").
			Uint("client_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No client found to update").
			Uint("client_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Client updated successfully").
		Uint("client_id", id).
		Duration(duration).
		Log()

	return nil
}

// Delete soft-deletes a client
func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Delete(&model.Client{}, id)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete client").
			Uint("client_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No client found to delete").
			Uint("client_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Client deleted successfully").
		Uint("client_id", id).
		Log()

	return nil
}

// Exists reports whether a client with the given ID exists
func (r *ClientRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus returns client counts grouped by status, for the stats
// endpoint.
func (r *ClientRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CountByStatus")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count clients by status").
			Err(err).
			Log()
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
