package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetByID(ctx context.Context, id uint) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var contact model.ClientContact
	result := r.db.WithContext(ctx).First(&contact, id)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get contact by ID").
				Uint("contact_id", id).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	return &contact, nil
}

// GetByClient returns all contacts of a client, primary first
func (r *ContactRepository) GetByClient(ctx context.Context, clientID uint, activeOnly bool) ([]model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByClient")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var contacts []model.ClientContact

	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	err := query.Order("is_primary_contact DESC, first_name ASC").Find(&contacts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch contacts for client").
			Uint("client_id", clientID).
			Err(err).
			Log()
		return nil, err
	}

	return contacts, nil
}

// GetPrimary returns the active primary contact of a client
func (r *ContactRepository) GetPrimary(ctx context.Context, clientID uint) (*model.ClientContact, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetPrimary")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var contact model.ClientContact
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND is_primary_contact = ? AND is_active = ?", clientID, true, true).
		First(&contact).Error

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get primary contact").
				Uint("client_id", clientID).
				Err(err).
				Log()
		}
		return nil, err
	}

	return &contact, nil
}

// Create creates a new contact. When the contact is flagged primary the
// insert goes through the same demote-then-promote transaction as
// SetPrimary so the single-primary rule holds.
func (r *ContactRepository) Create(ctx context.Context, contact *model.ClientContact) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()

	var err error
	if contact.IsPrimaryContact {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			demote := tx.Model(&model.ClientContact{}).
				Where("client_id = ? AND is_primary_contact = ?", contact.ClientID, true).
				Update("is_primary_contact", false)
			if demote.Error != nil {
				return demote.Error
			}
			return tx.Create(contact).Error
		})
	} else {
		err = r.db.WithContext(ctx).Create(contact).Error
	}

	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create contact").
			Uint("client_id", contact.ClientID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Contact created successfully").
		Uint("client_id", contact.ClientID).
		Uint("contact_id", contact.ID).
		Bool("is_primary", contact.IsPrimaryContact).
		Duration(duration).
		Log()

	return nil
}

// Update applies a partial update to a contact. IsPrimaryContact cannot be
// changed here; use SetPrimary.
func (r *ContactRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.ClientContact{}).Where("id = ?", id).Updates(fields)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update contact").
			Uint("contact_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No contact found to update").
			Uint("contact_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetPrimary promotes a contact to primary for its client. The demotion of
// every other contact and the promotion of the target run in one
// transaction; either both land or neither does. The promotion is scoped by
// both contact ID and client ID so a contact belonging to another client can
// never be promoted. Re-promoting the current primary is a no-op that still
// succeeds.
func (r *ContactRepository) SetPrimary(ctx context.Context, clientID, contactID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SetPrimary")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The target must exist, belong to this client and be active before
		// anything is demoted.
		var target model.ClientContact
		if err := tx.Where("id = ? AND client_id = ? AND is_active = ?", contactID, clientID, true).
			First(&target).Error; err != nil {
			return err
		}

		demote := tx.Model(&model.ClientContact{}).
			Where("client_id = ? AND id <> ? AND is_primary_contact = ?", clientID, contactID, true).
			Update("is_primary_contact", false)
		if demote.Error != nil {
			return demote.Error
		}

		promote := tx.Model(&model.ClientContact{}).
			Where("id = ? AND client_id = ?", contactID, clientID).
			Update("is_primary_contact", true)
		return promote.Error
	})

	duration := time.Since(start)

	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to set primary contact").
				Uint("client_id", clientID).
				Uint("contact_id", contactID).
				Duration(duration).
				Err(err).
				Log()
		}
		return err
	}

	logger.InfoWithContext(ctx, "Primary contact updated").
		Uint("client_id", clientID).
		Uint("contact_id", contactID).
		Duration(duration).
		Log()

	return nil
}

// Deactivate marks a contact inactive instead of deleting the row. A primary
// contact loses its primary flag at the same time so the client is left with
// no primary rather than an inactive one.
func (r *ContactRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Deactivate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Model(&model.ClientContact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":          false,
			"is_primary_contact": false,
		})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate contact").
			Uint("contact_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No contact found to deactivate").
			Uint("contact_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Contact deactivated").
		Uint("contact_id", id).
		Log()

	return nil
}
