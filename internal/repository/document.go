package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert records document metadata delivered by the processing queue. The
// queue redelivers on failure, so the same document ID may arrive more than
// once; the second write updates the existing row instead of erroring.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *model.ClientDocument) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Upsert")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var existing model.ClientDocument
	result := r.db.WithContext(ctx).Where("document_id = ?", doc.DocumentID).First(&existing)

	if result.Error == nil {
		err := r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"client_id":     doc.ClientID,
			"document_type": doc.DocumentType,
			"filename":      doc.Filename,
			"storage_url":   doc.StorageURL,
		}).Error
		if err != nil {
			logger.ErrorWithContext(ctx, "Failed to update document metadata").
				String("document_id", doc.DocumentID).
				Err(err).
				Log()
			return err
		}
		doc.ID = existing.ID
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create document metadata").
			String("document_id", doc.DocumentID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Document metadata recorded").
		String("document_id", doc.DocumentID).
		Uint("client_id", doc.ClientID).
		Log()

	return nil
}

// GetByClient returns all document records for a client
func (r *DocumentRepository) GetByClient(ctx context.Context, clientID uint) ([]model.ClientDocument, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByClient")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var docs []model.ClientDocument
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch documents for client").
			Uint("client_id", clientID).
			Err(err).
			Log()
		return nil, err
	}

	return docs, nil
}
