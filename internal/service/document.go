package service

import (
	"context"

	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// DocumentStore is the persistence surface the document service needs
type DocumentStore interface {
	Upsert(ctx context.Context, doc *model.ClientDocument) error
	GetByClient(ctx context.Context, clientID uint) ([]model.ClientDocument, error)
}

// DocumentService records processed-document events from the queue and
// serves their metadata to the API.
type DocumentService struct {
	documents DocumentStore
	clients   ClientStore
}

func NewDocumentService(documents DocumentStore, clients ClientStore) *DocumentService {
	return &DocumentService{documents: documents, clients: clients}
}

// ProcessedDocument is the payload the document pipeline publishes when it
// finishes handling an upload.
type ProcessedDocument struct {
	ClientID     uint
	DocumentID   string
	DocumentType string
	Filename     string
	StorageURL   string
}

// RecordProcessed persists a processed-document event. Events for unknown
// clients are rejected so the consumer can dead-letter them instead of
// retrying forever.
func (s *DocumentService) RecordProcessed(ctx context.Context, event ProcessedDocument) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RecordProcessed")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if event.DocumentID == "" || event.ClientID == 0 {
		return apperrors.ErrInvalidInput
	}

	exists, err := s.clients.Exists(ctx, event.ClientID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !exists {
		logger.WarnWithContext(ctx, "Document event references unknown client").
			Uint("client_id", event.ClientID).
			String("document_id", event.DocumentID).
			Log()
		return apperrors.ErrNotFound
	}

	doc := &model.ClientDocument{
		ClientID:     event.ClientID,
		DocumentID:   event.DocumentID,
		DocumentType: event.DocumentType,
		Filename:     event.Filename,
		StorageURL:   event.StorageURL,
	}

	if err := s.documents.Upsert(ctx, doc); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// ListByClient returns a client's document metadata
func (s *DocumentService) ListByClient(ctx context.Context, clientID uint) ([]model.ClientDocument, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListByClient")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	docs, err := s.documents.GetByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return docs, nil
}
