package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
)

type fakeDocumentStore struct {
	docs map[string]*model.ClientDocument // keyed by external document ID
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[string]*model.ClientDocument)}
}

func (f *fakeDocumentStore) Upsert(ctx context.Context, doc *model.ClientDocument) error {
	copied := *doc
	f.docs[doc.DocumentID] = &copied
	return nil
}

func (f *fakeDocumentStore) GetByClient(ctx context.Context, clientID uint) ([]model.ClientDocument, error) {
	var out []model.ClientDocument
	for _, doc := range f.docs {
		if doc.ClientID == clientID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func newTestDocumentService() (*DocumentService, *fakeDocumentStore) {
	docs := newFakeDocumentStore()
	clients := &fakeClientStore{ids: map[uint]bool{1: true}}
	return NewDocumentService(docs, clients), docs
}

func TestRecordProcessed(t *testing.T) {
	svc, store := newTestDocumentService()

	event := ProcessedDocument{
		ClientID:     1,
		DocumentID:   "doc-abc",
		DocumentType: "contract",
		Filename:     "msa.pdf",
		StorageURL:   "s3://docs/msa.pdf",
	}
	if err := svc.RecordProcessed(context.Background(), event); err != nil {
		t.Fatalf("RecordProcessed returned error: %v", err)
	}

	stored, ok := store.docs["doc-abc"]
	if !ok {
		t.Fatal("document was not persisted")
	}
	if stored.ClientID != 1 || stored.Filename != "msa.pdf" {
		t.Errorf("stored document = %+v", stored)
	}

	// Re-delivery of the same event overwrites instead of duplicating.
	event.StorageURL = "s3://docs/msa-v2.pdf"
	if err := svc.RecordProcessed(context.Background(), event); err != nil {
		t.Fatalf("RecordProcessed redelivery returned error: %v", err)
	}
	if len(store.docs) != 1 {
		t.Errorf("document count = %d, want 1", len(store.docs))
	}
	if store.docs["doc-abc"].StorageURL != "s3://docs/msa-v2.pdf" {
		t.Error("redelivered event did not update the stored document")
	}
}

func TestRecordProcessedRejectsIncompleteEvents(t *testing.T) {
	svc, _ := newTestDocumentService()

	tests := []struct {
		name  string
		event ProcessedDocument
	}{
		{"missing document id", ProcessedDocument{ClientID: 1}},
		{"missing client id", ProcessedDocument{DocumentID: "doc-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.RecordProcessed(context.Background(), tt.event); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("RecordProcessed = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRecordProcessedUnknownClient(t *testing.T) {
	svc, _ := newTestDocumentService()

	err := svc.RecordProcessed(context.Background(), ProcessedDocument{ClientID: 42, DocumentID: "doc-1"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("RecordProcessed for unknown client = %v, want ErrNotFound", err)
	}
}

func TestListByClientUnknownClient(t *testing.T) {
	svc, _ := newTestDocumentService()

	if _, err := svc.ListByClient(context.Background(), 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ListByClient for unknown client = %v, want ErrNotFound", err)
	}
}
