package consumer

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/dto"
	"github.com/clientbridge/crm/internal/model"
	"github.com/clientbridge/crm/internal/service"
	"gorm.io/gorm"
)

// fakeAcknowledger records the ack/nack outcome of a single delivery
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

type memDocumentStore struct {
	docs map[string]model.ClientDocument
}

func (m *memDocumentStore) Upsert(ctx context.Context, doc *model.ClientDocument) error {
	m.docs[doc.DocumentID] = *doc
	return nil
}

func (m *memDocumentStore) GetByClient(ctx context.Context, clientID uint) ([]model.ClientDocument, error) {
	return nil, nil
}

type memClientStore struct {
	ids map[uint]bool
}

func (m *memClientStore) GetByID(ctx context.Context, id uint) (*model.Client, error) {
	if m.ids[id] {
		return &model.Client{}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memClientStore) GetAll(ctx context.Context, limit, offset int, filter dto.ClientFilter) ([]model.Client, int64, error) {
	return nil, 0, nil
}

func (m *memClientStore) Create(ctx context.Context, client *model.Client) error { return nil }

func (m *memClientStore) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return nil
}

func (m *memClientStore) Delete(ctx context.Context, id uint) error { return nil }

func (m *memClientStore) Exists(ctx context.Context, id uint) (bool, error) {
	return m.ids[id], nil
}

func (m *memClientStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func newTestConsumer() (*DocumentConsumer, *memDocumentStore) {
	store := &memDocumentStore{docs: make(map[string]model.ClientDocument)}
	documents := service.NewDocumentService(store, &memClientStore{ids: map[uint]bool{1: true}})
	return NewDocumentConsumer(&config.Config{}, documents), store
}

func TestHandleDocumentEvents(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAck     bool
		wantRequeue bool
		wantStored  int
	}{
		{
			name:       "valid event acked and stored",
			body:       `{"type":"client-doc","data":{"document_id":"doc-1","document_type":"contract","client_id":1,"s3_url":"s3://docs/a.pdf","filename":"a.pdf"}}`,
			wantAck:    true,
			wantStored: 1,
		},
		{
			name: "malformed json dead-lettered",
			body: `{"type":`,
		},
		{
			name: "unknown message type dead-lettered",
			body: `{"type":"invoice","data":{}}`,
		},
		{
			name: "unknown client dead-lettered",
			body: `{"type":"client-doc","data":{"document_id":"doc-2","client_id":99}}`,
		},
		{
			name: "missing document id dead-lettered",
			body: `{"type":"client-doc","data":{"client_id":1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer, store := newTestConsumer()
			ack := &fakeAcknowledger{}

			consumer.handle(context.Background(), amqp.Delivery{
				Acknowledger: ack,
				Body:         []byte(tt.body),
				RoutingKey:   "client-doc.processed",
			})

			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && !ack.nacked {
				t.Error("rejected delivery was not nacked")
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
			if len(store.docs) != tt.wantStored {
				t.Errorf("stored documents = %d, want %d", len(store.docs), tt.wantStored)
			}
		})
	}
}
