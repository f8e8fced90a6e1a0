package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
)

// fakeContactStore mirrors the demote-then-promote behavior of the real
// repository in memory. The mutex plays the role of the database
// transaction: each operation is atomic, as row locking makes it in Postgres.
type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[uint]*model.ClientContact
	nextID   uint
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: make(map[uint]*model.ClientContact), nextID: 1}
}

func (f *fakeContactStore) GetByID(ctx context.Context, id uint) (*model.ClientContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contacts[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContactStore) GetByClient(ctx context.Context, clientID uint, activeOnly bool) ([]model.ClientContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ClientContact
	for _, c := range f.contacts {
		if c.ClientID != clientID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContactStore) GetPrimary(ctx context.Context, clientID uint) (*model.ClientContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.ClientID == clientID && c.IsPrimaryContact && c.IsActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContactStore) Create(ctx context.Context, contact *model.ClientContact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if contact.IsPrimaryContact {
		for _, c := range f.contacts {
			if c.ClientID == contact.ClientID {
				c.IsPrimaryContact = false
			}
		}
	}
	contact.ID = f.nextID
	f.nextID++
	copied := *contact
	f.contacts[contact.ID] = &copied
	return nil
}

func (f *fakeContactStore) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["first_name"].(string); ok {
		c.FirstName = v
	}
	if v, ok := fields["is_active"].(bool); ok {
		c.IsActive = v
	}
	if v, ok := fields["is_primary_contact"].(bool); ok {
		c.IsPrimaryContact = v
	}
	return nil
}

func (f *fakeContactStore) SetPrimary(ctx context.Context, clientID, contactID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.contacts[contactID]
	if !ok || target.ClientID != clientID || !target.IsActive {
		return gorm.ErrRecordNotFound
	}
	for _, c := range f.contacts {
		if c.ClientID == clientID {
			c.IsPrimaryContact = c.ID == contactID
		}
	}
	return nil
}

func (f *fakeContactStore) Deactivate(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = false
	c.IsPrimaryContact = false
	return nil
}

// fakeClientStore only tracks existence for these tests
type fakeClientStore struct {
	ids map[uint]bool
}

func (f *fakeClientStore) GetByID(ctx context.Context, id uint) (*model.Client, error) {
	if f.ids[id] {
		client := &model.Client{}
		client.ID = id
		return client, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClientStore) GetAll(ctx context.Context, limit, offset int, filter dto.ClientFilter) ([]model.Client, int64, error) {
	return nil, 0, nil
}

func (f *fakeClientStore) Create(ctx context.Context, client *model.Client) error { return nil }

func (f *fakeClientStore) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	return nil
}

func (f *fakeClientStore) Delete(ctx context.Context, id uint) error { return nil }

func (f *fakeClientStore) Exists(ctx context.Context, id uint) (bool, error) {
	return f.ids[id], nil
}

func (f *fakeClientStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func newTestContactService() (*ContactService, *fakeContactStore) {
	contacts := newFakeContactStore()
	clients := &fakeClientStore{ids: map[uint]bool{1: true, 2: true}}
	return NewContactService(contacts, clients), contacts
}

func (f *fakeContactStore) primaries(clientID uint) []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint
	for _, c := range f.contacts {
		if c.ClientID == clientID && c.IsPrimaryContact && c.IsActive {
			out = append(out, c.ID)
		}
	}
	return out
}

func TestSetPrimaryDemotesOthers(t *testing.T) {
	svc, store := newTestContactService()
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "First", IsPrimaryContact: true})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "Second"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SetPrimary(ctx, 1, second.ID); err != nil {
		t.Fatalf("SetPrimary returned error: %v", err)
	}

	primaries := store.primaries(1)
	if len(primaries) != 1 || primaries[0] != second.ID {
		t.Errorf("primaries = %v, want [%d]", primaries, second.ID)
	}
	if store.contacts[first.ID].IsPrimaryContact {
		t.Error("previous primary was not demoted")
	}
}

func TestSetPrimaryIdempotent(t *testing.T) {
	svc, store := newTestContactService()
	ctx := context.Background()

	contact, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "Only", IsPrimaryContact: true})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.SetPrimary(ctx, 1, contact.ID); err != nil {
			t.Fatalf("SetPrimary attempt %d returned error: %v", i, err)
		}
	}

	if got := store.primaries(1); len(got) != 1 {
		t.Errorf("primaries = %v, want exactly one", got)
	}
}

func TestSetPrimaryConcurrent(t *testing.T) {
	svc, store := newTestContactService()
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 8; i++ {
		contact, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "C"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, contact.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(contactID uint) {
			defer wg.Done()
			if _, err := svc.SetPrimary(ctx, 1, contactID); err != nil {
				t.Errorf("SetPrimary(%d) returned error: %v", contactID, err)
			}
		}(ids[i%len(ids)])
	}
	wg.Wait()

	if got := store.primaries(1); len(got) != 1 {
		t.Errorf("primaries after concurrent SetPrimary = %v, want exactly one", got)
	}
}

func TestSetPrimaryScopedToClient(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	other, err := svc.Create(ctx, 2, dto.CreateContactRequest{FirstName: "Other"})
	if err != nil {
		t.Fatal(err)
	}

	// Promoting client 2's contact through client 1's path must fail.
	if _, err := svc.SetPrimary(ctx, 1, other.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("cross-client SetPrimary = %v, want ErrNotFound", err)
	}
}

func TestCreatePrimaryReplacesExisting(t *testing.T) {
	svc, store := newTestContactService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "A", IsPrimaryContact: true}); err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "B", IsPrimaryContact: true})
	if err != nil {
		t.Fatal(err)
	}

	primaries := store.primaries(1)
	if len(primaries) != 1 || primaries[0] != b.ID {
		t.Errorf("primaries = %v, want [%d]", primaries, b.ID)
	}
}

func TestDeactivateClearsPrimary(t *testing.T) {
	svc, store := newTestContactService()
	ctx := context.Background()

	contact, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "P", IsPrimaryContact: true})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Deactivate(ctx, 1, contact.ID); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}

	stored := store.contacts[contact.ID]
	if stored.IsActive {
		t.Error("contact still active")
	}
	if stored.IsPrimaryContact {
		t.Error("inactive contact kept primary flag")
	}
	if got := store.primaries(1); len(got) != 0 {
		t.Errorf("primaries = %v, want none", got)
	}
}

func TestContactUpdateCannotFlipPrimary(t *testing.T) {
	// The update DTO has no primary field; deactivation is the only update
	// path that touches the flag, and only to clear it.
	fields := contactUpdateFields(dto.UpdateContactRequest{})
	if _, ok := fields["is_primary_contact"]; ok {
		t.Error("empty update should not touch the primary flag")
	}

	inactive := false
	fields = contactUpdateFields(dto.UpdateContactRequest{IsActive: &inactive})
	if v, ok := fields["is_primary_contact"]; !ok || v != false {
		t.Error("deactivating update should clear the primary flag")
	}
}

func TestGetPrimary(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	// No primary yet.
	if _, err := svc.GetPrimary(ctx, 1); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetPrimary with no primary = %v, want ErrNotFound", err)
	}

	contact, err := svc.Create(ctx, 1, dto.CreateContactRequest{FirstName: "P", IsPrimaryContact: true})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetPrimary(ctx, 1)
	if err != nil {
		t.Fatalf("GetPrimary returned error: %v", err)
	}
	if got.ID != contact.ID {
		t.Errorf("GetPrimary returned contact %d, want %d", got.ID, contact.ID)
	}
}

func TestContactOpsUnknownClient(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 99, dto.CreateContactRequest{FirstName: "X"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Create for unknown client = %v, want ErrNotFound", err)
	}
	if _, err := svc.List(ctx, 99, true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("List for unknown client = %v, want ErrNotFound", err)
	}
}
