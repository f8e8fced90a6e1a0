package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
)

// fakeUserStore is an in-memory UserStore for tests
type fakeUserStore struct {
	users  map[uint]*model.User
	links  map[string]uint // provider:providerID -> userID
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  make(map[uint]*model.User),
		links:  make(map[string]uint),
		nextID: 1,
	}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["first_name"].(string); ok {
		user.FirstName = v
	}
	if v, ok := fields["last_name"].(string); ok {
		user.LastName = v
	}
	return nil
}

func (f *fakeUserStore) GetByProviderIdentity(ctx context.Context, providerName, providerUserID string) (*model.User, error) {
	if id, ok := f.links[providerName+":"+providerUserID]; ok {
		return f.GetByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) LinkProvider(ctx context.Context, userID uint, providerName, providerUserID string) error {
	f.links[providerName+":"+providerUserID] = userID
	return nil
}

func (f *fakeUserStore) CreateWithProvider(ctx context.Context, user *model.User, providerName, providerUserID string) error {
	if err := f.Create(ctx, user); err != nil {
		return err
	}
	return f.LinkProvider(ctx, user.ID, providerName, providerUserID)
}

func newTestSessionService(store UserStore) *SessionService {
	return NewSessionService(store, newTestTokenService(15*time.Minute, 7*24*time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	pair, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:     "New@Example.com",
		Password:  "correct horse battery",
		FirstName: "New",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Register should return both tokens")
	}
	if pair.User.Email != "new@example.com" {
		t.Errorf("email not normalized: %q", pair.User.Email)
	}

	// Stored hash must verify and must not be the plaintext.
	stored := store.users[pair.User.ID]
	if stored.PasswordHash == nil || *stored.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext or missing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("correct horse battery")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	if _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "new@example.com",
		Password: "correct horse battery",
	}); err != nil {
		t.Errorf("Login after Register returned error: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	req := dto.RegisterRequest{Email: "dup@example.com", Password: "password123", FirstName: "A"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, apperrors.ErrDuplicateIdentity) {
		t.Errorf("second Register = %v, want ErrDuplicateIdentity", err)
	}
}

// racingUserStore simulates losing a concurrent-registration race: the email
// lookup sees nothing, but the unique index rejects the insert.
type racingUserStore struct {
	*fakeUserStore
}

func (r *racingUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	return r.fakeUserStore.Create(ctx, user)
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(&racingUserStore{fakeUserStore: store})

	req := dto.RegisterRequest{Email: "race@example.com", Password: "password123", FirstName: "R"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	// The duplicate slips past the lookup and dies on the unique index; the
	// caller must still see a duplicate-identity conflict, not an internal
	// error.
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, apperrors.ErrDuplicateIdentity) {
		t.Errorf("racing Register = %v, want ErrDuplicateIdentity", err)
	}
	if len(store.users) != 1 {
		t.Errorf("user count = %d, want 1", len(store.users))
	}
}

func TestLoginFailures(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	if _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "known@example.com", Password: "password123", FirstName: "K",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "unknown@example.com", "password123"},
		{"wrong password", "known@example.com", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), dto.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Errorf("Login = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginSocialOnlyAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	// Account created via provider: no local password.
	user := &model.User{Email: "social@example.com", FirstName: "S"}
	if err := store.CreateWithProvider(context.Background(), user, "google", "g-1"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "social@example.com", Password: "anything",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login on social-only account = %v, want ErrInvalidCredentials", err)
	}
}

func TestSocialLoginResolution(t *testing.T) {
	t.Run("existing link wins", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestSessionService(store)

		user := &model.User{Email: "linked@example.com", FirstName: "L"}
		if err := store.CreateWithProvider(context.Background(), user, "google", "g-7"); err != nil {
			t.Fatal(err)
		}

		pair, err := svc.SocialLogin(context.Background(), SocialProfile{
			Provider: "google", ProviderID: "g-7",
			// Different email on the provider side must not matter once
			// the link exists.
			Email: "changed@example.com",
		})
		if err != nil {
			t.Fatalf("SocialLogin returned error: %v", err)
		}
		if pair.User.ID != user.ID {
			t.Errorf("resolved user %d, want %d", pair.User.ID, user.ID)
		}
		if len(store.users) != 1 {
			t.Errorf("user count = %d, want 1", len(store.users))
		}
	})

	t.Run("email match links identity", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestSessionService(store)

		if _, err := svc.Register(context.Background(), dto.RegisterRequest{
			Email: "match@example.com", Password: "password123", FirstName: "M",
		}); err != nil {
			t.Fatal(err)
		}

		pair, err := svc.SocialLogin(context.Background(), SocialProfile{
			Provider: "facebook", ProviderID: "fb-1", Email: "Match@Example.com",
		})
		if err != nil {
			t.Fatalf("SocialLogin returned error: %v", err)
		}
		if len(store.users) != 1 {
			t.Errorf("user count = %d, want 1 (no new account)", len(store.users))
		}
		if _, ok := store.links["facebook:fb-1"]; !ok {
			t.Error("provider identity was not linked")
		}
		if pair.User.Email != "match@example.com" {
			t.Errorf("resolved wrong account: %q", pair.User.Email)
		}
	})

	t.Run("fresh identity creates account", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestSessionService(store)

		pair, err := svc.SocialLogin(context.Background(), SocialProfile{
			Provider: "google", ProviderID: "g-new",
			Email: "fresh@example.com", FirstName: "F", LastName: "R",
		})
		if err != nil {
			t.Fatalf("SocialLogin returned error: %v", err)
		}
		if len(store.users) != 1 {
			t.Fatalf("user count = %d, want 1", len(store.users))
		}
		if pair.User.HasLocalPassword() {
			t.Error("provider-created account should have no local password")
		}
	})

	t.Run("no email from provider rejected", func(t *testing.T) {
		store := newFakeUserStore()
		svc := newTestSessionService(store)

		_, err := svc.SocialLogin(context.Background(), SocialProfile{
			Provider: "facebook", ProviderID: "fb-noemail",
		})
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("SocialLogin without email = %v, want ErrInvalidInput", err)
		}
	})
}

func TestRefreshFlow(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	pair, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "r@example.com", Password: "password123", FirstName: "R",
	})
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if refreshed.User.ID != pair.User.ID {
		t.Errorf("refreshed session for user %d, want %d", refreshed.User.ID, pair.User.ID)
	}

	// Access token is not a refresh token.
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Refresh with access token = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshForDeletedUser(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	pair, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "gone@example.com", Password: "password123", FirstName: "G",
	})
	if err != nil {
		t.Fatal(err)
	}

	delete(store.users, pair.User.ID)

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Refresh for deleted user = %v, want ErrUserNotFound", err)
	}
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	store := newFakeUserStore()
	svc := newTestSessionService(store)

	pair, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "promote@example.com", Password: "password123", FirstName: "P",
	})
	if err != nil {
		t.Fatal(err)
	}

	store.users[pair.User.ID].IsAdmin = true

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.tokens.VerifyAccess(refreshed.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role after refresh = %q, want %q", claims.Role, RoleAdmin)
	}
}
