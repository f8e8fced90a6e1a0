package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/constants"
	apperrors "github.com/clientbridge/crm/internal/errors"
)

// fakeStateStore is an in-memory one-shot store
type fakeStateStore struct {
	values map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{values: make(map[string]string)}
}

func (f *fakeStateStore) SetOnce(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeStateStore) TakeOnce(ctx context.Context, key string) (string, bool, error) {
	value, ok := f.values[key]
	if ok {
		delete(f.values, key)
	}
	return value, ok, nil
}

func newTestSocialService(states StateStore) *SocialService {
	cfg := &config.Config{}
	cfg.OAuth.GoogleClientID = "client-id"
	cfg.OAuth.GoogleClientSecret = "client-secret"
	cfg.OAuth.CallbackBaseURL = "http://localhost:5000"
	return NewSocialService(cfg, states)
}

func TestBeginLoginStoresState(t *testing.T) {
	states := newFakeStateStore()
	svc := newTestSocialService(states)

	authURL, err := svc.BeginLogin(context.Background(), "google")
	if err != nil {
		t.Fatalf("BeginLogin returned error: %v", err)
	}

	if !strings.Contains(authURL, "state=") {
		t.Errorf("auth URL missing state parameter: %q", authURL)
	}
	if !strings.Contains(authURL, "redirect_uri=") {
		t.Errorf("auth URL missing redirect_uri: %q", authURL)
	}
	if len(states.values) != 1 {
		t.Errorf("state count = %d, want 1", len(states.values))
	}
}

func TestBeginLoginUnknownProvider(t *testing.T) {
	svc := newTestSocialService(newFakeStateStore())

	if _, err := svc.BeginLogin(context.Background(), "myspace"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("BeginLogin(myspace) = %v, want ErrNotFound", err)
	}
	if svc.HasProvider("facebook") {
		t.Error("facebook should not be configured without credentials")
	}
}

func TestCompleteLoginRejectsUnknownState(t *testing.T) {
	svc := newTestSocialService(newFakeStateStore())

	// No network call happens when the state is unknown, so the error must
	// be the input error, not an exchange failure.
	_, err := svc.CompleteLogin(context.Background(), "google", "never-issued", "code")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("CompleteLogin with unknown state = %v, want ErrInvalidInput", err)
	}
}

func TestCompleteLoginStateIsOneShot(t *testing.T) {
	states := newFakeStateStore()
	svc := newTestSocialService(states)

	// Keep the code exchange local so the first call fails fast instead of
	// reaching the real provider.
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_grant", http.StatusBadRequest)
	}))
	defer tokenSrv.Close()
	svc.providers["google"].Endpoint = oauth2.Endpoint{
		AuthURL:  tokenSrv.URL + "/auth",
		TokenURL: tokenSrv.URL + "/token",
	}

	if _, err := svc.BeginLogin(context.Background(), "google"); err != nil {
		t.Fatal(err)
	}

	var state string
	for key := range states.values {
		state = strings.TrimPrefix(key, constants.CacheKeyOAuthState)
	}

	// First consumption takes the nonce; the exchange itself fails.
	if _, err := svc.CompleteLogin(context.Background(), "google", state, "bogus-code"); err == nil {
		t.Fatal("expected exchange to fail against the stub endpoint")
	}

	// Replay must now fail on the state check.
	_, err := svc.CompleteLogin(context.Background(), "google", state, "bogus-code")
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("replayed CompleteLogin = %v, want ErrInvalidInput", err)
	}
}
