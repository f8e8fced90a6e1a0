package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/constants"
	apperrors "github.com/clientbridge/crm/internal/errors"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

const stateTTL = 10 * time.Minute

// StateStore holds one-shot OAuth state nonces. A nonce is written when the
// login flow starts and consumed exactly once when the callback arrives.
type StateStore interface {
	SetOnce(ctx context.Context, key, value string, ttl time.Duration) error
	TakeOnce(ctx context.Context, key string) (string, bool, error)
}

// SocialService drives the OAuth login flows against external providers
type SocialService struct {
	providers map[string]*oauth2.Config
	states    StateStore
}

func NewSocialService(cfg *config.Config, states StateStore) *SocialService {
	providers := make(map[string]*oauth2.Config)

	if cfg.OAuth.GoogleClientID != "" {
		providers[constants.ProviderGoogle] = &oauth2.Config{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.CallbackBaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	if cfg.OAuth.FacebookAppID != "" {
		providers[constants.ProviderFacebook] = &oauth2.Config{
			ClientID:     cfg.OAuth.FacebookAppID,
			ClientSecret: cfg.OAuth.FacebookAppSecret,
			RedirectURL:  cfg.OAuth.CallbackBaseURL + "/api/auth/facebook/callback",
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		}
	}

	return &SocialService{providers: providers, states: states}
}

// HasProvider reports whether a provider is configured
func (s *SocialService) HasProvider(provider string) bool {
	_, ok := s.providers[provider]
	return ok
}

// BeginLogin starts an OAuth flow: it stores a fresh state nonce and returns
// the provider's consent page URL.
func (s *SocialService) BeginLogin(ctx context.Context, provider string) (string, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "BeginLogin")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	conf, ok := s.providers[provider]
	if !ok {
		return "", apperrors.ErrNotFound
	}

	state := uuid.NewString()
	if err := s.states.SetOnce(ctx, constants.CacheKeyOAuthState+state, provider, stateTTL); err != nil {
		return "", apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.DebugWithContext(ctx, "OAuth login started").
		String("provider", provider).
		Log()

	return conf.AuthCodeURL(state), nil
}

// CompleteLogin finishes an OAuth flow: it consumes the state nonce,
// exchanges the authorization code and fetches the provider's profile. A
// replayed or expired state fails before any network call is made.
func (s *SocialService) CompleteLogin(ctx context.Context, provider, state, code string) (*SocialProfile, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CompleteLogin")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	conf, ok := s.providers[provider]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	storedProvider, found, err := s.states.TakeOnce(ctx, constants.CacheKeyOAuthState+state)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	if !found || storedProvider != provider {
		logger.WarnWithContext(ctx, "OAuth callback with unknown or replayed state").
			String("provider", provider).
			Log()
		return nil, apperrors.ErrInvalidInput
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		logger.ErrorWithContext(ctx, "OAuth code exchange failed").
			String("provider", provider).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUnauthenticated, err)
	}

	profile, err := s.fetchProfile(ctx, provider, conf, token)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch provider profile").
			String("provider", provider).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "OAuth login completed").
		String("provider", provider).
		String("provider_user_id", profile.ProviderID).
		Log()

	return profile, nil
}

func (s *SocialService) fetchProfile(ctx context.Context, provider string, conf *oauth2.Config, token *oauth2.Token) (*SocialProfile, error) {
	client := conf.Client(ctx, token)

	var profileURL string
	switch provider {
	case constants.ProviderGoogle:
		profileURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	case constants.ProviderFacebook:
		profileURL = "https://graph.facebook.com/me?fields=id,email,first_name,last_name"
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	resp, err := client.Get(profileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	switch provider {
	case constants.ProviderGoogle:
		var payload struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			GivenName  string `json:"given_name"`
			FamilyName string `json:"family_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return &SocialProfile{
			Provider:   provider,
			ProviderID: payload.ID,
			Email:      payload.Email,
			FirstName:  payload.GivenName,
			LastName:   payload.FamilyName,
		}, nil
	default:
		var payload struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return &SocialProfile{
			Provider:   provider,
			ProviderID: payload.ID,
			Email:      payload.Email,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
		}, nil
	}
}
