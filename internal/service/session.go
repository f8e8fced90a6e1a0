package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// UserStore is the persistence surface the session service needs
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	GetByProviderIdentity(ctx context.Context, providerName, providerUserID string) (*model.User, error)
	LinkProvider(ctx context.Context, userID uint, providerName, providerUserID string) error
	CreateWithProvider(ctx context.Context, user *model.User, providerName, providerUserID string) error
}

// SocialProfile is the identity a provider attests to after a completed
// OAuth exchange
type SocialProfile struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

// SessionService implements registration, login, token refresh and the
// social login identity protocol.
type SessionService struct {
	users  UserStore
	tokens *TokenService
}

func NewSessionService(users UserStore, tokens *TokenService) *SessionService {
	return &SessionService{users: users, tokens: tokens}
}

// TokenPair is the result of any operation that establishes a session
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

// Register creates a local account and opens a session
func (s *SessionService) Register(ctx context.Context, req dto.RegisterRequest) (*TokenPair, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Register")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email := normalizeEmail(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		logger.WarnWithContext(ctx, "Registration rejected, email already in use").
			String("email", email).
			Log()
		return nil, apperrors.ErrDuplicateIdentity
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hash := string(hashed)
	user := &model.User{
		Email:        email,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup above; the
		// loser hits the unique index on email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.WarnWithContext(ctx, "Registration lost a duplicate-email race").
				String("email", email).
				Log()
			return nil, apperrors.ErrDuplicateIdentity
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return s.openSession(ctx, user)
}

// Login verifies local credentials and opens a session. Unknown email and
// wrong password return the same error so the response never reveals which
// one failed.
func (s *SessionService) Login(ctx context.Context, req dto.LoginRequest) (*TokenPair, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Login")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email := normalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.WarnWithContext(ctx, "Login failed, unknown email").
				String("email", email).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Social-only accounts have no local password to check against.
	if !user.HasLocalPassword() {
		logger.WarnWithContext(ctx, "Login failed, account has no local password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		logger.WarnWithContext(ctx, "Login failed, wrong password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Log()

	return s.openSession(ctx, user)
}

// SocialLogin resolves a provider-attested identity to a local user and
// opens a session. Resolution order: an existing provider link wins; then an
// account with the same email gets the identity linked; otherwise a fresh
// account is created without a local password.
func (s *SessionService) SocialLogin(ctx context.Context, profile SocialProfile) (*TokenPair, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SocialLogin")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.users.GetByProviderIdentity(ctx, profile.Provider, profile.ProviderID)
	if err == nil {
		logger.InfoWithContext(ctx, "Social login via existing provider link").
			String("provider", profile.Provider).
			Uint("user_id", user.ID).
			Log()
		return s.openSession(ctx, user)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	email := normalizeEmail(profile.Email)
	if email == "" {
		logger.WarnWithContext(ctx, "Social login rejected, provider returned no email").
			String("provider", profile.Provider).
			Log()
		return nil, apperrors.ErrInvalidInput
	}

	user, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		if linkErr := s.users.LinkProvider(ctx, user.ID, profile.Provider, profile.ProviderID); linkErr != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, linkErr)
		}
		logger.InfoWithContext(ctx, "Social identity linked to existing account").
			String("provider", profile.Provider).
			Uint("user_id", user.ID).
			Log()
		return s.openSession(ctx, user)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user = &model.User{
		Email:     email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	}
	if err := s.users.CreateWithProvider(ctx, user, profile.Provider, profile.ProviderID); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Account created from social identity").
		String("provider", profile.Provider).
		Uint("user_id", user.ID).
		Log()

	return s.openSession(ctx, user)
}

// Refresh validates a refresh token and issues a new pair. The identity
// snapshot in the new access token is re-read from storage, so role or name
// changes take effect on the next refresh.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Refresh")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.WarnWithContext(ctx, "Refresh rejected, user no longer exists").
				Uint("user_id", claims.UserID).
				Log()
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Session refreshed").
		Uint("user_id", user.ID).
		Log()

	return s.openSession(ctx, user)
}

// Profile returns the account behind an authenticated session
func (s *SessionService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Profile")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return user, nil
}

// UpdateProfile changes the mutable profile fields of an account
func (s *SessionService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateProfile")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	fields := make(map[string]interface{})
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, userID, fields); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	return s.Profile(ctx, userID)
}

func (s *SessionService) openSession(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(ctx, user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.tokens.IssueRefresh(ctx, user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

// UserToResponse maps a stored user to its public view
func UserToResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
