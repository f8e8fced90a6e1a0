package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by ID").
				Uint("user_id", id).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return &user, nil
}

// GetByEmail finds user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to get user by email").
				String("email", email).
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully by email").
		String("email", email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// Update updates user profile fields (never email or password)
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(fields) == 0 {
		return nil
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User updated successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// GetByProviderIdentity finds the user linked to an external OAuth identity
func (r *UserRepository) GetByProviderIdentity(ctx context.Context, providerName, providerUserID string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByProviderIdentity")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var link model.SocialProviderLink

	result := r.db.WithContext(ctx).
		Where("provider_name = ? AND provider_user_id = ?", providerName, providerUserID).
		First(&link)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.ErrorWithContext(ctx, "Failed to look up provider identity").
				String("provider", providerName).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, link.UserID).Error; err != nil {
		return nil, err
	}

	logger.DebugWithContext(ctx, "User resolved from provider identity").
		String("provider", providerName).
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return &user, nil
}

// LinkProvider attaches an external OAuth identity to an existing user
func (r *UserRepository) LinkProvider(ctx context.Context, userID uint, providerName, providerUserID string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LinkProvider")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	link := model.SocialProviderLink{
		UserID:         userID,
		ProviderName:   providerName,
		ProviderUserID: providerUserID,
	}

	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to link provider identity").
			Uint("user_id", userID).
			String("provider", providerName).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Provider identity linked").
		Uint("user_id", userID).
		String("provider", providerName).
		Log()

	return nil
}

// CreateWithProvider creates a user and its provider link in one transaction
func (r *UserRepository) CreateWithProvider(ctx context.Context, user *model.User, providerName, providerUserID string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CreateWithProvider")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		link := model.SocialProviderLink{
			UserID:         user.ID,
			ProviderName:   providerName,
			ProviderUserID: providerUserID,
		}
		return tx.Create(&link).Error
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user with provider identity").
			String("email", user.Email).
			String("provider", providerName).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created from provider identity").
		String("email", user.Email).
		String("provider", providerName).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}
