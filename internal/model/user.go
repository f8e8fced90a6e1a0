package model

import (
	"gorm.io/gorm"
)

// User is an identity record. PasswordHash is nil for accounts created
// through a social provider that never set a local password.
type User struct {
	gorm.Model
	Email        string  `gorm:"column:email;unique;not null"`
	PasswordHash *string `gorm:"column:password_hash"`
	FirstName    string  `gorm:"column:first_name;not null"`
	LastName     string  `gorm:"column:last_name"`
	IsAdmin      bool    `gorm:"column:is_admin;default:false;not null"`

	SocialProviders []SocialProviderLink `gorm:"foreignKey:UserID"`
}

// HasLocalPassword reports whether the account can log in with email/password.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// SocialProviderLink maps an external OAuth identity to exactly one local
// user. Unique on (provider_name, provider_user_id).
type SocialProviderLink struct {
	gorm.Model
	UserID         uint   `gorm:"column:user_id;not null;index"`
	ProviderName   string `gorm:"column:provider_name;not null;uniqueIndex:idx_social_provider_identity"`
	ProviderUserID string `gorm:"column:provider_user_id;not null;uniqueIndex:idx_social_provider_identity"`
}
