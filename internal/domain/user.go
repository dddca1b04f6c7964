package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthProvider identifies how an account was established. It is set
// once at creation and never changes afterwards.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderTelegram AuthProvider = "telegram"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the durable identity record. Email is unique store-wide:
// provider-only identities get a namespaced synthetic email
// (tg_<id>@telegram.user) that cannot collide with real addresses.
// (provider, provider_id) is unique among non-local rows; local rows
// carry a NULL provider_id, which Postgres keeps out of the index.
type User struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"column:password" json:"-"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Roles        []UserRole     `gorm:"type:jsonb;serializer:json" json:"roles"`
	Provider     AuthProvider   `gorm:"type:text;not null;default:local;uniqueIndex:uq_user_provider_identity" json:"provider"`
	ProviderID   *string        `gorm:"type:text;uniqueIndex:uq_user_provider_identity" json:"provider_id,omitempty"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if len(u.Roles) == 0 {
		u.Roles = []UserRole{RoleUser}
	}
	if u.Provider == "" {
		u.Provider = ProviderLocal
	}
	return nil
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
