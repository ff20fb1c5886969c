// Package postgres implements the credential store on relational storage
// via gorm: users, roles and refresh-token records as laid out in the
// migration below. Every call round-trips to the database; there is no
// caching layer in front of it.
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/platformteam/auth-service/internal/core/domain"
)

type userModel struct {
	ID           uint        `gorm:"primaryKey"`
	Username     string      `gorm:"uniqueIndex;not null"`
	PasswordHash string      `gorm:"not null"`
	Email        string      ``
	Roles        []roleModel `gorm:"many2many:user_roles"`
	CreatedAt    time.Time   ``
}

func (userModel) TableName() string { return "users" }

type roleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (roleModel) TableName() string { return "roles" }

// refreshTokenModel deliberately has no uniqueness constraint on Token:
// concurrent sessions for the same user each hold their own row.
type refreshTokenModel struct {
	ID     uint   `gorm:"primaryKey"`
	Token  string `gorm:"index;not null"`
	UserID uint   `gorm:"index;not null"`
}

func (refreshTokenModel) TableName() string { return "refresh_tokens" }

// Connect opens the database, runs migrations and returns the handle.
// TranslateError turns driver-specific constraint violations into gorm
// sentinels so repositories can map a duplicate key without inspecting
// driver error codes.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&userModel{}, &roleModel{}, &refreshTokenModel{}); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// SeedRoles makes sure the well-known roles exist. The service refuses to
// start without them: registration depends on the default role being
// present, and that is an operational precondition, not a runtime error.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		role := roleModel{Name: name}
		if err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

func toDomainUser(m *userModel) *domain.User {
	roles := make([]domain.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name})
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
	}
}
