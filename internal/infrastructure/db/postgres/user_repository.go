package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
)

// UserRepository implements ports.UserRepository on gorm.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository over the given handle.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&m), nil
}

// Create inserts the user. The unique index on username is the race
// arbiter: of two concurrent registrations for the same name, exactly one
// insert lands and the loser surfaces as domain.ErrUsernameTaken through
// the translated duplicate-key error.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := userModel{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	for _, role := range user.Roles {
		m.Roles = append(m.Roles, roleModel{ID: role.ID, Name: role.Name})
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toDomainUser(&m), nil
}

func (r *UserRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: m.ID, Name: m.Name}, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var ms []userModel
	if err := r.db.WithContext(ctx).Preload("Roles").Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(ms))
	for i := range ms {
		users = append(users, *toDomainUser(&ms[i]))
	}
	return users, nil
}
