package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
)

// RefreshTokenRepository implements ports.RefreshTokenRepository on gorm.
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a RefreshTokenRepository over the given
// handle.
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

var _ ports.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

func (r *RefreshTokenRepository) Save(ctx context.Context, record *domain.RefreshToken) error {
	m := refreshTokenModel{Token: record.Token, UserID: record.UserID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	record.ID = m.ID
	return nil
}

// Consume deletes the record in a single DELETE and reports whether a row
// was removed. Rotation races resolve here: of two concurrent requests
// replaying the same token, exactly one sees a deleted row.
func (r *RefreshTokenRepository) Consume(ctx context.Context, token string) (bool, error) {
	res := r.db.WithContext(ctx).Where("token = ?", token).Delete(&refreshTokenModel{})
	if res.Error != nil {
		return false, fmt.Errorf("consume refresh token: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&refreshTokenModel{}).Error; err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
