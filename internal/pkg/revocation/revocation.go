package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/eyxpoliba/emotion-core/internal/models"
	"gorm.io/gorm"
)

// ErrAlreadyRevoked is returned by Revoke when the token has a revocation
// record already. Logout treats a second attempt as a client error.
var ErrAlreadyRevoked = errors.New("token already revoked")

// Store is the revocation lookup used by the authentication gate and the
// logout flow. Implementations must be safe for concurrent use.
type Store interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string, revokedOn time.Time) error
}

// GormStore persists revocations in the revoked_tokens table, keyed by the
// exact token string.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// IsRevoked reports whether an exact revocation record exists for the token.
func (s *GormStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.RevokedTokenModel{}).
		Where("jwt = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Revoke inserts a revocation record. The primary key on the token column
// makes a duplicate insert fail even when two logouts race; both the
// up-front check and the translated duplicate-key error map to
// ErrAlreadyRevoked.
func (s *GormStore) Revoke(ctx context.Context, token string, revokedOn time.Time) error {
	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return ErrAlreadyRevoked
	}

	err = s.db.WithContext(ctx).Create(&models.RevokedTokenModel{
		Token:     token,
		RevokedOn: revokedOn,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyRevoked
	}
	return err
}

// Prune deletes revocation records older than the cutoff. Once a token's
// natural expiry has long passed, the record no longer changes any
// authentication decision.
func (s *GormStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("revoked_on < ?", olderThan).
		Delete(&models.RevokedTokenModel{})
	return result.RowsAffected, result.Error
}
