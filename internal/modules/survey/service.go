package survey

import (
	"context"
	"errors"

	"github.com/eyxpoliba/emotion-core/internal/models"
	"gorm.io/gorm"
)

// ErrIdentityNotFound means a valid token references a user row that no
// longer exists. That is a data inconsistency, not an auth failure.
var ErrIdentityNotFound = errors.New("authenticated user not found")

// Recorder persists a reaction batch for a user.
type Recorder interface {
	Record(ctx context.Context, userID int64, items []ReactionDTO) error
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Record saves one row per reaction, all attributed to userID. The user row
// must exist; the whole batch is inserted in one transaction.
func (s *Service) Record(ctx context.Context, userID int64, items []ReactionDTO) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.UserModel{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrIdentityNotFound
	}

	if len(items) == 0 {
		return nil
	}

	rows := make([]models.ReactionModel, len(items))
	for i, item := range items {
		rows[i] = models.ReactionModel{
			UserID:           userID,
			Image:            item.Image,
			ImageDescription: item.Description,
			ImageReaction:    item.Reaction,
			AIComment:        item.AIComment,
		}
	}
	return db.Create(&rows).Error
}
