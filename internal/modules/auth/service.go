package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/eyxpoliba/emotion-core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Login registers a participant from the posted profilation and returns the
// resolved row. Each direct login is a fresh participant record.
func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*models.UserModel, error) {
	u := models.UserModel{
		Nickname:    strings.TrimSpace(dto.Nickname),
		Email:       strings.TrimSpace(dto.Email),
		Age:         dto.Age,
		Gender:      strings.TrimSpace(dto.Gender),
		Nationality: strings.TrimSpace(dto.Nationality),
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GoogleLogin finds or creates the participant tied to the verified Google
// subject and refreshes the profile fields we learned from the credential.
func (s *Service) GoogleLogin(ctx context.Context, identity *GoogleIdentity, dto *GoogleLoginDTO) (*models.UserModel, error) {
	db := s.db.WithContext(ctx)

	var u models.UserModel
	err := db.Where("google_id = ?", identity.Subject).First(&u).Error
	if err == nil {
		u.Nickname = displayName(identity)
		u.Email = identity.Email
		u.EmailVerified = identity.EmailVerified
		if dto.Age != 0 {
			u.Age = dto.Age
		}
		if dto.Gender != "" {
			u.Gender = dto.Gender
		}
		if dto.Nationality != "" {
			u.Nationality = dto.Nationality
		}
		return &u, db.Save(&u).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u = models.UserModel{
		Nickname:      displayName(identity),
		Email:         identity.Email,
		Age:           dto.Age,
		Gender:        dto.Gender,
		Nationality:   dto.Nationality,
		GoogleID:      identity.Subject,
		EmailVerified: identity.EmailVerified,
	}
	return &u, db.Create(&u).Error
}

func displayName(identity *GoogleIdentity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(identity.Email, '@'); at > 0 {
		return identity.Email[:at]
	}
	return identity.Email
}
