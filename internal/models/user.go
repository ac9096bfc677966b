package models

import "time"

// UserModel represents a survey participant.
type UserModel struct {
	ID            int64     `json:"id"             gorm:"primaryKey;autoIncrement"`
	Nickname      string    `json:"nickname"       gorm:"not null"`
	Email         string    `json:"email"          gorm:"index"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	Nationality   string    `json:"nationality"`
	GoogleID      string    `json:"-"              gorm:"column:google_id;index"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }
