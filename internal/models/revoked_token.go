package models

import "time"

// RevokedTokenModel is a logout record. The raw token string is the primary
// key so that revocation is an exact-match point lookup; rows are pruned once
// the token would have expired on its own anyway.
type RevokedTokenModel struct {
	Token     string    `json:"-"          gorm:"column:jwt;primaryKey;type:varchar(768)"`
	RevokedOn time.Time `json:"revoked_on" gorm:"index;not null"`
}

func (RevokedTokenModel) TableName() string { return "revoked_tokens" }
