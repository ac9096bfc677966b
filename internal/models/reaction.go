package models

import "time"

// ReactionModel is one labelled image reaction inside a submitted result batch.
type ReactionModel struct {
	ID               int64     `json:"id"                gorm:"primaryKey;autoIncrement"`
	UserID           int64     `json:"user_id"           gorm:"index;not null"`
	User             UserModel `json:"-"                 gorm:"foreignKey:UserID"`
	Image            string    `json:"image"             gorm:"not null"`
	ImageDescription string    `json:"image_description" gorm:"type:text"`
	ImageReaction    string    `json:"image_reaction"`
	AIComment        string    `json:"ai_comment"        gorm:"column:ai_comment;type:text"`
	CreatedAt        time.Time `json:"created_at"`
}

func (ReactionModel) TableName() string { return "user_reactions" }
