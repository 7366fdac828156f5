package model

import "time"

// Profile is created empty right after its user and filled in later
type Profile struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"uniqueIndex;not null" json:"user_id"`
	Headline  string      `gorm:"size:255" json:"headline"`
	Bio       string      `gorm:"size:2048" json:"bio"`
	Skills    StringSlice `json:"skills"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
