package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an application defined analytics record. Metadata is stored
// as sent and never interpreted by the backend
type Event struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Name      string         `gorm:"size:255" json:"name"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"index;not null" json:"created_at"`
}
