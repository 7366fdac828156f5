package model

import (
	"time"

	"gorm.io/datatypes"
)

// GuidanceSession records one recommendation request. Rows are never
// updated after creation
type GuidanceSession struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Inputs    datatypes.JSON `json:"inputs"` // {"profile": ..., "goals": ...}
	Result    datatypes.JSON `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}
