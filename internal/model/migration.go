package model

import "time"

// Migration marks a one-off data migration as applied so it never
// runs twice against the same database
type Migration struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}
