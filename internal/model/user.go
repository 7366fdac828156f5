// Package model defines database models
package model

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"password_hash"` // argon2id PHC string, never the plaintext
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile          *Profile          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Uploads          []Upload          `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	GuidanceSessions []GuidanceSession `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Events           []Event           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// PublicUser is what API clients get to see of a user. The password
// hash is only ever exposed through the admin console.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
