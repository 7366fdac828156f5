package model

import "time"

type Upload struct {
	ID     uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID *uint `gorm:"index" json:"user_id"`

	// Original file name as sent by the client. Used as the download name
	Filename string `gorm:"size:255;not null" json:"filename"`

	// Where the bytes live. A path for local storage, an object key for S3.
	// Prefixed with a random token so different uploads never share a name
	Filepath string `gorm:"size:1024;not null" json:"filepath"`

	ContentType string    `gorm:"size:128" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
