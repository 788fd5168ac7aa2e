package models

import "time"

// User is a chat-platform user. The primary key is the platform's own user
// id, so logging in again from the mini-app upserts the same row.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	IsDev     bool      `gorm:"default:false" json:"is_dev"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
