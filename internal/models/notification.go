package models

// Notification is an in-app message shown on the notifications page
type Notification struct {
	Base
	UserID  string  `gorm:"size:64;not null;index" json:"user_id"`
	Title   string  `gorm:"not null" json:"title"`
	Message *string `json:"message,omitempty"`
	Type    *string `json:"type,omitempty"`
	IsRead  bool    `gorm:"not null;default:false" json:"is_read"`
}
