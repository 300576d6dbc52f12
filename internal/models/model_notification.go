package models

import "time"

// Notification is a per-user message with a read flag and an optional deep
// link into the dashboard.
type Notification struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	Read      bool      `gorm:"column:read;default:false" json:"read"`
	Link      string    `gorm:"column:link;type:text" json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
