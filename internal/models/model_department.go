package models

import "time"

// Department is an organizational grouping referenced by profiles and
// subscriptions.
type Department struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Department) TableName() string {
	return "departments"
}
