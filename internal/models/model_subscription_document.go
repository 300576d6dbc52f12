package models

import "time"

// SubscriptionDocument stores uploaded contract file metadata with the
// content inlined as a base64 data URL (no external object store).
// Documents are append-only per subscription and removed only by cascading
// subscription deletion.
type SubscriptionDocument struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;index;not null" json:"subscription_id"`
	// FileURL holds the data URL itself, capped at 2MB of decoded content.
	FileURL    string    `gorm:"column:file_url;type:text;not null" json:"file_url"`
	FileName   string    `gorm:"column:file_name;type:text;not null" json:"file_name"`
	UploadedBy string    `gorm:"column:uploaded_by;type:varchar(64)" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SubscriptionDocument) TableName() string {
	return "subscription_documents"
}
