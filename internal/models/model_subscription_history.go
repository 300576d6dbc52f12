package models

import "time"

// SubscriptionHistory is an append-only audit row recording a fee change.
// Rows are written transactionally with the fee update and never mutated.
type SubscriptionHistory struct {
	ID             string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string    `gorm:"column:subscription_id;type:uuid;index;not null" json:"subscription_id"`
	OldFee         float64   `gorm:"column:old_fee;type:numeric(10,2)" json:"old_fee"`
	NewFee         float64   `gorm:"column:new_fee;type:numeric(10,2)" json:"new_fee"`
	ChangedAt      time.Time `gorm:"column:changed_at" json:"changed_at"`
	ChangedBy      string    `gorm:"column:changed_by;type:varchar(64)" json:"changed_by"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SubscriptionHistory) TableName() string {
	return "subscription_history"
}
