package models

import (
	"github.com/subtrackhq/subtrack/pkg/types"
	"time"

	"gorm.io/datatypes"
)

// SubscriptionChangeLog records every mutation of a subscription row.
// Use case: troubleshooting and the admin override audit trail.
type SubscriptionChangeLog struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;index:idx_sub_id_id,priority:1;not null"`
	// ActorID is the profile that caused the change (editor or approver).
	ActorID string `gorm:"column:actor_id;type:varchar(64);not null"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(32);not null"`
	// Before stores subscription data before the change in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores subscription data after the change in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the approval request id.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (SubscriptionChangeLog) TableName() string {
	return "subscription_change_log"
}
