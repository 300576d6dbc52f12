package models

import (
	"github.com/subtrackhq/subtrack/pkg/types"
	"time"
)

// ApprovalRequest gates one subscription-affecting action. Status moves
// pending -> approved or pending -> rejected exactly once; ResolvedAt and
// ApproverID are set on resolution only.
type ApprovalRequest struct {
	ID             string               `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string               `gorm:"column:subscription_id;type:uuid;index;not null" json:"subscription_id"`
	Type           types.ApprovalType   `gorm:"column:type;type:varchar(16);not null" json:"type"`
	RequesterID    string               `gorm:"column:requester_id;type:varchar(64);not null" json:"requester_id"`
	ApproverID     *string              `gorm:"column:approver_id;type:varchar(64);default:null" json:"approver_id"`
	Status         types.ApprovalStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	Comment        string               `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt      time.Time            `json:"created_at"`
	ResolvedAt     *time.Time           `gorm:"column:resolved_at;default:null" json:"resolved_at"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE" json:"subscription,omitempty"`
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

func (r *ApprovalRequest) Resolved() bool {
	return r != nil && r.Status != types.ApprovalStatusPending
}
