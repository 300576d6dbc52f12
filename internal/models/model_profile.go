package models

import (
	"github.com/subtrackhq/subtrack/pkg/types"
	"time"
)

// Profile is the identity-linked user record. The primary key is the
// external identity provider's user id, not a locally generated uuid.
// Rows are created lazily on a user's first authenticated call.
type Profile struct {
	ID          string     `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email       string     `gorm:"column:email;type:text;not null" json:"email"`
	DisplayName string     `gorm:"column:display_name;type:text" json:"display_name"`
	Role        types.Role `gorm:"column:role;type:varchar(16);not null;default:'member'" json:"role"`
	// DepartmentID is detached (set to NULL) when the department is deleted.
	DepartmentID *string   `gorm:"column:department_id;type:uuid;default:null" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
