package models

import (
	"github.com/subtrackhq/subtrack/pkg/types"
	"time"
)

// Subscription is a tracked vendor service. Newly created rows always carry
// status pending_approval; only a resolved approval moves them to active or
// cancelled.
type Subscription struct {
	ID            string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name          string `gorm:"column:name;type:text;not null" json:"name"`
	VendorName    string `gorm:"column:vendor_name;type:text" json:"vendor_name"`
	VendorContact string `gorm:"column:vendor_contact;type:text" json:"vendor_contact"`
	// Fee is the amount charged per billing cycle, 2 decimal places.
	Fee float64 `gorm:"column:fee;type:numeric(10,2);not null" json:"fee"`
	// RenewalFee is the post-promotion price, when the current fee is an
	// introductory one.
	RenewalFee      *float64           `gorm:"column:renewal_fee;type:numeric(10,2);default:null" json:"renewal_fee"`
	Currency        string             `gorm:"column:currency;type:varchar(8);default:'TWD'" json:"currency"`
	BillingCycle    types.BillingCycle `gorm:"column:billing_cycle;type:varchar(16);not null" json:"billing_cycle"`
	StartDate       time.Time          `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate         *time.Time         `gorm:"column:end_date;type:date;default:null" json:"end_date"`
	NextRenewalDate *time.Time         `gorm:"column:next_renewal_date;type:date;default:null" json:"next_renewal_date"`
	PaymentMethod   string             `gorm:"column:payment_method;type:text" json:"payment_method"`
	InvoiceRequired bool               `gorm:"column:invoice_required;default:false" json:"invoice_required"`
	CostCenter      string             `gorm:"column:cost_center;type:text" json:"cost_center"`
	BudgetCategory  string             `gorm:"column:budget_category;type:text" json:"budget_category"`
	DepartmentID    *string            `gorm:"column:department_id;type:uuid;default:null" json:"department_id"`
	// OwnerID scopes member visibility; managers and admins see all rows.
	OwnerID   string                   `gorm:"column:owner_id;type:varchar(64);index;not null" json:"owner_id"`
	Status    types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;default:'pending_approval'" json:"status"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// MonthlyFee returns the monthly-equivalent amount used by spend rollups.
func (s *Subscription) MonthlyFee() float64 {
	return s.BillingCycle.MonthlyAmount(s.Fee)
}
