package types

// SubscriptionStatus is the lifecycle state of a tracked subscription.
// New records always start as pending_approval and only leave that state
// through the approval workflow.
type SubscriptionStatus string

const (
	SubscriptionStatusActive          SubscriptionStatus = "active"
	SubscriptionStatusPendingApproval SubscriptionStatus = "pending_approval"
	SubscriptionStatusCancelled       SubscriptionStatus = "cancelled"
)

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return true
	}
	return false
}

// MonthlyAmount normalizes a fee to its monthly equivalent: quarterly fees
// are divided by 3, yearly fees by 12. Reporting rollups depend on this.
// Unknown cycles are treated as monthly.
func (c BillingCycle) MonthlyAmount(fee float64) float64 {
	switch c {
	case BillingCycleQuarterly:
		return fee / 3
	case BillingCycleYearly:
		return fee / 12
	default:
		return fee
	}
}

// SubscriptionChangeReason tags entries in the subscription change log.
type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreate     SubscriptionChangeReason = "create"
	SubscriptionChangeReasonDirectEdit SubscriptionChangeReason = "directEdit"
	SubscriptionChangeReasonApproval   SubscriptionChangeReason = "approval"
)
