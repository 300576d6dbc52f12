package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBillingCycle_MonthlyAmount(t *testing.T) {
	require.InDelta(t, 100.0, BillingCycleMonthly.MonthlyAmount(100), 1e-9)
	require.InDelta(t, 100.0, BillingCycleQuarterly.MonthlyAmount(300), 1e-9)
	require.InDelta(t, 100.0, BillingCycleYearly.MonthlyAmount(1200), 1e-9)
}

func TestBillingCycle_MonthlyAmount_UnknownCycleFallsBackToRaw(t *testing.T) {
	require.InDelta(t, 50.0, BillingCycle("weekly").MonthlyAmount(50), 1e-9)
}

func TestBillingCycle_Valid(t *testing.T) {
	require.True(t, BillingCycleMonthly.Valid())
	require.True(t, BillingCycleQuarterly.Valid())
	require.True(t, BillingCycleYearly.Valid())
	require.False(t, BillingCycle("weekly").Valid())
	require.False(t, BillingCycle("").Valid())
}

func TestSubscriptionStatus_Values(t *testing.T) {
	require.Equal(t, SubscriptionStatus("active"), SubscriptionStatusActive)
	require.Equal(t, SubscriptionStatus("pending_approval"), SubscriptionStatusPendingApproval)
	require.Equal(t, SubscriptionStatus("cancelled"), SubscriptionStatusCancelled)
}
