package approval

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/tool"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

func TestNextSubscriptionStatus(t *testing.T) {
	cases := []struct {
		name     string
		typ      types.ApprovalType
		approved bool
		want     types.SubscriptionStatus
		changed  bool
	}{
		{"approve create", types.ApprovalTypeCreate, true, types.SubscriptionStatusActive, true},
		{"approve modify", types.ApprovalTypeModify, true, types.SubscriptionStatusActive, true},
		{"approve cancel", types.ApprovalTypeCancel, true, types.SubscriptionStatusCancelled, true},
		{"reject create", types.ApprovalTypeCreate, false, types.SubscriptionStatusCancelled, true},
		{"reject modify", types.ApprovalTypeModify, false, "", false},
		{"reject cancel", types.ApprovalTypeCancel, false, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := NextSubscriptionStatus(tc.typ, tc.approved)
			require.Equal(t, tc.changed, changed)
			if tc.changed {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestNotificationTitle(t *testing.T) {
	require.Equal(t, "Subscription cancel request approved", notificationTitle(types.ApprovalTypeCancel, true))
	require.Equal(t, "Subscription create request rejected", notificationTitle(types.ApprovalTypeCreate, false))
}

func newWorkflowService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Subscription{},
		&models.ApprovalRequest{},
		&models.SubscriptionChangeLog{},
		&models.Notification{},
	))
	return NewService(db, zap.NewNop().Sugar()), db
}

func seedSubscription(t *testing.T, db *gorm.DB, status types.SubscriptionStatus) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		Name:         "Netflix",
		Fee:          390,
		Currency:     "TWD",
		BillingCycle: types.BillingCycleMonthly,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:      "member-1",
		Status:       status,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestResolve_ApproveCreateActivates(t *testing.T) {
	svc, db := newWorkflowService(t)
	ctx := context.Background()
	sub := seedSubscription(t, db, types.SubscriptionStatusPendingApproval)

	req, err := svc.Submit(ctx, sub.ID, types.ApprovalTypeCreate, "member-1", "new tool")
	require.NoError(t, err)
	require.Equal(t, types.ApprovalStatusPending, req.Status)

	res, err := svc.Resolve(ctx, req.ID, true, "manager-1", "looks fine")
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, res.SubscriptionStatus)
	require.Equal(t, types.ApprovalStatusApproved, res.Request.Status)

	var stored models.ApprovalRequest
	require.NoError(t, db.Where("id = ?", req.ID).First(&stored).Error)
	require.Equal(t, types.ApprovalStatusApproved, stored.Status)
	require.NotNil(t, stored.ApproverID)
	require.Equal(t, "manager-1", *stored.ApproverID)
	require.NotNil(t, stored.ResolvedAt)

	var storedSub models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&storedSub).Error)
	require.Equal(t, types.SubscriptionStatusActive, storedSub.Status)

	var logs int64
	require.NoError(t, db.Model(&models.SubscriptionChangeLog{}).
		Where("subscription_id = ?", sub.ID).Count(&logs).Error)
	require.EqualValues(t, 1, logs)

	var notif models.Notification
	require.NoError(t, db.Where("user_id = ?", "member-1").First(&notif).Error)
	require.Contains(t, notif.Message, "approved")
}

func TestResolve_SecondResolveFailsWithoutStateChange(t *testing.T) {
	svc, db := newWorkflowService(t)
	ctx := context.Background()
	sub := seedSubscription(t, db, types.SubscriptionStatusPendingApproval)

	req, err := svc.Submit(ctx, sub.ID, types.ApprovalTypeCreate, "member-1", "")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, req.ID, true, "manager-1", "")
	require.NoError(t, err)

	// Second resolution loses, even with the opposite decision.
	_, err = svc.Resolve(ctx, req.ID, false, "admin-1", "changed my mind")
	require.ErrorIs(t, err, ErrAlreadyResolved)

	var stored models.ApprovalRequest
	require.NoError(t, db.Where("id = ?", req.ID).First(&stored).Error)
	require.Equal(t, types.ApprovalStatusApproved, stored.Status)
	require.Equal(t, "manager-1", *stored.ApproverID)

	var storedSub models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&storedSub).Error)
	require.Equal(t, types.SubscriptionStatusActive, storedSub.Status)
}

func TestResolve_ApproveCancelCancels(t *testing.T) {
	svc, db := newWorkflowService(t)
	ctx := context.Background()
	sub := seedSubscription(t, db, types.SubscriptionStatusActive)

	req, err := svc.Submit(ctx, sub.ID, types.ApprovalTypeCancel, "member-1", "unused")
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, req.ID, true, "manager-1", "")
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusCancelled, res.SubscriptionStatus)

	var storedSub models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&storedSub).Error)
	require.Equal(t, types.SubscriptionStatusCancelled, storedSub.Status)
}

func TestResolve_RejectedCancelLeavesSubscriptionActive(t *testing.T) {
	svc, db := newWorkflowService(t)
	ctx := context.Background()
	sub := seedSubscription(t, db, types.SubscriptionStatusActive)

	req, err := svc.Submit(ctx, sub.ID, types.ApprovalTypeCancel, "member-1", "")
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, req.ID, false, "manager-1", "still needed")
	require.NoError(t, err)
	require.Equal(t, types.SubscriptionStatusActive, res.SubscriptionStatus)
	require.Equal(t, types.ApprovalStatusRejected, res.Request.Status)

	var storedSub models.Subscription
	require.NoError(t, db.Where("id = ?", sub.ID).First(&storedSub).Error)
	require.Equal(t, types.SubscriptionStatusActive, storedSub.Status)

	// No status change means no change log entry either.
	var logs int64
	require.NoError(t, db.Model(&models.SubscriptionChangeLog{}).
		Where("subscription_id = ?", sub.ID).Count(&logs).Error)
	require.EqualValues(t, 0, logs)
}

func TestResolve_UnknownRequest(t *testing.T) {
	svc, _ := newWorkflowService(t)
	_, err := svc.Resolve(context.Background(), tool.GenerateUUIDV7(), true, "manager-1", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_RefusesSecondPendingRequest(t *testing.T) {
	svc, db := newWorkflowService(t)
	ctx := context.Background()
	sub := seedSubscription(t, db, types.SubscriptionStatusActive)

	_, err := svc.Submit(ctx, sub.ID, types.ApprovalTypeModify, "member-1", "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sub.ID, types.ApprovalTypeCancel, "member-2", "")
	require.ErrorIs(t, err, ErrPendingExists)
}

func TestSubmit_UnknownSubscription(t *testing.T) {
	svc, _ := newWorkflowService(t)
	_, err := svc.Submit(context.Background(), tool.GenerateUUIDV7(), types.ApprovalTypeCancel, "member-1", "")
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}
