package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/tool"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

var (
	// ErrNotFound is returned when the approval request or its subscription
	// does not exist.
	ErrNotFound = errors.New("approval request not found")
	// ErrAlreadyResolved is returned when resolving a request that has
	// already been approved or rejected. Resolution happens exactly once.
	ErrAlreadyResolved = errors.New("approval request already resolved")
	// ErrPendingExists is returned when a subscription already has an open
	// request; a second one cannot be submitted until it is resolved.
	ErrPendingExists = errors.New("subscription already has a pending approval request")
	// ErrSubscriptionNotFound is returned by Submit when the referenced
	// subscription does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Service is the approval workflow engine. Every subscription-affecting
// action (create, modify, cancel) passes through Submit, and Resolve applies
// the resulting subscription state transition atomically with the approval
// record update.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// NextSubscriptionStatus derives the subscription status that a resolution
// produces. The second return value is false when the status is left
// untouched (rejected modify/cancel).
//
//	approve + cancel          -> cancelled
//	approve + create/modify   -> active
//	reject  + create          -> cancelled (terminal; no path back to retry)
//	reject  + modify/cancel   -> unchanged
func NextSubscriptionStatus(t types.ApprovalType, approved bool) (types.SubscriptionStatus, bool) {
	if approved {
		if t == types.ApprovalTypeCancel {
			return types.SubscriptionStatusCancelled, true
		}
		return types.SubscriptionStatusActive, true
	}
	if t == types.ApprovalTypeCreate {
		return types.SubscriptionStatusCancelled, true
	}
	return "", false
}

// Submit opens a pending approval request for the subscription.
func (s *Service) Submit(ctx context.Context, subscriptionID string, t types.ApprovalType, requesterID, comment string) (*models.ApprovalRequest, error) {
	var req *models.ApprovalRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		req, err = s.SubmitTx(ctx, tx, subscriptionID, t, requesterID, comment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// SubmitTx is Submit inside an existing transaction; the subscription
// registry uses it to pair a create insert with its create-type request.
func (s *Service) SubmitTx(ctx context.Context, tx *gorm.DB, subscriptionID string, t types.ApprovalType, requesterID, comment string) (*models.ApprovalRequest, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid approval type: %s", t)
	}

	var sub models.Subscription
	if err := tx.WithContext(ctx).Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	var pending int64
	if err := tx.WithContext(ctx).Model(&models.ApprovalRequest{}).
		Where("subscription_id = ? AND status = ?", subscriptionID, types.ApprovalStatusPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending > 0 {
		return nil, ErrPendingExists
	}

	req := &models.ApprovalRequest{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: subscriptionID,
		Type:           t,
		RequesterID:    requesterID,
		Status:         types.ApprovalStatusPending,
		Comment:        comment,
	}
	if err := tx.WithContext(ctx).Create(req).Error; err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("approval submitted",
		"approval_id", req.ID, "subscription_id", subscriptionID, "type", t, "requester_id", requesterID)
	return req, nil
}

// ResolveResult carries the state after a resolution.
type ResolveResult struct {
	Request            *models.ApprovalRequest  `json:"request"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status"`
}

// Resolve approves or rejects a pending request and applies the subscription
// status transition. The approval update is conditional on the row still
// being pending, so concurrent resolvers cannot re-apply the side effect:
// the loser observes zero affected rows and gets ErrAlreadyResolved. All
// writes happen in a single transaction.
func (s *Service) Resolve(ctx context.Context, approvalID string, approve bool, approverID, comment string) (*ResolveResult, error) {
	var result *ResolveResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.ApprovalRequest
		if err := tx.WithContext(ctx).Where("id = ?", approvalID).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load approval request: %w", err)
		}
		if req.Resolved() {
			return ErrAlreadyResolved
		}

		status := types.ApprovalStatusApproved
		if !approve {
			status = types.ApprovalStatusRejected
		}
		now := time.Now()
		updates := map[string]any{
			"status":      status,
			"approver_id": approverID,
			"resolved_at": now,
		}
		if comment != "" {
			updates["comment"] = comment
		}
		res := tx.WithContext(ctx).Model(&models.ApprovalRequest{}).
			Where("id = ? AND status = ?", approvalID, types.ApprovalStatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update approval request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race to another resolver.
			return ErrAlreadyResolved
		}
		req.Status = status
		req.ApproverID = &approverID
		req.ResolvedAt = &now
		if comment != "" {
			req.Comment = comment
		}

		var sub models.Subscription
		if err := tx.WithContext(ctx).Where("id = ?", req.SubscriptionID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		if next, changed := NextSubscriptionStatus(req.Type, approve); changed && next != sub.Status {
			before := sub
			if err := tx.WithContext(ctx).Model(&models.Subscription{}).
				Where("id = ?", sub.ID).Update("status", next).Error; err != nil {
				return fmt.Errorf("failed to update subscription status: %w", err)
			}
			sub.Status = next

			changeLog := &models.SubscriptionChangeLog{
				ID:             tool.GenerateUUIDV7(),
				SubscriptionID: sub.ID,
				ActorID:        approverID,
				Reason:         types.SubscriptionChangeReasonApproval,
				Before:         datatypes.NewJSONType(&before),
				After:          datatypes.NewJSONType(&sub),
				Extra:          datatypes.JSONMap{"approval_id": req.ID, "approval_type": string(req.Type)},
			}
			if err := tx.WithContext(ctx).Create(changeLog).Error; err != nil {
				return fmt.Errorf("failed to save subscription change log: %w", err)
			}
		}

		notif := &models.Notification{
			ID:      tool.GenerateUUIDV7(),
			UserID:  req.RequesterID,
			Title:   notificationTitle(req.Type, approve),
			Message: fmt.Sprintf("Your %s request for %q was %s.", req.Type, sub.Name, status),
			Link:    "/subscriptions/" + sub.ID,
		}
		if err := tx.WithContext(ctx).Create(notif).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		result = &ResolveResult{Request: &req, SubscriptionStatus: sub.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("approval resolved",
		"approval_id", approvalID, "approved", approve, "approver_id", approverID,
		"subscription_status", result.SubscriptionStatus)
	return result, nil
}

func notificationTitle(t types.ApprovalType, approve bool) string {
	verb := "rejected"
	if approve {
		verb = "approved"
	}
	return fmt.Sprintf("Subscription %s request %s", t, verb)
}

// ListItem is an approval request joined with its subscription and
// requester, newest first.
type ListItem struct {
	models.ApprovalRequest
	Subscription *models.Subscription `json:"subscription"`
	Requester    *models.Profile      `json:"requester"`
}

// List returns all approval requests with related rows attached.
func (s *Service) List(ctx context.Context) ([]*ListItem, error) {
	var reqs []*models.ApprovalRequest
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	if len(reqs) == 0 {
		return []*ListItem{}, nil
	}

	subIDs := make([]string, 0, len(reqs))
	requesterIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		subIDs = append(subIDs, r.SubscriptionID)
		requesterIDs = append(requesterIDs, r.RequesterID)
	}

	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).Where("id IN ?", subIDs).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	subByID := make(map[string]*models.Subscription, len(subs))
	for _, sub := range subs {
		subByID[sub.ID] = sub
	}

	var profiles []*models.Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", requesterIDs).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load requesters: %w", err)
	}
	profileByID := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	items := make([]*ListItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, &ListItem{
			ApprovalRequest: *r,
			Subscription:    subByID[r.SubscriptionID],
			Requester:       profileByID[r.RequesterID],
		})
	}
	return items, nil
}
