package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/tool"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

var (
	// ErrNotFound is returned when the subscription does not exist.
	ErrNotFound = errors.New("subscription not found")
)

// ValidationError marks a rejected create/update before any write happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Service is the subscription registry: it owns the canonical record and
// its field-level mutation contract. Creation always pairs the insert with
// a create-type approval request; direct updates are the manager/admin
// override path and are fully audited.
type Service struct {
	db          *gorm.DB
	log         *zap.SugaredLogger
	approvalSvc *approval.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, approvalSvc *approval.Service) *Service {
	return &Service{db: db, log: log, approvalSvc: approvalSvc}
}

// CreateInput carries the writable fields of a new subscription. Status is
// deliberately absent: the stored row is always pending_approval.
type CreateInput struct {
	Name            string             `json:"name"`
	VendorName      string             `json:"vendor_name"`
	VendorContact   string             `json:"vendor_contact"`
	Fee             float64            `json:"fee"`
	RenewalFee      *float64           `json:"renewal_fee"`
	Currency        string             `json:"currency"`
	BillingCycle    types.BillingCycle `json:"billing_cycle"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	NextRenewalDate string             `json:"next_renewal_date"`
	PaymentMethod   string             `json:"payment_method"`
	InvoiceRequired bool               `json:"invoice_required"`
	CostCenter      string             `json:"cost_center"`
	BudgetCategory  string             `json:"budget_category"`
	DepartmentID    *string            `json:"department_id"`
	Comment         string             `json:"comment"`
}

func (in *CreateInput) validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.Fee < 0 {
		return &ValidationError{Field: "fee", Reason: "must not be negative"}
	}
	if !in.BillingCycle.Valid() {
		return &ValidationError{Field: "billing_cycle", Reason: "must be monthly, quarterly or yearly"}
	}
	if in.StartDate == "" {
		return &ValidationError{Field: "start_date", Reason: "required"}
	}
	if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		return &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

// CreateResult pairs the stored subscription with its create-type request.
type CreateResult struct {
	Subscription *models.Subscription    `json:"subscription"`
	Approval     *models.ApprovalRequest `json:"approval"`
}

// Create validates the input, inserts the subscription with status forced to
// pending_approval, and opens the create-type approval request in the same
// transaction.
func (s *Service) Create(ctx context.Context, in *CreateInput, ownerID string) (*CreateResult, error) {
	if in == nil {
		return nil, &ValidationError{Field: "body", Reason: "required"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	startDate, _ := time.Parse("2006-01-02", in.StartDate)
	currency := in.Currency
	if currency == "" {
		currency = "TWD"
	}

	sub := &models.Subscription{
		ID:              tool.GenerateUUIDV7(),
		Name:            in.Name,
		VendorName:      in.VendorName,
		VendorContact:   in.VendorContact,
		Fee:             in.Fee,
		RenewalFee:      in.RenewalFee,
		Currency:        currency,
		BillingCycle:    in.BillingCycle,
		StartDate:       startDate,
		EndDate:         parseDatePtr(in.EndDate),
		NextRenewalDate: parseDatePtr(in.NextRenewalDate),
		PaymentMethod:   in.PaymentMethod,
		InvoiceRequired: in.InvoiceRequired,
		CostCenter:      in.CostCenter,
		BudgetCategory:  in.BudgetCategory,
		DepartmentID:    in.DepartmentID,
		OwnerID:         ownerID,
		Status:          types.SubscriptionStatusPendingApproval,
	}

	var req *models.ApprovalRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		changeLog := &models.SubscriptionChangeLog{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: sub.ID,
			ActorID:        ownerID,
			Reason:         types.SubscriptionChangeReasonCreate,
			After:          datatypes.NewJSONType(sub),
			Extra:          datatypes.JSONMap{},
		}
		if err := tx.WithContext(ctx).Create(changeLog).Error; err != nil {
			return fmt.Errorf("failed to save subscription change log: %w", err)
		}

		var err error
		req, err = s.approvalSvc.SubmitTx(ctx, tx, sub.ID, types.ApprovalTypeCreate, ownerID, in.Comment)
		return err
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription created",
		"subscription_id", sub.ID, "owner_id", ownerID, "approval_id", req.ID)
	return &CreateResult{Subscription: sub, Approval: req}, nil
}

// UpdateInput is a sparse patch; nil fields are left untouched. Status is
// included because direct status edits are the documented admin override.
type UpdateInput struct {
	Name            *string                   `json:"name"`
	VendorName      *string                   `json:"vendor_name"`
	VendorContact   *string                   `json:"vendor_contact"`
	Fee             *float64                  `json:"fee"`
	RenewalFee      *float64                  `json:"renewal_fee"`
	Currency        *string                   `json:"currency"`
	BillingCycle    *types.BillingCycle       `json:"billing_cycle"`
	Status          *types.SubscriptionStatus `json:"status"`
	StartDate       *string                   `json:"start_date"`
	EndDate         *string                   `json:"end_date"`
	NextRenewalDate *string                   `json:"next_renewal_date"`
	PaymentMethod   *string                   `json:"payment_method"`
	InvoiceRequired *bool                     `json:"invoice_required"`
	CostCenter      *string                   `json:"cost_center"`
	BudgetCategory  *string                   `json:"budget_category"`
	DepartmentID    *string                   `json:"department_id"`
}

func (in *UpdateInput) validate() error {
	if in.Name != nil && *in.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if in.Fee != nil && *in.Fee < 0 {
		return &ValidationError{Field: "fee", Reason: "must not be negative"}
	}
	if in.BillingCycle != nil && !in.BillingCycle.Valid() {
		return &ValidationError{Field: "billing_cycle", Reason: "must be monthly, quarterly or yearly"}
	}
	if in.StartDate != nil && *in.StartDate != "" {
		if _, err := time.Parse("2006-01-02", *in.StartDate); err != nil {
			return &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}

// Update applies a sparse patch as the acting manager/admin. A fee change
// appends a SubscriptionHistory row in the same transaction, and every
// update writes a Before/After change log entry.
func (s *Service) Update(ctx context.Context, id string, in *UpdateInput, actorID string) (*models.Subscription, error) {
	if in == nil {
		return nil, &ValidationError{Field: "body", Reason: "required"}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Subscription
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		next := original
		applyPatch(&next, in)
		next.UpdatedAt = time.Now()

		if err := tx.WithContext(ctx).Save(&next).Error; err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}

		if in.Fee != nil && *in.Fee != original.Fee {
			history := &models.SubscriptionHistory{
				ID:             tool.GenerateUUIDV7(),
				SubscriptionID: original.ID,
				OldFee:         original.Fee,
				NewFee:         *in.Fee,
				ChangedAt:      time.Now(),
				ChangedBy:      actorID,
			}
			if err := tx.WithContext(ctx).Create(history).Error; err != nil {
				return fmt.Errorf("failed to save fee history: %w", err)
			}
		}

		changeLog := &models.SubscriptionChangeLog{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: original.ID,
			ActorID:        actorID,
			Reason:         types.SubscriptionChangeReasonDirectEdit,
			Before:         datatypes.NewJSONType(&original),
			After:          datatypes.NewJSONType(&next),
			Extra:          datatypes.JSONMap{},
		}
		if err := tx.WithContext(ctx).Create(changeLog).Error; err != nil {
			return fmt.Errorf("failed to save subscription change log: %w", err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription updated", "subscription_id", id, "actor_id", actorID)
	return updated, nil
}

func applyPatch(sub *models.Subscription, in *UpdateInput) {
	if in.Name != nil {
		sub.Name = *in.Name
	}
	if in.VendorName != nil {
		sub.VendorName = *in.VendorName
	}
	if in.VendorContact != nil {
		sub.VendorContact = *in.VendorContact
	}
	if in.Fee != nil {
		sub.Fee = *in.Fee
	}
	if in.RenewalFee != nil {
		sub.RenewalFee = in.RenewalFee
	}
	if in.Currency != nil {
		sub.Currency = *in.Currency
	}
	if in.BillingCycle != nil {
		sub.BillingCycle = *in.BillingCycle
	}
	if in.Status != nil {
		sub.Status = *in.Status
	}
	if in.StartDate != nil {
		if d := parseDatePtr(*in.StartDate); d != nil {
			sub.StartDate = *d
		}
	}
	if in.EndDate != nil {
		sub.EndDate = parseDatePtr(*in.EndDate)
	}
	if in.NextRenewalDate != nil {
		sub.NextRenewalDate = parseDatePtr(*in.NextRenewalDate)
	}
	if in.PaymentMethod != nil {
		sub.PaymentMethod = *in.PaymentMethod
	}
	if in.InvoiceRequired != nil {
		sub.InvoiceRequired = *in.InvoiceRequired
	}
	if in.CostCenter != nil {
		sub.CostCenter = *in.CostCenter
	}
	if in.BudgetCategory != nil {
		sub.BudgetCategory = *in.BudgetCategory
	}
	if in.DepartmentID != nil {
		if *in.DepartmentID == "" {
			sub.DepartmentID = nil
		} else {
			sub.DepartmentID = in.DepartmentID
		}
	}
}

func parseDatePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &d
}

// Get returns a single subscription by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// ListFilter narrows List results. Status is optional.
type ListFilter struct {
	Status types.SubscriptionStatus
}

// List returns subscriptions visible to the caller, newest first. Members
// only see rows they own; managers and admins see everything.
func (s *Service) List(ctx context.Context, caller *models.Profile, filter ListFilter) ([]*models.Subscription, error) {
	q := s.db.WithContext(ctx).Model(&models.Subscription{})
	if caller == nil || !caller.Role.SeesAllSubscriptions() {
		ownerID := ""
		if caller != nil {
			ownerID = caller.ID
		}
		q = q.Where("owner_id = ?", ownerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var subs []*models.Subscription
	if err := q.Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// ListActive returns every active subscription; the reporting layer rolls
// these up regardless of ownership.
func (s *Service) ListActive(ctx context.Context) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return subs, nil
}

// History returns the fee change audit rows for a subscription, newest
// first.
func (s *Service) History(ctx context.Context, subscriptionID string) ([]*models.SubscriptionHistory, error) {
	var rows []*models.SubscriptionHistory
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("changed_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load fee history: %w", err)
	}
	return rows, nil
}

// Scan request/response for the admin search page.
type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.Subscription `json:"items"`
	Total int64                  `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// Scan implements paginated/filtered listing for admin pages.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}

	var rows []*models.Subscription
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan subscriptions: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
