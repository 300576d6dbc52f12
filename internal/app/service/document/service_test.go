package document

import (
	"context"
	"strings"
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

func newDocumentService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.SubscriptionDocument{}))
	return NewService(db, zap.NewNop().Sugar()), db
}

func seedDocSubscription(t *testing.T, db *gorm.DB) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		Name:         "Figma",
		Fee:          144,
		Currency:     "USD",
		BillingCycle: types.BillingCycleYearly,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:      "member-1",
		Status:       types.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestUpload_StoresDocument(t *testing.T) {
	svc, db := newDocumentService(t)
	sub := seedDocSubscription(t, db)

	doc, err := svc.Upload(context.Background(), sub.ID, "data:application/pdf;base64,aGk=", "contract.pdf", "member-1")
	require.NoError(t, err)
	require.Equal(t, "contract.pdf", doc.FileName)
	require.Equal(t, "member-1", doc.UploadedBy)

	docs, err := svc.List(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestUpload_RejectsNonDataURL(t *testing.T) {
	svc, db := newDocumentService(t)
	sub := seedDocSubscription(t, db)

	_, err := svc.Upload(context.Background(), sub.ID, "https://example.com/contract.pdf", "contract.pdf", "member-1")
	require.ErrorIs(t, err, ErrInvalidFile)

	_, err = svc.Upload(context.Background(), sub.ID, "data:application/pdf;base64", "contract.pdf", "member-1")
	require.ErrorIs(t, err, ErrInvalidFile)
}

func TestUpload_SizeCapCountsPayloadOnly(t *testing.T) {
	svc, db := newDocumentService(t)
	sub := seedDocSubscription(t, db)

	// Largest admissible payload: floor(2MB * 4/3) base64 characters. The
	// data-URL header must not eat into the budget.
	maxPayload := MaxFileSize * 4 / 3
	file := "data:application/pdf;base64," + strings.Repeat("A", maxPayload)
	_, err := svc.Upload(context.Background(), sub.ID, file, "big.pdf", "member-1")
	require.NoError(t, err)

	over := "data:application/pdf;base64," + strings.Repeat("A", maxPayload+8)
	_, err = svc.Upload(context.Background(), sub.ID, over, "too-big.pdf", "member-1")
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUpload_UnknownSubscription(t *testing.T) {
	svc, _ := newDocumentService(t)
	_, err := svc.Upload(context.Background(), tool.GenerateUUIDV7(), "data:application/pdf;base64,aGk=", "contract.pdf", "member-1")
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}
