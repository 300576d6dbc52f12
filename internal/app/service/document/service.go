package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/tool"
)

// MaxFileSize caps the decoded upload size. Documents are stored inline as
// base64 data URLs; there is no external object store.
const MaxFileSize = 2 * 1024 * 1024

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidFile          = errors.New("invalid file format")
	ErrFileTooLarge         = errors.New("file too large (max 2MB)")
)

// Service stores contract documents attached to subscriptions. Documents
// are append-only; they disappear only when their subscription is deleted.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Upload validates and stores a base64 data-URL file.
func (s *Service) Upload(ctx context.Context, subscriptionID, file, fileName, uploadedBy string) (*models.SubscriptionDocument, error) {
	if subscriptionID == "" || file == "" || fileName == "" {
		return nil, fmt.Errorf("subscription id, file and file name required")
	}
	if !strings.HasPrefix(file, "data:") {
		return nil, ErrInvalidFile
	}
	sep := strings.IndexByte(file, ',')
	if sep < 0 {
		return nil, ErrInvalidFile
	}
	// Approximate decoded size: base64 carries 3 bytes per 4 characters,
	// counting only the payload after the data-URL header.
	if float64(len(file)-sep-1)*0.75 > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	doc := &models.SubscriptionDocument{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: subscriptionID,
		FileURL:        file,
		FileName:       fileName,
		UploadedBy:     uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("document uploaded",
		"document_id", doc.ID, "subscription_id", subscriptionID, "file_name", fileName)
	return doc, nil
}

// List returns the documents of a subscription, newest first.
func (s *Service) List(ctx context.Context, subscriptionID string) ([]*models.SubscriptionDocument, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription id required")
	}
	var docs []*models.SubscriptionDocument
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at desc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
