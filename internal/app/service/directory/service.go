package directory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/logctx"
	"github.com/subtrackhq/subtrack/pkg/tool"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrDepartmentNotFound = errors.New("department not found")
)

// Service owns profiles and departments: the who-is-who of the dashboard.
// Profiles appear lazily on a user's first authenticated call; roles and
// department membership are assigned by admins.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// EnsureProfile returns the profile for the identity, creating a member
// row on first sight. The id comes from the identity provider and is
// trusted as-is.
func (s *Service) EnsureProfile(ctx context.Context, id, email, displayName string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = models.Profile{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Role:        types.RoleMember,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("profile created", "profile_id", id)
	return &profile, nil
}

// GetProfile loads a profile by identity id.
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// ListProfiles returns all profiles, newest first.
func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// AssignProfile sets role and/or department for a profile (admin only,
// enforced by the caller).
func (s *Service) AssignProfile(ctx context.Context, id string, role types.Role, departmentID *string) (*models.Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	updates := map[string]any{"role": role}
	if departmentID == nil || *departmentID == "" {
		updates["department_id"] = nil
	} else {
		updates["department_id"] = *departmentID
	}

	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}

	logctx.FromCtx(ctx, s.log).Infow("profile assigned", "profile_id", id, "role", role)
	return s.GetProfile(ctx, id)
}

// ListDepartments returns all departments sorted by name.
func (s *Service) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	if err := s.db.WithContext(ctx).Order("name asc").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// CreateDepartment creates a department with a unique name.
func (s *Service) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	if name == "" {
		return nil, fmt.Errorf("department name required")
	}
	dept := &models.Department{ID: tool.GenerateUUIDV7(), Name: name}
	if err := s.db.WithContext(ctx).Create(dept).Error; err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

// RenameDepartment updates a department's name.
func (s *Service) RenameDepartment(ctx context.Context, id, name string) error {
	if name == "" {
		return fmt.Errorf("department name required")
	}
	res := s.db.WithContext(ctx).Model(&models.Department{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("failed to rename department: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// DeleteDepartment removes a department. Referencing profiles and
// subscriptions are detached, not deleted.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&models.Profile{}).
			Where("department_id = ?", id).Update("department_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach profiles: %w", err)
		}
		if err := tx.WithContext(ctx).Model(&models.Subscription{}).
			Where("department_id = ?", id).Update("department_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach subscriptions: %w", err)
		}
		res := tx.WithContext(ctx).Where("id = ?", id).Delete(&models.Department{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete department: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDepartmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("department deleted", "department_id", id)
	return nil
}
