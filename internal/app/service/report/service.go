package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/subtrackhq/subtrack/internal/models"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

// utf8BOM makes spreadsheet tools detect the encoding of exported CSVs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeader is the export column contract.
var CSVHeader = []string{"name", "fee", "currency", "billing_cycle", "budget_category"}

// Service produces spend rollups and the CSV export over active
// subscriptions. All amounts are monthly equivalents (see
// types.BillingCycle.MonthlyAmount); correctness of every number here
// depends on that normalization.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CategorySpend struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type DepartmentSpend struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	ActiveCount  int               `json:"active_count"`
	MonthlyTotal float64           `json:"monthly_total"`
	YearlyTotal  float64           `json:"yearly_total"`
	ByCategory   []CategorySpend   `json:"by_category"`
	ByDepartment []DepartmentSpend `json:"by_department"`
}

// Summarize loads active subscriptions and rolls them up.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	var departments []*models.Department
	if err := s.db.WithContext(ctx).Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}
	deptNames := lo.SliceToMap(departments, func(d *models.Department) (string, string) {
		return d.ID, d.Name
	})

	return BuildSummary(subs, deptNames), nil
}

// BuildSummary is the pure rollup over a set of active subscriptions.
func BuildSummary(subs []*models.Subscription, deptNames map[string]string) *Summary {
	summary := &Summary{
		ActiveCount:  len(subs),
		ByCategory:   []CategorySpend{},
		ByDepartment: []DepartmentSpend{},
	}

	byCategory := map[string]float64{}
	byDepartment := map[string]float64{}
	for _, sub := range subs {
		monthly := sub.MonthlyFee()
		summary.MonthlyTotal += monthly

		category := sub.BudgetCategory
		if category == "" {
			category = "uncategorized"
		}
		byCategory[category] += monthly

		dept := "unassigned"
		if sub.DepartmentID != nil {
			if name, ok := deptNames[*sub.DepartmentID]; ok {
				dept = name
			}
		}
		byDepartment[dept] += monthly
	}
	summary.YearlyTotal = summary.MonthlyTotal * 12

	summary.ByCategory = lo.MapToSlice(byCategory, func(name string, amount float64) CategorySpend {
		return CategorySpend{Name: name, Amount: amount}
	})
	summary.ByDepartment = lo.MapToSlice(byDepartment, func(name string, amount float64) DepartmentSpend {
		return DepartmentSpend{Name: name, Amount: amount}
	})
	return summary
}

// WriteCSV streams the export for the given subscriptions: a UTF-8 BOM,
// the header row, then one row per subscription with the raw per-cycle fee.
func WriteCSV(w io.Writer, subs []*models.Subscription) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, sub := range subs {
		row := []string{
			sub.Name,
			strconv.FormatFloat(sub.Fee, 'f', 2, 64),
			sub.Currency,
			string(sub.BillingCycle),
			sub.BudgetCategory,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportActive writes the CSV export of all active subscriptions.
func (s *Service) ExportActive(ctx context.Context, w io.Writer) error {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Order("created_at desc").Find(&subs).Error; err != nil {
		return fmt.Errorf("failed to load active subscriptions: %w", err)
	}
	return WriteCSV(w, subs)
}
