package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	models "github.com/subtrackhq/subtrack/internal/models"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

func TestBuildSummary_NormalizesToMonthly(t *testing.T) {
	deptID := "dept-1"
	subs := []*models.Subscription{
		{Name: "Netflix", Fee: 100, BillingCycle: types.BillingCycleMonthly, BudgetCategory: "entertainment"},
		{Name: "Figma", Fee: 1200, BillingCycle: types.BillingCycleYearly, BudgetCategory: "design", DepartmentID: &deptID},
		{Name: "Notion", Fee: 300, BillingCycle: types.BillingCycleQuarterly},
	}
	summary := BuildSummary(subs, map[string]string{"dept-1": "Design"})

	require.Equal(t, 3, summary.ActiveCount)
	require.InDelta(t, 300.0, summary.MonthlyTotal, 1e-9)
	require.InDelta(t, 3600.0, summary.YearlyTotal, 1e-9)

	byCategory := map[string]float64{}
	for _, c := range summary.ByCategory {
		byCategory[c.Name] = c.Amount
	}
	require.InDelta(t, 100.0, byCategory["entertainment"], 1e-9)
	require.InDelta(t, 100.0, byCategory["design"], 1e-9)
	require.InDelta(t, 100.0, byCategory["uncategorized"], 1e-9)

	byDept := map[string]float64{}
	for _, d := range summary.ByDepartment {
		byDept[d.Name] = d.Amount
	}
	require.InDelta(t, 100.0, byDept["Design"], 1e-9)
	require.InDelta(t, 200.0, byDept["unassigned"], 1e-9)
}

func TestBuildSummary_Empty(t *testing.T) {
	summary := BuildSummary(nil, nil)
	require.Equal(t, 0, summary.ActiveCount)
	require.Zero(t, summary.MonthlyTotal)
	require.Empty(t, summary.ByCategory)
	require.Empty(t, summary.ByDepartment)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []*models.Subscription{
		{Name: "Netflix", Fee: 390, Currency: "TWD", BillingCycle: types.BillingCycleMonthly, BudgetCategory: "entertainment"},
		{Name: "Slack, Inc.", Fee: 8.5, Currency: "USD", BillingCycle: types.BillingCycleMonthly},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	body := string(out[len(utf8BOM):])
	require.Equal(t,
		"name,fee,currency,billing_cycle,budget_category\n"+
			"Netflix,390.00,TWD,monthly,entertainment\n"+
			"\"Slack, Inc.\",8.50,USD,monthly,\n",
		body)
}
