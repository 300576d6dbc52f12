package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	models "github.com/subtrackhq/subtrack/internal/models"
	types "github.com/subtrackhq/subtrack/pkg/types"
)

func validCreateInput() *CreateInput {
	return &CreateInput{
		Name:         "Netflix",
		Fee:          390,
		Currency:     "TWD",
		BillingCycle: types.BillingCycleMonthly,
		StartDate:    "2025-01-01",
	}
}

func TestCreateInput_Validate_OK(t *testing.T) {
	require.NoError(t, validCreateInput().validate())
}

func TestCreateInput_Validate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *CreateInput)
		field  string
	}{
		{"missing name", func(in *CreateInput) { in.Name = "" }, "name"},
		{"negative fee", func(in *CreateInput) { in.Fee = -1 }, "fee"},
		{"bad cycle", func(in *CreateInput) { in.BillingCycle = "weekly" }, "billing_cycle"},
		{"missing start date", func(in *CreateInput) { in.StartDate = "" }, "start_date"},
		{"malformed start date", func(in *CreateInput) { in.StartDate = "01/01/2025" }, "start_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(in)
			err := in.validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestUpdateInput_Validate_SparseFieldsOnly(t *testing.T) {
	// An empty patch is valid; only present fields are checked.
	require.NoError(t, (&UpdateInput{}).validate())

	bad := "weekly"
	err := (&UpdateInput{BillingCycle: (*types.BillingCycle)(&bad)}).validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "billing_cycle", verr.Field)

	empty := ""
	err = (&UpdateInput{Name: &empty}).validate()
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Field)
}

func TestApplyPatch(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2024-06-01")
	sub := models.Subscription{
		Name:         "Figma",
		Fee:          144,
		Currency:     "USD",
		BillingCycle: types.BillingCycleYearly,
		Status:       types.SubscriptionStatusActive,
		StartDate:    start,
	}

	newFee := 180.0
	newName := "Figma Org"
	endDate := "2026-05-31"
	detach := ""
	applyPatch(&sub, &UpdateInput{
		Name:         &newName,
		Fee:          &newFee,
		EndDate:      &endDate,
		DepartmentID: &detach,
	})

	require.Equal(t, "Figma Org", sub.Name)
	require.InDelta(t, 180.0, sub.Fee, 1e-9)
	require.Equal(t, types.BillingCycleYearly, sub.BillingCycle)
	require.NotNil(t, sub.EndDate)
	require.Equal(t, "2026-05-31", sub.EndDate.Format("2006-01-02"))
	// Empty department id detaches instead of storing "".
	require.Nil(t, sub.DepartmentID)
}

func TestParseDatePtr(t *testing.T) {
	require.Nil(t, parseDatePtr(""))
	require.Nil(t, parseDatePtr("not-a-date"))
	d := parseDatePtr("2025-03-15")
	require.NotNil(t, d)
	require.Equal(t, "2025-03-15", d.Format("2006-01-02"))
}
