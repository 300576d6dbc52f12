package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"

	types "github.com/subtrackhq/subtrack/pkg/types"
)

func TestParseFieldGuess_FencedJSON(t *testing.T) {
	text := "Here is the extraction:\n```json\n{\n" +
		`  "name": "Netflix",` + "\n" +
		`  "vendor_name": "Netflix, Inc.",` + "\n" +
		`  "fee": "$12.99",` + "\n" +
		`  "renewal_fee": 15.49,` + "\n" +
		`  "currency": "USD",` + "\n" +
		`  "billing_cycle": "Monthly",` + "\n" +
		`  "next_renewal_date": "2025-02-01"` + "\n" +
		"}\n```"

	g, err := ParseFieldGuess(text)
	require.NoError(t, err)
	require.Equal(t, "Netflix", g.Name)
	require.Equal(t, "Netflix, Inc.", g.VendorName)
	require.NotNil(t, g.Fee)
	require.InDelta(t, 12.99, *g.Fee, 1e-9)
	require.NotNil(t, g.RenewalFee)
	require.InDelta(t, 15.49, *g.RenewalFee, 1e-9)
	require.Equal(t, "USD", g.Currency)
	require.Equal(t, types.BillingCycleMonthly, g.BillingCycle)
	require.Equal(t, "2025-02-01", g.NextRenewalDate)
}

func TestParseFieldGuess_DropsUnusableValues(t *testing.T) {
	g, err := ParseFieldGuess(`{"name": "Spotify", "fee": "free", "billing_cycle": "weekly", "start_date": "01/02/2025", "renewal_fee": "-5"}`)
	require.NoError(t, err)
	require.Equal(t, "Spotify", g.Name)
	require.Nil(t, g.Fee)
	require.Nil(t, g.RenewalFee)
	require.Empty(t, g.BillingCycle)
	require.Empty(t, g.StartDate)
}

func TestParseFieldGuess_NullsAndThousandsSeparator(t *testing.T) {
	g, err := ParseFieldGuess(`{"name": null, "fee": "NT$1,200", "currency": "TWD", "billing_cycle": "yearly"}`)
	require.NoError(t, err)
	require.Empty(t, g.Name)
	require.NotNil(t, g.Fee)
	require.InDelta(t, 1200.0, *g.Fee, 1e-9)
	require.Equal(t, types.BillingCycleYearly, g.BillingCycle)
}

func TestParseFieldGuess_NoJSON(t *testing.T) {
	_, err := ParseFieldGuess("I could not read the screenshot, sorry.")
	require.Error(t, err)
}

func TestDecodeImageDataURL(t *testing.T) {
	// "hi" base64-encoded
	format, data, err := decodeImageDataURL("data:image/png;base64,aGk=")
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, []byte("hi"), data)

	_, _, err = decodeImageDataURL("data:application/pdf;base64,aGk=")
	require.Error(t, err)

	_, _, err = decodeImageDataURL("data:image/png;base64,!!!")
	require.Error(t, err)

	_, _, err = decodeImageDataURL("not a data url")
	require.Error(t, err)
}
