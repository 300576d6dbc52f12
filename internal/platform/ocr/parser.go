package ocr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/subtrackhq/subtrack/pkg/types"
)

// FieldGuess is the coerced OCR output: a sparse pre-fill for the
// subscription intake form. Every field may be absent.
type FieldGuess struct {
	Name            string             `json:"name,omitempty"`
	VendorName      string             `json:"vendor_name,omitempty"`
	VendorContact   string             `json:"vendor_contact,omitempty"`
	Fee             *float64           `json:"fee,omitempty"`
	RenewalFee      *float64           `json:"renewal_fee,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	BillingCycle    types.BillingCycle `json:"billing_cycle,omitempty"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	NextRenewalDate string             `json:"next_renewal_date,omitempty"`
	StartDate       string             `json:"start_date,omitempty"`
	EndDate         string             `json:"end_date,omitempty"`
}

// ParseFieldGuess extracts the JSON object from a model response (which may
// be wrapped in a markdown code fence or prose) and coerces each field.
// Amounts arrive as strings or numbers; dates are kept only when they parse
// as YYYY-MM-DD; the billing cycle is kept only when it is a known value.
func ParseFieldGuess(text string) (*FieldGuess, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in OCR response")
	}

	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}

	g := &FieldGuess{
		Name:            asString(raw["name"]),
		VendorName:      asString(raw["vendor_name"]),
		VendorContact:   asString(raw["vendor_contact"]),
		Fee:             asAmount(raw["fee"]),
		RenewalFee:      asAmount(raw["renewal_fee"]),
		Currency:        asString(raw["currency"]),
		PaymentMethod:   asString(raw["payment_method"]),
		NextRenewalDate: asDate(raw["next_renewal_date"]),
		StartDate:       asDate(raw["start_date"]),
		EndDate:         asDate(raw["end_date"]),
	}
	if cycle := types.BillingCycle(strings.ToLower(asString(raw["billing_cycle"]))); cycle.Valid() {
		g.BillingCycle = cycle
	}
	return g, nil
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func asAmount(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		cleaned = strings.TrimLeft(cleaned, "$€£¥NT ")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f < 0 {
		return nil
	}
	return &f
}

func asDate(v any) string {
	s := asString(v)
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
