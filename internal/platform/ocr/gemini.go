package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	cfgpkg "github.com/subtrackhq/subtrack/pkg/config"
	"github.com/subtrackhq/subtrack/pkg/logctx"
)

const scanPrompt = `You analyze screenshots of subscription services.
Extract the subscription details and return them as JSON with these fields
(use null for anything you cannot read):
{
  "name": "service name, e.g. Netflix, Spotify",
  "vendor_name": "vendor/company name",
  "vendor_contact": "contact email or URL",
  "fee": "amount actually paid this period; use the promotional price if one is shown",
  "renewal_fee": "regular price after the promotion ends, or null if there is no promotion",
  "currency": "ISO code such as TWD/USD/EUR/JPY",
  "billing_cycle": "monthly, quarterly or yearly",
  "payment_method": "payment method",
  "next_renewal_date": "YYYY-MM-DD",
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD"
}
Amounts must be plain numbers ("$12.99" becomes "12.99") and dates must be
YYYY-MM-DD. Return only the JSON, no other text.`

// Client wraps the Gemini API for subscription screenshot scanning. The
// response is a best-effort guess; callers must treat it as an untrusted
// partial patch and never rely on it to satisfy required fields.
type Client struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, log: log}
}

// Scan sends a base64 data-URL image to Gemini and returns the coerced
// field guess.
func (c *Client) Scan(ctx context.Context, image string) (*FieldGuess, error) {
	if c.cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	format, data, err := decodeImageDataURL(image)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.cfg.Gemini.Model)
	resp, err := model.GenerateContent(ctx,
		genai.Text(scanPrompt),
		genai.ImageData(format, data),
		genai.Text("Extract the subscription details from this screenshot. JSON only."),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := collectText(resp)
	guess, err := ParseFieldGuess(text)
	if err != nil {
		logctx.FromCtx(ctx, c.log).Warnw("ocr response not parseable", "err", err)
		return nil, err
	}
	return guess, nil
}

// decodeImageDataURL splits a data:image/...;base64 payload into the genai
// image format name and the raw bytes.
func decodeImageDataURL(image string) (string, []byte, error) {
	const prefix = "data:image/"
	if !strings.HasPrefix(image, prefix) {
		return "", nil, fmt.Errorf("invalid image format")
	}
	rest := image[len(prefix):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, fmt.Errorf("invalid image format")
	}
	format := rest[:sep]
	switch format {
	case "png", "jpeg", "jpg", "webp", "gif":
	default:
		return "", nil, fmt.Errorf("unsupported image type: %s", format)
	}
	data, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return format, data, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
