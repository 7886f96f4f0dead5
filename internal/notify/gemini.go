package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/product-advisor/internal/advisor"
	"github.com/dvloznov/product-advisor/internal/logger"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for message rewriting.
const DefaultModelName = "gemini-2.5-flash"

// Writer rewrites a templated push message for one recommendation.
// This interface enables mocking; the concrete implementation talks to
// Gemini.
type Writer interface {
	Compose(ctx context.Context, rec advisor.Recommendation, template string) (string, error)
}

// GeminiWriter is the concrete Writer backed by the Gemini API.
type GeminiWriter struct {
	model string
}

// NewGeminiWriter creates a writer using DefaultModelName.
func NewGeminiWriter() *GeminiWriter {
	return &GeminiWriter{model: DefaultModelName}
}

// Compose asks the model for a single-line rewrite of the templated
// message, keeping product, tone and the one-emoji convention.
func (w *GeminiWriter) Compose(ctx context.Context, rec advisor.Recommendation, template string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a bank marketing copywriter.\n\n"+
			"Rewrite the following push notification so it sounds natural and personal.\n"+
			"Rules:\n"+
			"- Keep the same language as the original text.\n"+
			"- Keep exactly one emoji at the start.\n"+
			"- Keep a clear call to action.\n"+
			"- At most %d characters.\n"+
			"- Output ONLY the rewritten message, a single line, no quotes.\n\n"+
			"Product: %s\n"+
			"Original: %s\n",
		MaxMessageLength, rec.Product, template,
	)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Compose: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, w.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Compose: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Compose: empty response from model")
	}
	return firstLine(text), nil
}

// Personalize renders the templated message and, when a writer is
// provided, lets it rewrite the text. A rewrite that errors or fails
// quality validation falls back to the template, so a flaky model can
// never block a batch.
func Personalize(ctx context.Context, writer Writer, rec advisor.Recommendation) string {
	log := logger.FromContext(ctx)
	template := Render(rec)
	if writer == nil {
		return template
	}

	rewritten, err := writer.Compose(ctx, rec, template)
	if err != nil {
		log.Warn().Err(err).Str("client_id", rec.ClientID).Msg("AI rewrite failed, using template")
		return template
	}
	if report := Validate(rewritten); !report.OK() {
		log.Warn().
			Str("client_id", rec.ClientID).
			Int("length", report.Length).
			Bool("has_emoji", report.HasEmoji).
			Bool("has_cta", report.HasCallToAction).
			Msg("AI rewrite failed quality checks, using template")
		return template
	}
	return rewritten
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
