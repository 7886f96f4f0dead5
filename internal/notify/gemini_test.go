package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/product-advisor/internal/advisor"
)

// mockWriter implements Writer with a configurable Compose function.
type mockWriter struct {
	composeFunc func(ctx context.Context, rec advisor.Recommendation, template string) (string, error)
	calls       int
}

func (m *mockWriter) Compose(ctx context.Context, rec advisor.Recommendation, template string) (string, error) {
	m.calls++
	return m.composeFunc(ctx, rec, template)
}

func TestPersonalize_NilWriterUsesTemplate(t *testing.T) {
	r := rec(advisor.TravelCard, nil)
	if got, want := Personalize(context.Background(), nil, r), Render(r); got != want {
		t.Errorf("Personalize = %q, want template %q", got, want)
	}
}

func TestPersonalize_AcceptsValidRewrite(t *testing.T) {
	rewrite := "🌍 Оформите карту для путешествий и получите кэшбэк!"
	writer := &mockWriter{
		composeFunc: func(_ context.Context, _ advisor.Recommendation, _ string) (string, error) {
			return rewrite, nil
		},
	}

	got := Personalize(context.Background(), writer, rec(advisor.TravelCard, nil))
	if got != rewrite {
		t.Errorf("Personalize = %q, want rewrite %q", got, rewrite)
	}
	if writer.calls != 1 {
		t.Errorf("Compose called %d times, want 1", writer.calls)
	}
}

func TestPersonalize_FallsBackOnError(t *testing.T) {
	writer := &mockWriter{
		composeFunc: func(_ context.Context, _ advisor.Recommendation, _ string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	r := rec(advisor.PremiumCard, nil)
	if got, want := Personalize(context.Background(), writer, r), Render(r); got != want {
		t.Errorf("Personalize = %q, want template fallback %q", got, want)
	}
}

func TestPersonalize_FallsBackOnFailedValidation(t *testing.T) {
	tests := []struct {
		name    string
		rewrite string
	}{
		{"no emoji", "Оформите карту прямо сейчас!"},
		{"no call to action", "🌍 Карта для путешествий."},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &mockWriter{
				composeFunc: func(_ context.Context, _ advisor.Recommendation, _ string) (string, error) {
					return tt.rewrite, nil
				},
			}
			r := rec(advisor.TravelCard, nil)
			if got, want := Personalize(context.Background(), writer, r), Render(r); got != want {
				t.Errorf("Personalize = %q, want template fallback %q", got, want)
			}
		})
	}
}

func TestPersonalize_PassesTemplateToWriter(t *testing.T) {
	r := rec(advisor.CashLoan, nil)
	var seen string
	writer := &mockWriter{
		composeFunc: func(_ context.Context, _ advisor.Recommendation, template string) (string, error) {
			seen = template
			return "", errors.New("ignore")
		},
	}

	Personalize(context.Background(), writer, r)
	if want := Render(r); seen != want {
		t.Errorf("writer saw template %q, want %q", seen, want)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"single line", "single line"},
		{"first\nsecond", "first"},
		{"first  \nsecond", "first"},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
