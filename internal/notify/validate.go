package notify

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the push-notification length budget in runes.
const MaxMessageLength = 220

// ctaMarkers are lower-case fragments that count as a call to action.
var ctaMarkers = []string{
	"оформите", "откройте", "подключите", "получите",
	"одобрение", "доступ", "кэшбэк", "выгод",
}

// QualityReport is the outcome of validating one rendered message.
type QualityReport struct {
	Length          int
	WithinLength    bool
	HasEmoji        bool
	HasCallToAction bool
}

// OK reports whether the message passed every check.
func (r QualityReport) OK() bool {
	return r.WithinLength && r.HasEmoji && r.HasCallToAction
}

// Validate runs the quality checks on a rendered push message: length
// within budget, at least one emoji, and a recognizable call to
// action. Validation is advisory; callers log failures rather than
// suppressing the message.
func Validate(msg string) QualityReport {
	length := utf8.RuneCountInString(msg)
	return QualityReport{
		Length:          length,
		WithinLength:    length > 0 && length <= MaxMessageLength,
		HasEmoji:        hasEmoji(msg),
		HasCallToAction: hasCallToAction(msg),
	}
}

func hasEmoji(msg string) bool {
	for _, r := range msg {
		// Covers the pictograph and symbol blocks the templates use.
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			return true
		}
	}
	return false
}

func hasCallToAction(msg string) bool {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "!") {
		return true
	}
	for _, marker := range ctaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
