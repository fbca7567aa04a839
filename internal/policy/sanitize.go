package policy

import (
	"strings"

	"github.com/correia-crespo/triagem/internal/models"
)

const (
	// MaxMessages bounds the context window forwarded upstream.
	MaxMessages = 6
	// MaxCharsPerMessage bounds each message before the ellipsis marker.
	MaxCharsPerMessage = 900
)

// Verdict is the gateway's decision over an incoming message list.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedEmpty
	RejectedMalformed
	RejectedPII
)

// Truncate trims s and caps it at max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	t := strings.TrimSpace(s)
	runes := []rune(t)
	if len(runes) <= max {
		return t
	}
	return string(runes[:max]) + "…"
}

// Sanitize drops entries whose role is not user/assistant or whose content is
// empty after trimming, truncates survivors to MaxCharsPerMessage and keeps
// only the trailing MaxMessages entries. The result may be empty.
func Sanitize(messages []models.Message) []models.Message {
	cleaned := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		content := Truncate(m.Content, MaxCharsPerMessage)
		if content == "" {
			continue
		}
		cleaned = append(cleaned, models.Message{Role: m.Role, Content: content})
	}
	if len(cleaned) > MaxMessages {
		cleaned = cleaned[len(cleaned)-MaxMessages:]
	}
	return cleaned
}

// Evaluate is the authoritative server-side validation: sanitize the list,
// then scan every user message with the detector. The returned slice is only
// meaningful when the verdict is Accepted.
func Evaluate(messages []models.Message, detector Detector) ([]models.Message, Verdict) {
	if len(messages) == 0 {
		return nil, RejectedEmpty
	}
	cleaned := Sanitize(messages)
	if len(cleaned) == 0 {
		return nil, RejectedMalformed
	}
	for _, m := range cleaned {
		if m.Role == models.RoleUser && detector.Detect(m.Content) {
			return nil, RejectedPII
		}
	}
	return cleaned, Accepted
}
