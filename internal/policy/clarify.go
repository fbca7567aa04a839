package policy

import (
	"strings"
	"unicode/utf8"
)

// clarificationMaxLen separates a short clarifying question from a full
// templated answer that merely ends in a question mark.
const clarificationMaxLen = 220

// IsClarificationQuestion reports whether a reply looks like the single
// clarifying question the model is allowed to ask: it ends with "?" and is
// short. The heuristic can misclassify; the stage machine caps the damage at
// one clarification round either way.
func IsClarificationQuestion(text string) bool {
	s := strings.TrimSpace(text)
	return strings.HasSuffix(s, "?") && utf8.RuneCountInString(s) < clarificationMaxLen
}
