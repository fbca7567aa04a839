// Package policy holds the pure text-policy rules shared by the triage
// widget and the gateway: the PII heuristic, message sanitation, the reply
// post-processing passes and the clarification detector.
//
// The gateway copy of every check is authoritative; the widget runs the same
// functions as an advisory fast path so that obviously rejected input never
// produces a network call.
package policy

import "regexp"

// PIIKind classifies the kind of identifying data found.
type PIIKind string

const (
	PIIEmail PIIKind = "email"
	PIIPhone PIIKind = "phone"
	PIINIF   PIIKind = "nif"
	PIIIBAN  PIIKind = "iban"
)

// Detector reports whether free text contains personally identifying
// strings. Implementations must be safe for concurrent use.
type Detector interface {
	Detect(text string) bool
	Findings(text string) []PIIKind
}

// pattern pairs a compiled regex with the PII kind it identifies.
type pattern struct {
	re   *regexp.Regexp
	kind PIIKind
}

// RegexDetector is the pattern-based heuristic for Portuguese-market PII:
// email addresses, PT phone numbers (mobile 9xx or landline 2xx, optional
// +351 prefix), 9-digit fiscal numbers and PT IBANs.
type RegexDetector struct {
	patterns []pattern
}

// NewRegexDetector compiles the heuristic pattern table.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{patterns: []pattern{
		{regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`), PIIEmail},
		{regexp.MustCompile(`\b(?:\+351\s*)?(?:9\d{2}|2\d{2})\s?\d{3}\s?\d{3}\b`), PIIPhone},
		{regexp.MustCompile(`\b\d{9}\b`), PIINIF},
		{regexp.MustCompile(`(?i)\bPT\d{23}\b`), PIIIBAN},
	}}
}

func (d *RegexDetector) Detect(text string) bool {
	for _, p := range d.patterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

// Findings returns every kind matched, in pattern order, at most once each.
func (d *RegexDetector) Findings(text string) []PIIKind {
	var kinds []PIIKind
	for _, p := range d.patterns {
		if p.re.MatchString(text) {
			kinds = append(kinds, p.kind)
		}
	}
	return kinds
}
