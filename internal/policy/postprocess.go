package policy

import (
	"regexp"
	"strings"
)

// Disclaimer is the fixed legal notice every reply must end with.
const Disclaimer = "Informação geral e não vinculativa; não constitui parecer jurídico. Para análise do caso concreto, marque consulta."

// disclaimerRe recognizes close variants of the disclaimer already present,
// so EnsureDisclaimer stays idempotent even when the model rephrases it.
var disclaimerRe = regexp.MustCompile(`(?i)não constitui\s+(parecer|aconselhamento)|não\s+vinculativ`)

// EnsureDisclaimer appends the fixed disclaimer block unless a variant is
// already present. Idempotent.
func EnsureDisclaimer(text string) string {
	t := strings.TrimSpace(text)
	if disclaimerRe.MatchString(t) {
		return t
	}
	return t + "\n\n—\nℹ️ " + Disclaimer
}

// CannedAnswer replaces any reply that drifted into templates or operational
// instructions. Deterministic safety net independent of prompt compliance.
const CannedAnswer = "**Isto pode exigir advogado?** Talvez – depende dos factos e documentos.\n" +
	"**O que pode estar em causa (muito geral):**\n" +
	"- Enquadramento contratual/societário a determinar.\n" +
	"- Risco e obrigações a validar em documentos.\n" +
	"- Eventual impacto em registos e compliance.\n" +
	"**Próximo passo recomendado:** Marcar consulta para avaliação do caso concreto."

var (
	bannedRe = regexp.MustCompile(`(?i)(minuta|modelo de|template|carta|requerimento|peti[cç][aã]o|cl[áa]usula|redija|copie e cole)`)
	stepsRe  = regexp.MustCompile(`(?i)(passo\s*\d+|1\)|2\)|3\)|primeiro|depois|em seguida|faça|envie|apresente|submeta)`)
)

// EnforceFormat discards the text entirely and substitutes CannedAnswer when
// it contains banned content markers (templates, letters, petitions) or
// step-by-step imperatives. Otherwise the input is returned unchanged; there
// is never a partial edit. Idempotent and total.
func EnforceFormat(text string) string {
	if bannedRe.MatchString(text) || stepsRe.MatchString(text) {
		return CannedAnswer
	}
	return text
}

// PostProcess is the full reply pipeline: disclaimer, format enforcement,
// then the disclaimer again since the canned substitution carries none.
func PostProcess(reply string) string {
	return EnsureDisclaimer(EnforceFormat(EnsureDisclaimer(reply)))
}
