package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureDisclaimer_AppendsWhenMissing(t *testing.T) {
	out := EnsureDisclaimer("Pode exigir análise contratual.")
	assert.True(t, strings.HasPrefix(out, "Pode exigir análise contratual."))
	assert.Contains(t, out, Disclaimer)
}

func TestEnsureDisclaimer_RecognizesVariants(t *testing.T) {
	variants := []string{
		"Resposta. Esta informação não constitui parecer jurídico.",
		"Resposta. Não constitui aconselhamento legal.",
		"Resposta. Informação não vinculativa.",
	}
	for _, v := range variants {
		assert.Equal(t, v, EnsureDisclaimer(v))
	}
}

func TestEnsureDisclaimer_Idempotent(t *testing.T) {
	once := EnsureDisclaimer("Enquadramento geral da questão.")
	assert.Equal(t, once, EnsureDisclaimer(once))
}

func TestEnforceFormat_PassesCleanText(t *testing.T) {
	clean := "**Isto pode exigir advogado?** Sim – há risco contratual real."
	assert.Equal(t, clean, EnforceFormat(clean))
}

func TestEnforceFormat_SubstitutesOnBannedMarkers(t *testing.T) {
	banned := []string{
		"Segue uma minuta de contrato para o seu caso.",
		"Aqui está um modelo de carta de rescisão.",
		"Redija um requerimento ao tribunal.",
		"Inclua esta cláusula no contrato e copie e cole.",
	}
	for _, text := range banned {
		assert.Equal(t, CannedAnswer, EnforceFormat(text), text)
	}
}

func TestEnforceFormat_SubstitutesOnStepMarkers(t *testing.T) {
	steps := []string{
		"Passo 1: reúna os documentos.",
		"Primeiro fale com o senhorio, depois notifique por escrito.",
		"Envie a notificação e em seguida aguarde 30 dias.",
		"Submeta o pedido no portal.",
	}
	for _, text := range steps {
		assert.Equal(t, CannedAnswer, EnforceFormat(text), text)
	}
}

// The output is always either the input unchanged or the full canned answer,
// never a partial edit, and a second application changes nothing.
func TestEnforceFormat_TotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Resposta limpa sem marcadores.",
		"Aqui está uma minuta.",
		CannedAnswer,
	}
	for _, in := range inputs {
		out := EnforceFormat(in)
		if out != in {
			assert.Equal(t, CannedAnswer, out)
		}
		assert.Equal(t, out, EnforceFormat(out))
	}
}

func TestPostProcess_CannedAnswerKeepsDisclaimer(t *testing.T) {
	out := PostProcess("Passo 1: faça isto. Passo 2: envie aquilo.")
	assert.True(t, strings.HasPrefix(out, CannedAnswer))
	assert.Contains(t, out, Disclaimer)
	// Idempotent end to end.
	assert.Equal(t, out, PostProcess(out))
}
