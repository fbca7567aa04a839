package components

import (
	"strings"

	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/ui/styles"
)

const (
	termsLabel     = "Compreendo que o assistente dá apenas orientação geral e não aconselhamento jurídico."
	privacyLabel   = "Não vou incluir dados pessoais (nome, morada, NIF, email, telefone)."
	analyticsLabel = "Aceito estatísticas de utilização anónimas (opcional)."
)

// RenderConsentModal draws the consent gate. The accept button stays
// disabled until every required checkbox is checked.
func RenderConsentModal(c models.ConsentModel, width int) string {
	modalWidth := width - 8
	if modalWidth > 72 {
		modalWidth = 72
	}
	if modalWidth < 40 {
		modalWidth = 40
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle().Render("Antes de usar o assistente") + "\n\n")

	b.WriteString(renderCheckbox(termsLabel, c.TermsChecked, c.Cursor == 0) + "\n")
	b.WriteString(renderCheckbox(privacyLabel, c.PrivacyChecked, c.Cursor == 1) + "\n")
	b.WriteString(renderCheckbox(analyticsLabel, c.Analytics, c.Cursor == 2) + "\n\n")

	accept := "[ Aceitar ]"
	if !c.Required() {
		accept = styles.DisabledStyle().Render(accept)
	} else if c.Cursor == 3 {
		accept = styles.FocusedStyle().Render(accept)
	}
	cancel := "[ Cancelar ]"
	if c.Cursor == 4 {
		cancel = styles.FocusedStyle().Render(cancel)
	}
	b.WriteString(accept + "  " + cancel + "\n\n")
	b.WriteString(styles.PlaceholderStyle().Render("espaço marca · setas navegam · esc fecha"))

	return styles.ModalStyle(modalWidth).Render(b.String())
}

func renderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return styles.FocusedStyle().Render(line)
	}
	return line
}

// RenderNotice draws the one-time notice shown on first interaction.
func RenderNotice(width int) string {
	modalWidth := width - 8
	if modalWidth > 72 {
		modalWidth = 72
	}
	if modalWidth < 40 {
		modalWidth = 40
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle().Render("Assistente de triagem") + "\n\n")
	b.WriteString("Este assistente dá orientação geral para decidir se deve marcar\n")
	b.WriteString("consulta. Não redige documentos nem substitui um advogado.\n\n")
	b.WriteString(styles.PlaceholderStyle().Render("enter para continuar"))

	return styles.ModalStyle(modalWidth).Render(b.String())
}
