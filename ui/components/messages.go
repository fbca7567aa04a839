package components

import (
	"strings"

	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/ui/styles"
)

func RenderMessages(messages []models.DisplayMessage, loadingDots int) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	warningStyle := styles.WarningStyle()
	programStyle := styles.ProgramStyle()

	for _, msg := range messages {
		content := msg.Content
		if msg.Loading {
			content += strings.Repeat(".", loadingDots)
		}
		switch msg.Type {
		case models.User:
			b.WriteString(userStyle.Render("Você: "+content) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render("Assistente: "+content) + "\n\n")
		case models.Warning:
			b.WriteString(warningStyle.Render(content) + "\n\n")
		case models.Program:
			b.WriteString(programStyle.Render(content) + "\n\n")
		}
	}

	return b.String()
}

// RenderContactLink shows the WhatsApp handoff once the flow is closed.
func RenderContactLink(url string) string {
	if url == "" {
		return ""
	}
	return styles.ContactStyle().Render("Marcar consulta via WhatsApp: "+url) + "\n"
}
