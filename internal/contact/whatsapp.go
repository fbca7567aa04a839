// Package contact builds the human-handoff links used once the automated
// triage flow terminates.
package contact

import "net/url"

// WhatsAppURL returns a wa.me deep link prefilled with the consultation
// greeting and the user's last question. The number is in international
// format without the leading plus.
func WhatsAppURL(number, lastQuestion string) string {
	summary := lastQuestion
	if summary == "" {
		summary = "[não preenchido]"
	}

	msg := "Olá. Gostaria de marcar consulta (Direito Empresarial).\n\n" +
		"Resumo da questão: " + summary + "\n\n" +
		"Melhor horário: \n" +
		"Preferência de contacto (WhatsApp/telefone/email): \n"

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(msg)
}
