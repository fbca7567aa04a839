package contact

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppURL(t *testing.T) {
	raw := WhatsAppURL("351914376903", "Posso dissolver a sociedade?")
	assert.True(t, strings.HasPrefix(raw, "https://wa.me/351914376903?text="))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "Gostaria de marcar consulta")
	assert.Contains(t, text, "Resumo da questão: Posso dissolver a sociedade?")
}

func TestWhatsAppURL_EmptyQuestion(t *testing.T) {
	u, err := url.Parse(WhatsAppURL("351914376903", ""))
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "[não preenchido]")
}
