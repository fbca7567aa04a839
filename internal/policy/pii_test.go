package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegexDetector_Detect(t *testing.T) {
	d := NewRegexDetector()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain question", "Posso rescindir um contrato de arrendamento sem aviso?", false},
		{"email", "contactem-me em joao.silva@example.com por favor", true},
		{"email uppercase", "O MEU MAIL É JOAO@EXEMPLO.PT", true},
		{"mobile phone", "o meu número é 912 345 678", true},
		{"mobile phone compact", "ligar para 912345678", true},
		{"landline with prefix", "+351 212 345 678", true},
		{"nif", "o NIF da empresa é 501234567", true},
		{"iban", "transferi para PT50000201231234567890154", true},
		{"iban lowercase", "pt50000201231234567890154", true},
		{"short digits", "o contrato tem 12 meses e multa de 5000", false},
		{"year", "assinei em 2023 e renovou em 2024", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestRegexDetector_Findings(t *testing.T) {
	d := NewRegexDetector()

	kinds := d.Findings("email joao@exemplo.pt e NIF 501234567")
	assert.Equal(t, []PIIKind{PIIEmail, PIINIF}, kinds)

	assert.Empty(t, d.Findings("questão geral sobre sociedades"))
}
