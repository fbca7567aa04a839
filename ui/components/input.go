package components

import (
	"github.com/correia-crespo/triagem/ui/styles"
)

func RenderInput(input, placeholder string, locked bool, width int) string {
	if locked {
		return styles.LockedInputStyle(width).Render(placeholder)
	}
	if input == "" {
		return styles.InputStyle(width).Render(styles.PlaceholderStyle().Render(placeholder))
	}
	return styles.InputStyle(width).Render(input)
}
