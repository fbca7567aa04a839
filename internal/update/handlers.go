package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/correia-crespo/triagem/internal/eventbus"
	"github.com/correia-crespo/triagem/internal/models"
)

// Consent modal focus positions.
const (
	consentFocusTerms = iota
	consentFocusPrivacy
	consentFocusAnalytics
	consentFocusAccept
	consentFocusCancel
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}

	// The one-time notice sits above everything until acknowledged.
	if appModel.NoticeOpen {
		switch keyMsg.String() {
		case "enter", "esc":
			appModel.NoticeOpen = false
			if err := eb.SendToCore(eventbus.NoticeAckEvent{}); err != nil {
				appModel.Status = "Erro: " + err.Error()
			}
		}
		return nil
	}

	if appModel.Consent.Visible {
		handleConsentKey(appModel, keyMsg, eb)
		return nil
	}

	switch keyMsg.String() {
	case "enter":
		if appModel.InputLocked || appModel.Loading {
			return nil
		}
		if strings.TrimSpace(appModel.Input) != "" && appModel.ServiceReady {
			// Send event to core via event bus with error handling
			if err := eb.SendToCore(eventbus.SubmitQuestionEvent{Text: appModel.Input}); err != nil {
				appModel.Status = "Erro ao enviar: " + err.Error()
				return nil
			}

			// Only manage local UI state - clear input
			appModel.Input = ""
			return nil
		} else if strings.TrimSpace(appModel.Input) != "" {
			appModel.Input = ""
			appModel.Status = "Assistente indisponível"
		}
	case "ctrl+n":
		// New question: the only way to reopen a closed conversation.
		if err := eb.SendToCore(eventbus.ResetFlowEvent{}); err != nil {
			appModel.Status = "Erro: " + err.Error()
		}
	case "backspace":
		if len(appModel.Input) > 0 {
			runes := []rune(appModel.Input)
			appModel.Input = string(runes[:len(runes)-1])
		}
	default:
		if appModel.InputLocked || appModel.Loading {
			return nil
		}
		if len([]rune(keyMsg.String())) == 1 {
			appModel.Input += keyMsg.String()
		}
	}
	return nil
}

// handleConsentKey drives the consent modal: checkboxes toggle with space,
// accept stays disabled until every required box is checked, esc dismisses
// without granting anything.
func handleConsentKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) {
	c := &appModel.Consent
	switch keyMsg.String() {
	case "esc":
		closeConsent(appModel, eb, false)
	case "up", "shift+tab":
		if c.Cursor > consentFocusTerms {
			c.Cursor--
		}
	case "down", "tab":
		if c.Cursor < consentFocusCancel {
			c.Cursor++
		}
	case " ":
		switch c.Cursor {
		case consentFocusTerms:
			c.TermsChecked = !c.TermsChecked
		case consentFocusPrivacy:
			c.PrivacyChecked = !c.PrivacyChecked
		case consentFocusAnalytics:
			c.Analytics = !c.Analytics
		}
	case "enter":
		switch c.Cursor {
		case consentFocusAccept:
			if c.Required() {
				closeConsent(appModel, eb, true)
			}
		case consentFocusCancel:
			closeConsent(appModel, eb, false)
		}
	}
}

func closeConsent(appModel *models.AppModel, eb *eventbus.EventBus, accepted bool) {
	c := &appModel.Consent
	decision := eventbus.ConsentDecisionEvent{
		ID:        c.RequestID,
		Accepted:  accepted,
		Analytics: accepted && c.Analytics,
	}
	if err := eb.SendToCore(decision); err != nil {
		appModel.Status = "Erro: " + err.Error()
	}
	appModel.Consent = models.ConsentModel{}
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		// Update UI state from core state
		appModel.Messages = event.Messages
		appModel.Loading = event.IsProcessing
		appModel.InputLocked = event.InputLocked
		appModel.Placeholder = event.Placeholder
		appModel.ContactURL = event.ContactURL

		if event.Error != nil {
			appModel.Status = "Erro: " + event.Error.Error()
		} else if event.IsProcessing {
			appModel.Status = "A analisar"
		} else if event.InputLocked {
			appModel.Status = "Conversa terminada - Ctrl+N para nova questão"
		} else {
			appModel.Status = "Pronto"
		}
	case eventbus.ConsentRequestEvent:
		appModel.Consent = models.ConsentModel{
			Visible:   true,
			RequestID: event.ID,
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
