package core

import (
	"sync"

	"github.com/correia-crespo/triagem/internal/models"
)

// Fixed user-facing texts of the triage flow.
const (
	PlaceholderInitial = "Descreva a questão (sem dados pessoais)…"
	PlaceholderClarify = "Responda apenas à pergunta de clarificação (sem dados pessoais)…"
	PlaceholderDone    = "Para continuar, marque consulta."

	MsgLoading      = "A analisar (informação geral)…"
	MsgPIIWarning   = "⚠️ Remova dados pessoais (nome, morada, NIF, email, telefone) e reformule de forma geral."
	MsgDoneRedirect = "Para continuar, é necessária consulta com advogado. Clique em “Marcar consulta” ou envie WhatsApp."
	MsgFallback     = "Serviço temporariamente indisponível. Para análise do caso concreto, marque consulta."

	clarificationPrefix = "Resposta à clarificação: "
)

// TriageState owns the session conversation: the stage, the remembered first
// question and the rendered transcript. Single source of truth for the UI.
type TriageState struct {
	mu            sync.RWMutex
	stage         Stage
	firstQuestion string
	lastQuestion  string
	transcript    []models.DisplayMessage
	isProcessing  bool
}

func NewTriageState() *TriageState {
	return &TriageState{
		stage:      StageInitial,
		transcript: make([]models.DisplayMessage, 0),
	}
}

func (ts *TriageState) Stage() Stage {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.stage
}

func (ts *TriageState) FirstQuestion() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.firstQuestion
}

func (ts *TriageState) LastQuestion() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.lastQuestion
}

func (ts *TriageState) IsProcessing() bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.isProcessing
}

// Transcript returns a copy of the rendered messages.
func (ts *TriageState) Transcript() []models.DisplayMessage {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	result := make([]models.DisplayMessage, len(ts.transcript))
	copy(result, ts.transcript)
	return result
}

// AddProgramMessage appends a local notice bubble.
func (ts *TriageState) AddProgramMessage(content string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.transcript = append(ts.transcript, models.DisplayMessage{Content: content, Type: models.Program})
}

// AddWarning appends an advisory rejection bubble (no network call happened).
func (ts *TriageState) AddWarning(content string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.transcript = append(ts.transcript, models.DisplayMessage{Content: content, Type: models.Warning})
}

// BeginTurn atomically claims the single outstanding request slot, records
// the question and appends the user bubble plus the provisional loading
// bubble. Returns false when a turn is already in flight.
func (ts *TriageState) BeginTurn(question string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.isProcessing {
		return false
	}
	ts.isProcessing = true
	ts.lastQuestion = question
	ts.transcript = append(ts.transcript,
		models.DisplayMessage{Content: question, Type: models.User},
		models.DisplayMessage{Content: MsgLoading, Type: models.Assistant, Loading: true},
	)
	return true
}

// CompleteTurn replaces the loading bubble with the reply and advances the
// stage. When the reply opened the clarification round, the original
// question is remembered for the follow-up window.
func (ts *TriageState) CompleteTurn(reply string, event StageEvent) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.resolveLoading(reply)
	next := Advance(ts.stage, event)
	if ts.stage == StageInitial && next == StageAwaitingClarification {
		ts.firstQuestion = ts.lastQuestion
	}
	ts.stage = next
	ts.isProcessing = false
}

// FailTurn replaces the loading bubble with the fixed fallback and forces
// the conversation closed. A single failure is terminal for the turn.
func (ts *TriageState) FailTurn() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.resolveLoading(MsgFallback)
	ts.stage = Advance(ts.stage, EventTurnFailed)
	ts.isProcessing = false
}

// resolveLoading rewrites the trailing loading bubble in place. Callers hold
// the lock.
func (ts *TriageState) resolveLoading(content string) {
	for i := len(ts.transcript) - 1; i >= 0; i-- {
		if ts.transcript[i].Loading {
			ts.transcript[i].Content = content
			ts.transcript[i].Loading = false
			return
		}
	}
	// No loading bubble to resolve; append instead.
	ts.transcript = append(ts.transcript, models.DisplayMessage{Content: content, Type: models.Assistant})
}

// Reset clears the transcript and returns to the initial stage - the only
// way to start a new topic.
func (ts *TriageState) Reset() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.stage = StageInitial
	ts.firstQuestion = ""
	ts.lastQuestion = ""
	ts.transcript = ts.transcript[:0]
	ts.isProcessing = false
}
