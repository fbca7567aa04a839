package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/correia-crespo/triagem/internal/consent"
	"github.com/correia-crespo/triagem/internal/contact"
	"github.com/correia-crespo/triagem/internal/eventbus"
	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/internal/policy"
)

// TriageService is the session-scoped conversation controller. It owns the
// stage machine, gates every submission behind consent and the advisory PII
// check, and drives exactly one gateway round trip per user turn.
type TriageService struct {
	gateway       Gateway
	detector      policy.Detector
	consent       consent.Store
	state         *TriageState
	eventBus      *eventbus.EventBus
	whatsAppPhone string
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewTriageService(gw Gateway, detector policy.Detector, store consent.Store,
	eb *eventbus.EventBus, whatsAppPhone string) *TriageService {

	ctx, cancel := context.WithCancel(context.Background())
	return &TriageService{
		gateway:       gw,
		detector:      detector,
		consent:       store,
		state:         NewTriageState(),
		eventBus:      eb,
		whatsAppPhone: whatsAppPhone,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start runs the controller loop in a goroutine.
func (ts *TriageService) Start() {
	ts.pushStateToUI()
	go ts.eventLoop()
}

func (ts *TriageService) Stop() {
	ts.cancel()
}

func (ts *TriageService) eventLoop() {
	for {
		select {
		case <-ts.ctx.Done():
			return
		case event, ok := <-ts.eventBus.UIToCore():
			if !ok {
				return
			}
			ts.handleUIEvent(event)
		}
	}
}

func (ts *TriageService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitQuestionEvent:
		ts.submit(e.Text)
	case eventbus.ResetFlowEvent:
		ts.resetFlow()
	case eventbus.ConsentDecisionEvent:
		ts.handleConsentDecision(e)
	case eventbus.NoticeAckEvent:
		_ = ts.consent.AcknowledgeNotice()
	}
}

// submit runs the full gate sequence for one user turn. On any rejection the
// question never leaves the machine.
func (ts *TriageService) submit(raw string) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return
	}

	// Consent gate: fail closed. The pending question is discarded and not
	// retried after the modal resolves.
	if !ts.consent.HasConsent() {
		_ = ts.eventBus.SendToUI(eventbus.ConsentRequestEvent{ID: newRequestID()})
		return
	}

	// Advisory fast path; the gateway re-checks with the same heuristic.
	if ts.detector.Detect(clean) {
		ts.state.AddWarning(MsgPIIWarning)
		ts.pushStateToUI()
		return
	}

	// Do not allow conversation beyond one clarifying turn.
	if ts.state.Stage() == StageDone {
		ts.state.AddProgramMessage(MsgDoneRedirect)
		ts.pushStateToUI()
		return
	}

	// Single outstanding request per session.
	if !ts.state.BeginTurn(clean) {
		return
	}
	ts.pushStateToUI()

	outgoing := ts.buildOutgoing(clean)
	reply, err := ts.gateway.Ask(ts.ctx, outgoing)
	if err != nil {
		ts.state.FailTurn()
		ts.pushStateToUI()
		return
	}

	event := EventReplyFinal
	if policy.IsClarificationQuestion(reply) {
		event = EventReplyClarification
	}
	ts.state.CompleteTurn(reply, event)
	ts.pushStateToUI()
}

// buildOutgoing keeps the call stateless and bounded: never the full
// history, only the original question plus the clarification answer.
func (ts *TriageService) buildOutgoing(clean string) []models.Message {
	if ts.state.Stage() == StageAwaitingClarification {
		return []models.Message{
			{Role: models.RoleUser, Content: ts.state.FirstQuestion()},
			{Role: models.RoleUser, Content: clarificationPrefix + clean},
		}
	}
	return []models.Message{{Role: models.RoleUser, Content: clean}}
}

// resetFlow returns to a blank initial conversation.
func (ts *TriageService) resetFlow() {
	ts.state.Reset()
	ts.pushStateToUI()
}

func (ts *TriageService) handleConsentDecision(decision eventbus.ConsentDecisionEvent) {
	if !decision.Accepted {
		return
	}
	if err := ts.consent.GrantConsent(decision.Analytics); err != nil {
		ts.state.AddWarning("Não foi possível guardar o consentimento: " + err.Error())
	}
	ts.pushStateToUI()
}

// State exposes the session state for tests and initial rendering.
func (ts *TriageService) State() *TriageState {
	return ts.state
}

// pushStateToUI sends the full transcript on every change: the loading
// bubble is rewritten in place when the turn resolves, so deltas would miss
// it.
func (ts *TriageService) pushStateToUI() {
	transcript := ts.state.Transcript()
	stage := ts.state.Stage()

	update := eventbus.StateUpdateEvent{
		Messages:     transcript,
		IsProcessing: ts.state.IsProcessing(),
		InputLocked:  stage == StageDone,
		Placeholder:  placeholderFor(stage),
	}
	if stage == StageDone {
		update.ContactURL = contact.WhatsAppURL(ts.whatsAppPhone, ts.state.LastQuestion())
	}
	_ = ts.eventBus.SendToUI(update)
}

func placeholderFor(stage Stage) string {
	switch stage {
	case StageAwaitingClarification:
		return PlaceholderClarify
	case StageDone:
		return PlaceholderDone
	}
	return PlaceholderInitial
}

// newRequestID generates a unique ID for consent round-trips.
func newRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
