package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/correia-crespo/triagem/internal/consent"
	"github.com/correia-crespo/triagem/internal/eventbus"
	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/internal/policy"
)

const testQuestion = "Posso rescindir um contrato de arrendamento sem aviso?"

// fakeGateway scripts gateway replies and counts calls.
type fakeGateway struct {
	t       *testing.T
	server  *httptest.Server
	calls   atomic.Int32
	replies []func(w http.ResponseWriter)
	got     [][]models.Message
}

func newFakeGateway(t *testing.T) *fakeGateway {
	fg := &fakeGateway{t: t}
	fg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		n := int(fg.calls.Add(1)) - 1

		var req struct {
			Messages []models.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fg.got = append(fg.got, req.Messages)

		require.Less(t, n, len(fg.replies), "unexpected extra gateway call")
		fg.replies[n](w)
	}))
	t.Cleanup(fg.server.Close)
	return fg
}

func replyOK(text string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]string{"reply": text})
	}
}

func replyError(status int, message string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	}
}

func newTestService(t *testing.T, fg *fakeGateway, store consent.Store) (*TriageService, *eventbus.EventBus) {
	eb := eventbus.NewEventBus()
	gw := NewHTTPGateway(fg.server.URL, 0)
	svc := NewTriageService(gw, policy.NewRegexDetector(), store, eb, "351914376903")
	t.Cleanup(svc.Stop)
	return svc, eb
}

// drain collects every pending core event without blocking.
func drain(eb *eventbus.EventBus) []eventbus.CoreEvent {
	var events []eventbus.CoreEvent
	for {
		select {
		case e := <-eb.CoreToUI():
			events = append(events, e)
		default:
			return events
		}
	}
}

func lastStateUpdate(t *testing.T, events []eventbus.CoreEvent) eventbus.StateUpdateEvent {
	t.Helper()
	for i := len(events) - 1; i >= 0; i-- {
		if su, ok := events[i].(eventbus.StateUpdateEvent); ok {
			return su
		}
	}
	t.Fatal("no StateUpdateEvent emitted")
	return eventbus.StateUpdateEvent{}
}

// Scenario A: without stored consent the modal is requested and no network
// call occurs until consent is granted.
func TestSubmit_ConsentGateBlocksNetworkCall(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){replyOK("Resposta final.")}
	store := &consent.MemoryStore{}
	svc, eb := newTestService(t, fg, store)

	svc.submit(testQuestion)

	events := drain(eb)
	var consentRequested bool
	for _, e := range events {
		if _, ok := e.(eventbus.ConsentRequestEvent); ok {
			consentRequested = true
		}
	}
	assert.True(t, consentRequested)
	assert.Equal(t, int32(0), fg.calls.Load())
	// The pending question is discarded, not retried after accept.
	svc.handleConsentDecision(eventbus.ConsentDecisionEvent{Accepted: true, Analytics: false})
	assert.Equal(t, int32(0), fg.calls.Load())
	assert.True(t, store.HasConsent())

	// Resubmission after consent reaches the gateway.
	svc.submit(testQuestion)
	assert.Equal(t, int32(1), fg.calls.Load())
}

func TestSubmit_PIIWarningWithoutNetworkCall(t *testing.T) {
	fg := newFakeGateway(t)
	store := &consent.MemoryStore{Consent: true}
	svc, eb := newTestService(t, fg, store)

	svc.submit("o meu NIF é 501234567 e quero rescindir")

	assert.Equal(t, int32(0), fg.calls.Load())
	update := lastStateUpdate(t, drain(eb))
	require.NotEmpty(t, update.Messages)
	warning := update.Messages[len(update.Messages)-1]
	assert.Equal(t, models.Warning, warning.Type)
	assert.Equal(t, MsgPIIWarning, warning.Content)
	assert.Equal(t, StageInitial, svc.State().Stage())
}

// Scenario B: a short question-shaped reply opens the clarification round
// and switches the placeholder.
func TestSubmit_ClarificationRoundOpens(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){replyOK("O contrato tem prazo certo?")}
	svc, eb := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit(testQuestion)

	assert.Equal(t, StageAwaitingClarification, svc.State().Stage())
	assert.Equal(t, testQuestion, svc.State().FirstQuestion())

	update := lastStateUpdate(t, drain(eb))
	assert.False(t, update.InputLocked)
	assert.Equal(t, PlaceholderClarify, update.Placeholder)

	require.Len(t, fg.got, 1)
	require.Len(t, fg.got[0], 1)
	assert.Equal(t, testQuestion, fg.got[0][0].Content)
}

// Scenario C: the clarification answer closes the flow; a further submit is
// rejected locally without a network call.
func TestSubmit_ClarificationAnswerClosesFlow(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){
		replyOK("O contrato tem prazo certo?"),
		replyOK("**Isto pode exigir advogado?** Sim – enquadramento a validar."),
	}
	svc, eb := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit(testQuestion)
	svc.submit("Sim, prazo de 5 anos")

	assert.Equal(t, StageDone, svc.State().Stage())
	update := lastStateUpdate(t, drain(eb))
	assert.True(t, update.InputLocked)
	assert.Equal(t, PlaceholderDone, update.Placeholder)
	assert.Contains(t, update.ContactURL, "https://wa.me/351914376903")

	// The clarification turn forwards the original question plus the
	// prefixed answer, not the full transcript.
	require.Len(t, fg.got, 2)
	require.Len(t, fg.got[1], 2)
	assert.Equal(t, testQuestion, fg.got[1][0].Content)
	assert.Equal(t, "Resposta à clarificação: Sim, prazo de 5 anos", fg.got[1][1].Content)

	// Locked: no further completion calls.
	svc.submit("e agora?")
	assert.Equal(t, int32(2), fg.calls.Load())
	update = lastStateUpdate(t, drain(eb))
	redirect := update.Messages[len(update.Messages)-1]
	assert.Equal(t, models.Program, redirect.Type)
	assert.Equal(t, MsgDoneRedirect, redirect.Content)
}

// A second question-shaped reply must still force the conversation closed.
func TestSubmit_SecondClarificationStillCloses(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){
		replyOK("O contrato tem prazo certo?"),
		replyOK("E o senhorio foi notificado?"),
	}
	svc, _ := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit(testQuestion)
	svc.submit("Sim, prazo certo")

	assert.Equal(t, StageDone, svc.State().Stage())
}

// Scenario D: upstream quota failure surfaces the fixed fallback and locks.
func TestSubmit_UpstreamFailureIsTerminal(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){
		replyError(http.StatusTooManyRequests,
			"Serviço temporariamente indisponível por limite de utilização. Por favor, marque consulta para análise do caso concreto."),
	}
	svc, eb := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit(testQuestion)

	assert.Equal(t, StageDone, svc.State().Stage())
	update := lastStateUpdate(t, drain(eb))
	assert.True(t, update.InputLocked)
	last := update.Messages[len(update.Messages)-1]
	assert.Equal(t, MsgFallback, last.Content)
	assert.False(t, last.Loading)
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	fg := newFakeGateway(t)
	svc, eb := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit("   ")
	assert.Equal(t, int32(0), fg.calls.Load())
	assert.Empty(t, drain(eb))
}

func TestResetFlow_StartsFresh(t *testing.T) {
	fg := newFakeGateway(t)
	fg.replies = []func(w http.ResponseWriter){
		replyOK("Resposta final sem pergunta."),
		replyOK("Outra resposta final."),
	}
	svc, eb := newTestService(t, fg, &consent.MemoryStore{Consent: true})

	svc.submit(testQuestion)
	require.Equal(t, StageDone, svc.State().Stage())

	svc.resetFlow()
	assert.Equal(t, StageInitial, svc.State().Stage())
	assert.Empty(t, svc.State().Transcript())
	assert.Empty(t, svc.State().FirstQuestion())
	update := lastStateUpdate(t, drain(eb))
	assert.False(t, update.InputLocked)
	assert.Equal(t, PlaceholderInitial, update.Placeholder)

	// A new topic is allowed to reach the gateway again.
	svc.submit("Nova questão sobre quotas")
	assert.Equal(t, int32(2), fg.calls.Load())
}
