package core

// Stage is the conversation position. The flow is intentionally tiny:
// initial -> awaiting_clarification -> done, with at most one clarification
// round before the input surface is locked.
type Stage int

const (
	StageInitial Stage = iota
	StageAwaitingClarification
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageAwaitingClarification:
		return "awaiting_clarification"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// StageEvent is what happened during a turn.
type StageEvent int

const (
	// EventReplyClarification - the reply was recognized as a clarifying question
	EventReplyClarification StageEvent = iota
	// EventReplyFinal - the reply was a full templated answer
	EventReplyFinal
	// EventTurnFailed - the round trip failed; the turn is terminal
	EventTurnFailed
	// EventReset - the explicit "new question" action
	EventReset
)

// Advance is the pure transition function of the conversation. A
// clarification reply only opens the clarification round from the initial
// stage; a second question-shaped reply still closes the conversation.
func Advance(s Stage, e StageEvent) Stage {
	switch e {
	case EventReset:
		return StageInitial
	case EventReplyFinal, EventTurnFailed:
		return StageDone
	case EventReplyClarification:
		if s == StageInitial {
			return StageAwaitingClarification
		}
		return StageDone
	}
	return s
}
