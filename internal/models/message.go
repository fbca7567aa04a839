package models

// Role identifies who authored a chat message on the wire.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation, both in the /api/chat payload
// and in the controller transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	Warning
)

// DisplayMessage is a rendered chat bubble. Program and Warning messages are
// local notices that never travel to the gateway.
type DisplayMessage struct {
	Content string
	Type    MessageType
	Loading bool
}
