// Package protocol defines the conversation message types exchanged with a
// code oracle. A generation session is an ordered, append-only sequence of
// messages; the oracle itself is stateless and receives the full history on
// every call.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a generation conversation. User messages carry
// instructions and correction feedback; assistant messages carry raw oracle
// responses.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Generate a parser for icici.")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// InitMessages creates a single-element message slice from a role and content.
// Convenience wrapper for initializing a conversation from a first instruction.
func InitMessages(role Role, content string) []Message {
	return []Message{NewMessage(role, content)}
}
