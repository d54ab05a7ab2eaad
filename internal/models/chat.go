package models

// Role identifies the sender of a chat message. The set is closed: anything
// outside user/assistant/system is rejected at the boundary and dropped when
// translating history for the model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid reports whether the role is one of the enumerated values
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatMessage is one message in a conversation. Immutable once created;
// ordering within a conversation is insertion order.
type ChatMessage struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"` // epoch millis, answer-side only
}
