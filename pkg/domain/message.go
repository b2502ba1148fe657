package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation.
type Message struct {
	Role    Role
	Content string
}

// IncomingMessage is a text message received from the messenger.
type IncomingMessage struct {
	UpdateID  int
	MessageID int
	ChatID    int64
	UserID    int64
	Text      string
}
