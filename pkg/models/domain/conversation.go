package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a flattened view of one conversation entry.
type Message struct {
	Role     Role
	Text     string
	ToolName string
}

// Snapshot is the conversation state after one agent step.
type Snapshot struct {
	Step     int
	Messages []Message
}

// Last returns the most recent message, or a zero Message for an empty snapshot.
func (s Snapshot) Last() Message {
	if len(s.Messages) == 0 {
		return Message{}
	}
	return s.Messages[len(s.Messages)-1]
}
