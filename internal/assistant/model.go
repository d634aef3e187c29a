// File: internal/assistant/model.go
package assistant

// Chat roles accepted from the client. They map 1:1 onto the model API's
// conversation roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one prior exchange replayed by the client. The backend keeps
// no conversation state; the widget resends its transcript on every message.
type ChatTurn struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text" binding:"required"`
}

// ChatRequest is the payload for one assistant message. The widget mints a
// conversation ID per session; the busy gate keys off it.
type ChatRequest struct {
	ConversationID string     `json:"conversation_id" binding:"required,max=128"`
	Message        string     `json:"message" binding:"required,max=4000"`
	History        []ChatTurn `json:"history" binding:"max=50,dive"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// GreetingResponse is the canned opener shown when the widget opens.
type GreetingResponse struct {
	Greeting string `json:"greeting"`
	Language string `json:"language"`
}
