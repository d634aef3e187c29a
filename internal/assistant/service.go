// File: internal/assistant/service.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/platform/gemini"
	"conesa_estates_backend/internal/property"

	"go.uber.org/zap"
)

// unavailableReply is returned with a 200 when no model API key is
// configured, so the widget degrades gracefully instead of erroring.
const unavailableReply = "El asistente no está disponible en este momento. Por favor contactanos por WhatsApp."

const systemInstructionHeader = `Eres el asistente virtual de Conesa Estates, una inmobiliaria argentina.
Respondés consultas sobre las propiedades publicadas en el catálogo que sigue.
Sé breve, amable y respondé en el idioma en el que te escriben.
Si te preguntan por una propiedad que no está en el catálogo, decí que no la tenés publicada y ofrecé alternativas del catálogo.
No inventes precios ni direcciones.`

var greetings = map[string]string{
	"es": "¡Hola! Soy el asistente virtual de Conesa Estates. ¿En qué puedo ayudarte?",
	"en": "Hi! I'm the Conesa Estates virtual assistant. How can I help you?",
}

// ContentGenerator is the subset of the model client the service needs.
type ContentGenerator interface {
	IsConfigured() bool
	GenerateContent(ctx context.Context, systemInstruction string, turns []gemini.Content) (string, error)
}

// CatalogSource supplies the property snapshot embedded in the system
// instruction. Implemented by the property repository.
type CatalogSource interface {
	FindAll(ctx context.Context) ([]property.Property, error)
}

// Service defines the interface for assistant business logic.
type Service interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Greeting(lang string) GreetingResponse
}

// ServiceImplementation implements the assistant Service interface.
type ServiceImplementation struct {
	generator ContentGenerator
	catalog   CatalogSource
	logger    *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new assistant service.
func NewService(generator ContentGenerator, catalog CatalogSource, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		generator: generator,
		catalog:   catalog,
		logger:    logger,
		inflight:  make(map[string]struct{}),
	}
}

// Chat answers one user message with the catalog as context. A conversation
// answers one message at a time: a second message arriving while the first
// is still being generated is rejected, not queued.
func (s *ServiceImplementation) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, common.ErrBadRequest.WithDetails("Message must not be empty.")
	}

	if !s.generator.IsConfigured() {
		return &ChatResponse{Reply: unavailableReply}, nil
	}

	conversationID := req.ConversationID
	if !s.beginTurn(conversationID) {
		return nil, common.ErrConflict.WithDetails("The assistant is still answering the previous message.")
	}
	defer s.endTurn(conversationID)

	turns := make([]gemini.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := gemini.RoleUser
		if turn.Role == RoleModel {
			role = gemini.RoleModel
		}
		turns = append(turns, gemini.Content{Role: role, Parts: []gemini.Part{{Text: turn.Text}}})
	}
	turns = append(turns, gemini.Content{Role: gemini.RoleUser, Parts: []gemini.Part{{Text: message}}})

	reply, err := s.generator.GenerateContent(ctx, s.systemInstruction(ctx), turns)
	if err != nil {
		s.logger.Error("Assistant generation failed",
			zap.Error(err),
			zap.String("conversationID", conversationID),
		)
		return nil, common.ErrBadGateway.WithDetails("The assistant could not answer right now. Please try again.")
	}
	return &ChatResponse{Reply: reply}, nil
}

// Greeting returns the canned opener for the requested language, falling
// back to Spanish.
func (s *ServiceImplementation) Greeting(lang string) GreetingResponse {
	lang = strings.ToLower(strings.TrimSpace(lang))
	greeting, ok := greetings[lang]
	if !ok {
		lang = "es"
		greeting = greetings[lang]
	}
	return GreetingResponse{Greeting: greeting, Language: lang}
}

// beginTurn marks a conversation as answering. It reports false when the
// conversation is already answering a message. endTurn removes the mark, so
// the set only holds conversations with a generation in flight.
func (s *ServiceImplementation) beginTurn(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, answering := s.inflight[conversationID]; answering {
		return false
	}
	s.inflight[conversationID] = struct{}{}
	return true
}

func (s *ServiceImplementation) endTurn(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, conversationID)
}

// systemInstruction renders the assistant persona plus a JSON snapshot of
// the current catalog. A snapshot failure degrades to the persona alone.
func (s *ServiceImplementation) systemInstruction(ctx context.Context) string {
	properties, err := s.catalog.FindAll(ctx)
	if err != nil {
		s.logger.Warn("Assistant catalog snapshot failed", zap.Error(err))
		return systemInstructionHeader
	}

	type snapshotEntry struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Price       string `json:"price"`
		Location    string `json:"location"`
		Details     string `json:"details"`
		Description string `json:"description"`
	}

	snapshot := make([]snapshotEntry, len(properties))
	for i := range properties {
		p := &properties[i]
		snapshot[i] = snapshotEntry{
			ID:          p.ID.String(),
			Title:       p.Title,
			Price:       property.FormatPrice(p.Price, p.Currency),
			Location:    p.Location,
			Details:     fmt.Sprintf("%d beds, %g baths, %g m², %s", p.Beds, p.Baths, p.Sqft, p.Type),
			Description: p.Description,
		}
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("Assistant catalog snapshot encoding failed", zap.Error(err))
		return systemInstructionHeader
	}
	return systemInstructionHeader + "\n\nCatálogo actual:\n" + string(encoded)
}
