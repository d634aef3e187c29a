// File: internal/assistant/service_test.go
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/platform/gemini"
	"conesa_estates_backend/internal/property"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGenerator records calls and can block or fail on demand.
type fakeGenerator struct {
	configured bool
	reply      string
	err        error
	block      chan struct{} // when non-nil, GenerateContent waits on it

	mu          sync.Mutex
	calls       int32
	lastSystem  string
	lastTurns   []gemini.Content
}

func (f *fakeGenerator) IsConfigured() bool { return f.configured }

func (f *fakeGenerator) GenerateContent(_ context.Context, systemInstruction string, turns []gemini.Content) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.lastSystem = systemInstruction
	f.lastTurns = turns
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

type fakeCatalog struct {
	properties []property.Property
	err        error
}

func (f *fakeCatalog) FindAll(context.Context) ([]property.Property, error) {
	return f.properties, f.err
}

func sampleSnapshot() *fakeCatalog {
	casa := property.Property{
		Title:       "Casa Roca",
		Location:    "Jujuy",
		Type:        "House",
		Currency:    "USD",
		Price:       250000,
		Beds:        3,
		Baths:       2,
		Sqft:        180,
		Description: "Casa con patio.",
	}
	return &fakeCatalog{properties: []property.Property{casa}}
}

func TestChatSendsFullTranscriptInOneCall(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "Claro, la Casa Roca sigue disponible."}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	response, err := svc.Chat(context.Background(), ChatRequest{
		ConversationID: "conv-1",
		Message:        "¿Sigue disponible la Casa Roca?",
		History: []ChatTurn{
			{Role: RoleUser, Text: "Hola"},
			{Role: RoleModel, Text: "¡Hola! ¿En qué puedo ayudarte?"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Claro, la Casa Roca sigue disponible.", response.Reply)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gen.calls))

	require.Len(t, gen.lastTurns, 3)
	assert.Equal(t, gemini.RoleUser, gen.lastTurns[0].Role)
	assert.Equal(t, gemini.RoleModel, gen.lastTurns[1].Role)
	assert.Equal(t, gemini.RoleUser, gen.lastTurns[2].Role)
	assert.Equal(t, "¿Sigue disponible la Casa Roca?", gen.lastTurns[2].Parts[0].Text)

	assert.Contains(t, gen.lastSystem, "Casa Roca")
	assert.Contains(t, gen.lastSystem, "U$S 250,000")
	assert.Contains(t, gen.lastSystem, "3 beds, 2 baths, 180 m², House")
}

func TestChatRejectsConcurrentMessageForSameConversation(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "ok", block: make(chan struct{})}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "primera"})
		firstDone <- err
	}()

	// Wait until the first message holds the gate.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&gen.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "segunda"})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)

	// A different conversation is not blocked.
	gen2 := &fakeGenerator{configured: true, reply: "ok"}
	svc2 := NewService(gen2, sampleSnapshot(), zap.NewNop())
	_, err = svc2.Chat(context.Background(), ChatRequest{ConversationID: "conv-2", Message: "hola"})
	require.NoError(t, err)

	close(gen.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gen.calls))
}

func TestChatReleasesGateAfterEveryConversation(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "ok"}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	for _, id := range []string{"conv-1", "conv-2", "conv-3"} {
		_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: id, Message: "hola"})
		require.NoError(t, err)
	}
	// A failed generation must release its gate too.
	genErr := &fakeGenerator{configured: true, err: errors.New("upstream down")}
	svcErr := NewService(genErr, sampleSnapshot(), zap.NewNop())
	_, err := svcErr.Chat(context.Background(), ChatRequest{ConversationID: "conv-err", Message: "hola"})
	require.Error(t, err)

	// Finished conversations leave nothing behind, so the gate state does
	// not grow with the number of distinct conversation IDs.
	svc.mu.Lock()
	assert.Empty(t, svc.inflight)
	svc.mu.Unlock()

	svcErr.mu.Lock()
	assert.Empty(t, svcErr.inflight)
	svcErr.mu.Unlock()

	// And the conversation can continue afterwards.
	_, err = svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "otra consulta"})
	require.NoError(t, err)
}

func TestChatRejectsBlankMessageWithoutCalling(t *testing.T) {
	gen := &fakeGenerator{configured: true}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "   \n\t"})

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gen.calls))
}

func TestChatUnconfiguredReturnsFixedReply(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	response, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "hola"})

	require.NoError(t, err)
	assert.Equal(t, unavailableReply, response.Reply)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gen.calls))
}

func TestChatGenerationFailureMapsToBadGateway(t *testing.T) {
	gen := &fakeGenerator{configured: true, err: errors.New("upstream exploded")}
	svc := NewService(gen, sampleSnapshot(), zap.NewNop())

	_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "hola"})

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrBadGateway.Code, apiErr.Code)
	// The upstream error text never reaches the client.
	assert.NotContains(t, apiErr.Error(), "exploded")
}

func TestChatSnapshotFailureDegradesToPersona(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "ok"}
	svc := NewService(gen, &fakeCatalog{err: errors.New("db down")}, zap.NewNop())

	_, err := svc.Chat(context.Background(), ChatRequest{ConversationID: "conv-1", Message: "hola"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gen.lastSystem, "Eres el asistente virtual"))
	assert.NotContains(t, gen.lastSystem, "Catálogo actual")
}

func TestGreeting(t *testing.T) {
	svc := NewService(&fakeGenerator{}, sampleSnapshot(), zap.NewNop())

	es := svc.Greeting("es")
	assert.Equal(t, "es", es.Language)
	assert.Contains(t, es.Greeting, "Conesa Estates")

	en := svc.Greeting("EN")
	assert.Equal(t, "en", en.Language)

	fallback := svc.Greeting("fr")
	assert.Equal(t, "es", fallback.Language)
}
