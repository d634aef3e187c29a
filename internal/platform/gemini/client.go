package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"conesa_estates_backend/internal/config"
)

// Conversation roles understood by the generateContent endpoint.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one text fragment of a content block.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of the conversation sent to the model.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type generateContentRequest struct {
	SystemInstruction *Content `json:"system_instruction,omitempty"`
	Contents          []Content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Client calls the Gemini generateContent REST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	logger     *zap.Logger
}

// NewClient builds the client. The client is always non-nil; when the API
// key is missing IsConfigured reports false and callers substitute a fixed
// "not configured" reply instead of calling out.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(cfg.GeminiBaseURL, "/"),
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
		logger:     logger.Named("gemini_client"),
	}
}

// IsConfigured reports whether an API key is available.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// GenerateContent sends the system instruction plus conversation turns and
// returns the model's text reply.
func (c *Client) GenerateContent(ctx context.Context, systemInstruction string, turns []Content) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("gemini client is not configured")
	}

	reqBody := generateContentRequest{
		Contents: turns,
	}
	if systemInstruction != "" {
		reqBody.SystemInstruction = &Content{Parts: []Part{{Text: systemInstruction}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generateContent request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generateContent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send generateContent request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read generateContent response: %w", err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode generateContent response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode != http.StatusOK || parsed.Error != nil {
		msg := res.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		c.logger.Warn("Gemini API returned an error",
			zap.Int("status_code", res.StatusCode),
			zap.String("message", msg),
		)
		return "", fmt.Errorf("gemini API error: %s", msg)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
