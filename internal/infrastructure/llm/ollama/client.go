package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/infrastructure/resilience"
)

const chatOperation = "ollama_stylist_chat"

type Client struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	executor    *resilience.Executor
}

func New(baseURL, model string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1})
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: 0.9,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    executor,
	}
}

// Stylist asks a chat model to assemble an outfit. It only parses the
// reply; category checks happen in the outfit engine.
type Stylist struct {
	client *Client
}

func NewStylist(client *Client) *Stylist {
	return &Stylist{client: client}
}

func (s *Stylist) ProposeOutfit(ctx context.Context, req domain.AdvisoryRequest) (domain.AdvisoryProposal, error) {
	prompt, err := buildStylistPrompt(req)
	if err != nil {
		return domain.AdvisoryProposal{}, err
	}
	content, err := s.client.chatJSON(ctx, stylistSystemPrompt, prompt)
	if err != nil {
		return domain.AdvisoryProposal{}, err
	}
	return parseProposal(content)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (c *Client) chatJSON(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": c.temperature},
	}

	var response chatResponse
	err := c.executor.Execute(ctx, chatOperation, func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/chat", reqBody, &response, "chat")
	}, classifyStylistError)
	if err != nil {
		return "", stylistCallError(err)
	}
	return strings.TrimSpace(response.Message.Content), nil
}

type proposalPayload struct {
	Outfit    map[string]json.RawMessage `json:"outfit"`
	Reasoning string                     `json:"reasoning"`
}

func parseProposal(content string) (domain.AdvisoryProposal, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return domain.AdvisoryProposal{}, domain.WrapError(domain.ErrMalformedAdvice, "parse stylist response", errors.New("no json object in response"))
	}

	var payload proposalPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.AdvisoryProposal{}, domain.WrapError(domain.ErrMalformedAdvice, "parse stylist response", err)
	}
	if payload.Outfit == nil {
		return domain.AdvisoryProposal{}, domain.WrapError(domain.ErrMalformedAdvice, "parse stylist response", errors.New("missing outfit object"))
	}

	proposal := domain.AdvisoryProposal{
		Outfit:    make(map[string]*string, len(payload.Outfit)),
		Reasoning: strings.TrimSpace(payload.Reasoning),
	}
	for slot, value := range payload.Outfit {
		proposal.Outfit[slot] = decodeSlotValue(value)
	}
	return proposal, nil
}

// decodeSlotValue accepts a string ID, null, or a bare number some models
// emit for numeric IDs. Anything else leaves the slot empty.
func decodeSlotValue(value json.RawMessage) *string {
	if string(bytes.TrimSpace(value)) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(value, &id); err == nil {
		return &id
	}
	var num json.Number
	if err := json.Unmarshal(value, &num); err == nil {
		id = num.String()
		return &id
	}
	return nil
}

// extractJSONObject returns the first balanced {...} in raw, skipping braces
// inside string literals and any markdown fence around the payload.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
