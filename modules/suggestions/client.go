package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/atrium-hq/atrium/internal/timerange"
)

// jsonArray extracts the first JSON array from free-text completion output.
// Models tend to wrap the array in prose or markdown fences.
var jsonArray = regexp.MustCompile(`(?s)\[.*?\]`)

// Client calls an OpenAI-compatible chat-completions endpoint to ask a model
// for alternative slots. Every call is bounded by the configured timeout.
type Client struct {
	url       string
	apiKey    string
	model     string
	openTime  string
	closeTime string
	client    *http.Client
}

func NewClient(url, apiKey, model, openTime, closeTime string, timeout time.Duration) *Client {
	return &Client{
		url:       url,
		apiKey:    apiKey,
		model:     model,
		openTime:  openTime,
		closeTime: closeTime,
		client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model for up to three alternative slots on the same date.
// Any transport, status, or parse failure is returned as an error - the
// service layer substitutes the generator and never surfaces it.
func (c *Client) Suggest(ctx context.Context, venue, date, startTime, endTime string, durationMinutes int, busy []Window) ([]Slot, error) {
	body, err := json.Marshal(&chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a venue booking assistant. Respond with a JSON array of time suggestions and nothing else."},
			{Role: "user", Content: c.prompt(venue, date, startTime, endTime, durationMinutes, busy)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("completions API error: %d", resp.StatusCode)
	}

	chat := &chatResponse{}
	if err := json.NewDecoder(resp.Body).Decode(chat); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}
	return parseSlots(chat.Choices[0].Message.Content)
}

func (c *Client) prompt(venue, date, startTime, endTime string, durationMinutes int, busy []Window) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A user wants to book venue %q on %s from %s to %s, but that window is taken.\n", venue, date, startTime, endTime)
	sb.WriteString("Existing bookings:\n")
	for _, w := range busy {
		fmt.Fprintf(&sb, "- %s to %s (purpose: %s)\n", w.Start, w.End, w.Purpose)
	}
	fmt.Fprintf(&sb, `
Suggest 3 alternative slots on the same day.
- Business hours are %s-%s
- Suggestions must not overlap the existing bookings
- Each suggestion must be %d minutes long

Respond with only a JSON array, no other text:
[{"startTime": "HH:MM", "endTime": "HH:MM"}, ...]`, c.openTime, c.closeTime, durationMinutes)
	return sb.String()
}

// parseSlots pulls a slot array out of free text, dropping malformed entries.
func parseSlots(content string) ([]Slot, error) {
	match := jsonArray.FindString(content)
	if match == "" {
		return nil, fmt.Errorf("no JSON array in completion output")
	}

	var raw []Slot
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, fmt.Errorf("parsing suggestions: %w", err)
	}

	slots := make([]Slot, 0, len(raw))
	for _, s := range raw {
		if !timerange.Valid(s.StartTime, s.EndTime) {
			continue
		}
		slots = append(slots, s)
		if len(slots) == maxSuggestions {
			break
		}
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("completion output contained no usable slots")
	}
	return slots, nil
}
