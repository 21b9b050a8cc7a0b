package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ebowman/focal/internal/event"
)

const defaultModel = "gpt-4o"

// OpenAI extracts event fields with a single chat completion constrained
// to the wireEvent JSON schema.
type OpenAI struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAI(apiKey, baseURL, model string, logger *slog.Logger) *OpenAI {
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

func (o *OpenAI) Extract(ctx context.Context, input string, now time.Time) (*event.Event, error) {
	userPrompt := buildUserPrompt(input, now)

	o.logger.Debug("requesting extraction",
		"model", o.model,
		"input_len", len(input),
		"prompt_len", len(userPrompt),
	)

	start := time.Now()
	chat, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(300),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "calendar_event",
					Description: openai.String("Structured calendar event fields"),
					Schema:      eventSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	elapsed := time.Since(start)
	if err != nil {
		o.logger.Error("completion call failed", "error", err, "elapsed", elapsed)
		return nil, fmt.Errorf("calling completion endpoint: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	content := chat.Choices[0].Message.Content
	o.logger.Debug("model response", "elapsed", elapsed, "content", truncateStr(content, 2000))

	we, err := decodeWireEvent(content)
	if err != nil {
		o.logger.Error("failed to parse model response", "error", err, "raw", truncateStr(content, 1000))
		return nil, err
	}

	ev, err := we.toEvent()
	if err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("model returned incomplete event: %w", err)
	}
	return ev, nil
}

// decodeWireEvent tolerates fenced or prose-wrapped JSON around the object.
func decodeWireEvent(content string) (*wireEvent, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		first := strings.Index(s, "{")
		last := strings.LastIndex(s, "}")
		if first < 0 || last <= first {
			return nil, fmt.Errorf("model response contains no JSON object")
		}
		s = s[first : last+1]
	}

	var we wireEvent
	if err := json.Unmarshal([]byte(s), &we); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}
	return &we, nil
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func (we *wireEvent) toEvent() (*event.Event, error) {
	start, startDateOnly, err := parseTimestamp(we.Start)
	if err != nil {
		return nil, fmt.Errorf("parsing start %q: %w", we.Start, err)
	}

	ev := &event.Event{
		Title:    strings.TrimSpace(we.Title),
		Start:    start,
		AllDay:   we.AllDay || startDateOnly,
		Location: strings.TrimSpace(we.Location),
		Notes:    strings.TrimSpace(we.Notes),
	}

	if we.End != "" {
		end, _, err := parseTimestamp(we.End)
		if err != nil {
			return nil, fmt.Errorf("parsing end %q: %w", we.End, err)
		}
		ev.End = end
	}

	ev.Normalize()
	return ev, nil
}

func parseTimestamp(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err = time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, layout == "2006-01-02", nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp format")
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
