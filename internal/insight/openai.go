package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/studyplan/pkg/model"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIGenerator asks an OpenAI-compatible chat endpoint for study tips on
// a computed schedule. The response text is passed through verbatim.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	local   *LocalGenerator
	logger  *slog.Logger
}

// NewOpenAIGenerator creates a generator using the given API key and model.
func NewOpenAIGenerator(apiKey, chatModel string, logger *slog.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   chatModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		local:   NewLocalGenerator(),
		logger:  logger.With("component", "insight"),
	}
}

// WithBaseURL overrides the API endpoint (used in tests).
func (g *OpenAIGenerator) WithBaseURL(url string) *OpenAIGenerator {
	g.baseURL = strings.TrimRight(url, "/")
	return g
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate builds the local summary first, then asks the model for tips on
// top of it. Any failure falls back to the local result so scheduling is
// never blocked on the AI service.
func (g *OpenAIGenerator) Generate(ctx context.Context, tasks []model.Task, entries []model.ScheduleEntry) (*model.Insights, error) {
	ins, err := g.local.Generate(ctx, tasks, entries)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return ins, nil
	}

	tips, err := g.requestTips(ctx, tasks, entries)
	if err != nil {
		g.logger.Warn("ai insight unavailable, using local summary", "error", err)
		return ins, nil
	}

	ins.Source = "ai"
	ins.Tips = tips
	return ins, nil
}

func (g *OpenAIGenerator) requestTips(ctx context.Context, tasks []model.Task, entries []model.ScheduleEntry) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("You are a study coach. Given this schedule, reply with up to three short tips, one per line, no numbering.\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "- %s on %s at %02d:%02d for %d min\n",
			e.Title, e.Date, e.StartMinutes/60, e.StartMinutes%60, e.DurationMinutes)
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: sb.String()},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("chat completion: status %d: %s", res.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chat completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}

	var tips []string
	for _, line := range strings.Split(parsed.Choices[0].Message.Content, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			tips = append(tips, line)
		}
	}
	return tips, nil
}
