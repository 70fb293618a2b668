// Package swarm fans a prompt out to several chat models behind an
// OpenRouter-compatible gateway and collects one answer per model.
package swarm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"moonflow/config"
	"moonflow/logger"
)

const gatewayKeyEnvVar = "OPENROUTER_API_KEY"

// Model pairs a display name with the gateway model identifier.
type Model struct {
	Name string
	ID   string
}

// DefaultModels is the stock roster. One gateway key covers all of them.
var DefaultModels = []Model{
	{"Claude Sonnet 4", "anthropic/claude-sonnet-4"},
	{"GPT-4o", "openai/gpt-4o"},
	{"Qwen Max", "qwen/qwen-max"},
	{"GLM-4.7", "z-ai/glm-4.7"},
	{"Gemini 3 Flash", "google/gemini-3-flash-preview"},
	{"DeepSeek R1", "deepseek/deepseek-r1"},
}

// DefaultSystemPrompt frames every model as a trading analyst unless the
// caller overrides it.
const DefaultSystemPrompt = "You are a helpful trading analyst."

// Result is one model's answer, or the error that prevented it. A failed
// model never aborts the sweep.
type Result struct {
	Model    string
	Response string
	Err      error
}

// Agent queries every model in its roster concurrently.
type Agent struct {
	gatewayURL  string
	apiKey      string
	models      []Model
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	log         *logger.Log
}

// New builds an agent from configuration. The gateway key comes from the
// config or the OPENROUTER_API_KEY environment variable; models overrides
// the default roster when non-empty.
func New(cfg config.SwarmConfig, models ...Model) (*Agent, error) {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = strings.TrimSpace(os.Getenv(gatewayKeyEnvVar))
	}
	if key == "" {
		return nil, fmt.Errorf("swarm: no gateway key provided and %s is not set", gatewayKeyEnvVar)
	}

	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		gatewayURL = config.DefaultGatewayURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	roster := models
	if len(roster) == 0 {
		roster = DefaultModels
	}

	return &Agent{
		gatewayURL:  strings.TrimRight(gatewayURL, "/"),
		apiKey:      key,
		models:      roster,
		maxTokens:   maxTokens,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
		log:         logger.GetLogger(),
	}, nil
}

// Models reports the active roster.
func (a *Agent) Models() []Model {
	out := make([]Model, len(a.models))
	copy(out, a.models)
	return out
}

// Query sends the prompt to every model concurrently and returns results in
// roster order.
func (a *Agent) Query(ctx context.Context, prompt, systemPrompt string) []Result {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	log := a.log.WithComponent("swarm")
	log.WithFields(logger.Fields{"models": len(a.models)}).Info("querying model swarm")

	results := make([]Result, len(a.models))
	var wg sync.WaitGroup
	for i, m := range a.models {
		wg.Add(1)
		go func(i int, m Model) {
			defer wg.Done()
			response, err := a.queryModel(ctx, m, prompt, systemPrompt)
			results[i] = Result{Model: m.Name, Response: response, Err: err}
			if err != nil {
				log.WithError(err).WithFields(logger.Fields{"model": m.Name}).Warn("model query failed")
			} else {
				log.WithFields(logger.Fields{"model": m.Name}).Debug("model answered")
			}
		}(i, m)
	}
	wg.Wait()

	return results
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Agent) queryModel(ctx context.Context, m Model, prompt, systemPrompt string) (string, error) {
	payload := chatRequest{
		Model: m.ID,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.gatewayURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gateway error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("gateway returned no choices")
	}

	return stripThinkTags(parsed.Choices[0].Message.Content), nil
}

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// stripThinkTags removes reasoning traces that some models embed in their
// visible output.
func stripThinkTags(s string) string {
	return strings.TrimSpace(thinkTagRe.ReplaceAllString(s, ""))
}
