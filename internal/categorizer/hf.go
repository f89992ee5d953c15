package categorizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"innovation_hunt/internal/model"

	"github.com/goccy/go-json"
)

const defaultAPIURL = "https://router.huggingface.co/v1/chat/completions"

const systemPrompt = "You categorize event participants. " +
	"Return ONLY valid JSON (no markdown) with keys: category, reasoning. " +
	"category must be one of: LEAD, TALENT, PARTNER."

type Config struct {
	Token       string  `json:"token"`
	Model       string  `json:"model"`
	APIURL      string  `json:"apiUrl"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// HFClient calls Hugging Face hosted inference through the OpenAI-compatible
// chat completions endpoint.
type HFClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewHFClient(cfg Config) *HFClient {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	return &HFClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
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
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HFClient) Categorize(ctx context.Context, profileText string) (Result, error) {
	if c.cfg.Token == "" {
		return Result{}, errors.New("missing hugging face token")
	}

	prompt := "Given this profile text, categorize the person as: " +
		"LEAD (decision maker), TALENT (dev/designer/manager), or PARTNER (other tech entities).\n\n" +
		"PROFILE:\n" + profileText

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("inference endpoint returned %d: %s",
			resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("unparseable inference response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, errors.New("empty inference response")
	}

	return parseModelOutput(parsed.Choices[0].Message.Content), nil
}

// parseModelOutput tolerates sloppy model output: code fences, prose around
// the JSON object, unknown labels. Anything unusable becomes PARTNER with
// the raw output kept as reasoning.
func parseModelOutput(raw string) Result {
	raw = stripCodeFences(raw)

	jsonText := extractJSON(raw)
	if jsonText == "" {
		reasoning := "Unparseable model output"
		if raw != "" {
			reasoning = truncate(raw, maxReasoningLen)
		}
		return Result{Category: model.CategoryPartner, Reasoning: reasoning}
	}

	var out struct {
		Category  string `json:"category"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(jsonText), &out); err != nil {
		return Result{
			Category:  model.CategoryPartner,
			Reasoning: truncate(raw, maxReasoningLen),
		}
	}

	return Result{
		Category:  model.ParseCategory(strings.ToUpper(strings.TrimSpace(out.Category))),
		Reasoning: truncate(out.Reasoning, maxReasoningLen),
	}
}

func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if idx := strings.Index(t, "\n"); idx >= 0 {
		t = t[idx+1:]
	} else {
		return ""
	}
	if idx := strings.LastIndex(t, "```"); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
