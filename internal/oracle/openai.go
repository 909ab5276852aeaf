package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIOracle implements Oracle against any OpenAI-compatible chat endpoint.
type OpenAIOracle struct {
	client        *http.Client
	apiKey        string
	model         string
	endpoint      string
	promptBuilder *PromptBuilder
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIOracle(apiKey, model, baseURL string) *OpenAIOracle {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &OpenAIOracle{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		apiKey:        apiKey,
		model:         model,
		endpoint:      endpoint,
		promptBuilder: &PromptBuilder{},
	}
}

func (o *OpenAIOracle) PlanEdits(ctx context.Context, contextDoc, appSummary string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildPlanPrompt(contextDoc, appSummary))
}

func (o *OpenAIOracle) RewriteFile(ctx context.Context, rationale, currentContent string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildRewritePrompt(rationale, currentContent))
}

func (o *OpenAIOracle) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(o.apiKey) == "" {
		return "", fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(o.model) == "" {
		return "", fmt.Errorf("openai model is required")
	}

	reqBody := openAIChatRequest{
		Model: o.model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai chat request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return stripCodeFences(parsed.Choices[0].Message.Content), nil
}
