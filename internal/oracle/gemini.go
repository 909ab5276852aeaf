package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiOracle implements Oracle using Gemini text generation.
type GeminiOracle struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiOracle(ctx context.Context, apiKey string, modelName string) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiOracle{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (o *GeminiOracle) PlanEdits(ctx context.Context, contextDoc, appSummary string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildPlanPrompt(contextDoc, appSummary))
}

func (o *GeminiOracle) RewriteFile(ctx context.Context, rationale, currentContent string) (string, error) {
	return o.generate(ctx, o.promptBuilder.BuildRewritePrompt(rationale, currentContent))
}

func (o *GeminiOracle) generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.1)
	resp, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	return stripCodeFences(resp.Text()), nil
}
