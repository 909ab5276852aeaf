// Package oracle wraps the external LLM used as a code-transformation engine.
// The oracle is untrusted: callers must treat every response as potentially
// malformed text, never as guaranteed-valid code.
package oracle

import (
	"context"
	"fmt"
	"strings"
)

// Oracle is the two-call protocol the mutation engine speaks: one call to
// plan edits across the app, then one call per file to produce a full
// replacement.
type Oracle interface {
	// PlanEdits returns free text expected (but not guaranteed) to follow
	// the "File: <path>" directive grammar.
	PlanEdits(ctx context.Context, contextDoc, appSummary string) (string, error)

	// RewriteFile returns the complete new content for one file. The raw
	// response is used verbatim after code-fence stripping; there is no
	// diffing or merging.
	RewriteFile(ctx context.Context, rationale, currentContent string) (string, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds an Oracle for the configured provider.
func New(ctx context.Context, opts Options) (Oracle, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiOracle(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAIOracle(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", opts.Provider)
	}
}
