package oracle

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs the fixed prompts for both oracle calls.
type PromptBuilder struct{}

func (pb *PromptBuilder) BuildPlanPrompt(contextDoc, appSummary string) string {
	var sb strings.Builder
	sb.WriteString("Role: Senior integration engineer. Task: Plan the minimal set of file edits that embed the app below into the host platform.\n\n")
	sb.WriteString("### PLATFORM CONVENTIONS\n")
	sb.WriteString(contextDoc)
	sb.WriteString("\n\n### SCANNED APP\n")
	sb.WriteString(appSummary)
	sb.WriteString("\n\n**OUTPUT FORMAT (strict)**:\n")
	sb.WriteString("For each file to change, emit a block:\n")
	sb.WriteString("File: <path relative to the app root>\n")
	sb.WriteString("<one or more lines explaining what to change and why>\n\n")
	sb.WriteString("Blocks are separated by blank lines. Do not emit code, diffs, or any text before the first File: line.\n")
	return sb.String()
}

func (pb *PromptBuilder) BuildRewritePrompt(rationale, currentContent string) string {
	var sb strings.Builder
	sb.WriteString("Role: Senior integration engineer. Task: Rewrite one file so it satisfies the change described below.\n\n")
	fmt.Fprintf(&sb, "### REQUIRED CHANGE\n%s\n\n", rationale)
	if strings.TrimSpace(currentContent) == "" {
		sb.WriteString("### CURRENT CONTENT\n(the file does not exist yet; create it)\n\n")
	} else {
		fmt.Fprintf(&sb, "### CURRENT CONTENT\n%s\n\n", currentContent)
	}
	sb.WriteString("**OUTPUT FORMAT (strict)**:\n")
	sb.WriteString("Respond with the complete new file content and nothing else. No explanations, no markdown fences.\n")
	return sb.String()
}
