// Package prompt renders an agent's template by substituting short-term
// history, retrieved long-term context, and the live input.
package prompt

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"parlor/internal/agent"
	"parlor/internal/core"
	"parlor/internal/memory"
)

var placeholderPattern = regexp.MustCompile(`\$(\w+)`)

// Engine assembles prompts. The retriever is only consulted for
// human-facing turns whose template asks for $context.
type Engine struct {
	retriever memory.Store
	topN      int
}

func NewEngine(retriever memory.Store, topN int) *Engine {
	if topN <= 0 {
		topN = memory.DefaultTopN
	}

	return &Engine{retriever: retriever, topN: topN}
}

// Render substitutes the placeholders present in the agent's template and
// returns the prompt text to send verbatim. Substitution is non-strict:
// placeholders without a known source stay literal. When agentToAgent is
// true the context placeholder resolves empty and no retrieval call is made.
func (e *Engine) Render(ctx context.Context, ag *agent.Agent, input, speaker string, agentToAgent bool) string {
	template := ag.Profile.Script()
	present := placeholdersIn(template)

	substitutions := map[string]string{
		"history":    formatHistory(ag.Cache.Recent()),
		"user_input": input,
		"username":   speaker,
		"context":    "",
	}

	if !agentToAgent && present["context"] {
		substitutions["context"] = e.retrieveContext(ctx, ag.Collection(speaker), input)
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1:]

		if value, ok := substitutions[name]; ok && present[name] {
			return value
		}

		return match
	})
}

func (e *Engine) retrieveContext(ctx context.Context, collection, input string) string {
	results, err := e.retriever.Query(ctx, collection, input, e.topN)
	if err != nil {
		// Retrieval being down degrades the turn, it does not abort it.
		slog.Warn("retrieval unavailable, rendering without context", "collection", collection, "error", err)
		return ""
	}

	return formatContext(results)
}

func placeholdersIn(template string) map[string]bool {
	present := make(map[string]bool)

	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		present[match[1]] = true
	}

	return present
}

// formatHistory renders cached turns as alternating speaker-labeled lines,
// oldest first.
func formatHistory(turns []core.Turn) string {
	var b strings.Builder

	for _, turn := range turns {
		b.WriteString(turn.Request.Speaker + ": " + turn.Request.Content + "\n")
		b.WriteString(turn.Response.Speaker + ": " + turn.Response.Content + "\n")
	}

	return b.String()
}

// formatContext renders retrieval hits as a labeled block.
func formatContext(results []memory.Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Relevant memories:\n")

	for _, r := range results {
		b.WriteString("- " + strings.TrimSpace(r.Content) + "\n")
	}

	return b.String()
}
