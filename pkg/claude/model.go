package claude

import "github.com/bitop-dev/claude/pkg/claude/models"

// Model identifies a served Claude model version. The set of valid values
// is closed; use the exported constants rather than arbitrary strings so
// token-budget validation can consult the model registry.
type Model string

const (
	ModelClaudeOpus4_5       Model = "claude-opus-4-5"
	ModelClaudeOpus4         Model = "claude-opus-4"
	ModelClaudeSonnet4_5     Model = "claude-sonnet-4-5"
	ModelClaudeHaiku4_5      Model = "claude-haiku-4-5"
	ModelClaude3_7Sonnet     Model = "claude-3-7-sonnet-20250219"
	ModelClaude3_5Sonnet     Model = "claude-3-5-sonnet-20241022"
	ModelClaude3_5SonnetJune Model = "claude-3-5-sonnet-20240620"
	ModelClaude3_5Haiku      Model = "claude-3-5-haiku-20241022"
	ModelClaude3Opus         Model = "claude-3-opus-20240229"
	ModelClaude3Haiku        Model = "claude-3-haiku-20240307"
)

func (m Model) String() string { return string(m) }

// Known reports whether m is in the model registry.
func (m Model) Known() bool { return models.Lookup(string(m)) != nil }

// MaxOutputTokens returns the documented output-token ceiling for m, or 0
// when the model is unknown.
func (m Model) MaxOutputTokens() int { return models.MaxOutputFor(string(m)) }

// ContextWindow returns the documented context window for m, or 0 when the
// model is unknown.
func (m Model) ContextWindow() int { return models.ContextWindowFor(string(m)) }
