// Package models provides a registry of static metadata for the Claude
// model family.
//
// Usage:
//
//	info := models.Lookup("claude-sonnet-4-5-20251219")
//	if info != nil {
//	    fmt.Println(info.MaxOutputTokens)  // 64000
//	}
package models

import "strings"

// ---------------------------------------------------------------------------
// ModelInfo
// ---------------------------------------------------------------------------

// ModelInfo holds static metadata for a known model.
type ModelInfo struct {
	// ID is the canonical model identifier string.
	ID string

	// DisplayName is a short human-readable name.
	DisplayName string

	// ContextWindow is the maximum number of input tokens (prompt + history).
	ContextWindow int

	// MaxOutputTokens is the maximum tokens the model will generate in one
	// response. Requests asking for more are rejected by the API, so the
	// client validates against this ceiling before sending anything.
	MaxOutputTokens int

	// SupportsVision is true when the model accepts image inputs.
	SupportsVision bool

	// SupportsThinking is true when the model has an extended-reasoning mode.
	SupportsThinking bool
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// registry holds all known models, indexed by their canonical ID.
var registry = buildRegistry()

// Lookup returns the ModelInfo for id (exact match first, then prefix
// match). Returns nil if the model is unknown.
func Lookup(id string) *ModelInfo {
	if m, ok := registry[id]; ok {
		return m
	}
	// Fuzzy: check if any registered key is a prefix of id or vice-versa.
	// This handles versioned IDs like "claude-sonnet-4-5-20251219" matching
	// a key registered as "claude-sonnet-4-5".
	id = strings.ToLower(id)
	for k, m := range registry {
		kl := strings.ToLower(k)
		if strings.HasPrefix(id, kl) || strings.HasPrefix(kl, id) {
			return m
		}
	}
	return nil
}

// ContextWindowFor returns the context window for id, or 0 if unknown.
func ContextWindowFor(id string) int {
	if m := Lookup(id); m != nil {
		return m.ContextWindow
	}
	return 0
}

// MaxOutputFor returns the max output tokens for id, or 0 if unknown.
func MaxOutputFor(id string) int {
	if m := Lookup(id); m != nil {
		return m.MaxOutputTokens
	}
	return 0
}

// All returns every registered ModelInfo, unsorted.
func All() []*ModelInfo {
	out := make([]*ModelInfo, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	return out
}

// ---------------------------------------------------------------------------
// Registry builder
// ---------------------------------------------------------------------------

func reg(m ModelInfo) *ModelInfo { return &m }

func buildRegistry() map[string]*ModelInfo {
	ms := []*ModelInfo{
		reg(ModelInfo{
			ID: "claude-opus-4-5", DisplayName: "Claude Opus 4.5",
			ContextWindow: 200000, MaxOutputTokens: 32000,
			SupportsVision: true, SupportsThinking: true,
		}),
		reg(ModelInfo{
			ID: "claude-opus-4", DisplayName: "Claude Opus 4",
			ContextWindow: 200000, MaxOutputTokens: 32000,
			SupportsVision: true, SupportsThinking: true,
		}),
		reg(ModelInfo{
			ID: "claude-sonnet-4-5", DisplayName: "Claude Sonnet 4.5",
			ContextWindow: 200000, MaxOutputTokens: 64000,
			SupportsVision: true, SupportsThinking: true,
		}),
		reg(ModelInfo{
			ID: "claude-haiku-4-5", DisplayName: "Claude Haiku 4.5",
			ContextWindow: 200000, MaxOutputTokens: 16000,
			SupportsVision: true, SupportsThinking: false,
		}),
		reg(ModelInfo{
			ID: "claude-3-7-sonnet-20250219", DisplayName: "Claude 3.7 Sonnet",
			ContextWindow: 200000, MaxOutputTokens: 64000,
			SupportsVision: true, SupportsThinking: true,
		}),
		reg(ModelInfo{
			ID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet",
			ContextWindow: 200000, MaxOutputTokens: 8192,
			SupportsVision: true, SupportsThinking: false,
		}),
		reg(ModelInfo{
			ID: "claude-3-5-sonnet-20240620", DisplayName: "Claude 3.5 Sonnet (June)",
			ContextWindow: 200000, MaxOutputTokens: 8192,
			SupportsVision: true, SupportsThinking: false,
		}),
		reg(ModelInfo{
			ID: "claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku",
			ContextWindow: 200000, MaxOutputTokens: 8192,
			SupportsVision: true, SupportsThinking: false,
		}),
		reg(ModelInfo{
			ID: "claude-3-opus-20240229", DisplayName: "Claude 3 Opus",
			ContextWindow: 200000, MaxOutputTokens: 4096,
			SupportsVision: true, SupportsThinking: false,
		}),
		reg(ModelInfo{
			ID: "claude-3-haiku-20240307", DisplayName: "Claude 3 Haiku",
			ContextWindow: 200000, MaxOutputTokens: 4096,
			SupportsVision: true, SupportsThinking: false,
		}),
	}

	out := make(map[string]*ModelInfo, len(ms))
	for _, m := range ms {
		out[m.ID] = m
	}
	return out
}
