package claude

// MaxTokens is a validated output-token budget. Construct it with
// NewMaxTokens so the value is checked against the model's ceiling; the
// zero value is invalid and will be rejected by the API.
type MaxTokens int

// NewMaxTokens validates requested against the output ceiling of model.
// It fails with ErrNonPositive when requested <= 0, ErrUnknownModel when
// the model has no registry entry, and ErrExceedsModelLimit when requested
// is above the model's documented maximum. Pure function, no side effects.
func NewMaxTokens(requested int, model Model) (MaxTokens, error) {
	if requested <= 0 {
		return 0, &ValidationError{Field: "max_tokens", Value: requested, Err: ErrNonPositive}
	}
	ceiling := model.MaxOutputTokens()
	if ceiling == 0 {
		return 0, &ValidationError{Field: "model", Value: model, Err: ErrUnknownModel}
	}
	if requested > ceiling {
		return 0, &ValidationError{Field: "max_tokens", Value: requested, Err: ErrExceedsModelLimit}
	}
	return MaxTokens(requested), nil
}

// SystemPrompt is the system instruction sent with a request. Empty text is
// permitted (the API treats it as absent) but rarely what you want; there
// is no hidden validation beyond the type wrapper.
type SystemPrompt string

// NewSystemPrompt wraps text as a SystemPrompt.
func NewSystemPrompt(text string) SystemPrompt { return SystemPrompt(text) }
