package claude

// RequestOptions are the optional knobs of a Messages request. Each field
// is independently validated by NewMessageRequest; nil pointer fields are
// omitted from the wire payload.
type RequestOptions struct {
	// System is the optional system prompt.
	System SystemPrompt

	// Stream requests the response as a server-sent event stream. Requests
	// with Stream set must go through Client.StreamMessage.
	Stream bool

	// Temperature controls randomness. Valid range: [0, 1].
	Temperature *float64

	// TopP enables nucleus sampling. Valid range: [0, 1].
	TopP *float64

	// TopK samples only from the top K options per token. Must be >= 1.
	TopK *int

	// StopSequences are custom sequences that end generation.
	StopSequences []string

	// Tools the model may invoke, and how it should choose among them.
	Tools      []Tool
	ToolChoice *ToolChoice
}

// MessageRequest is the outbound payload of the Messages API. Build it with
// NewMessageRequest; a constructed request is valid and never mutated by
// the client.
type MessageRequest struct {
	Model         Model        `json:"model"`
	Messages      []Message    `json:"messages"`
	MaxTokens     MaxTokens    `json:"max_tokens"`
	System        SystemPrompt `json:"system,omitempty"`
	StopSequences []string     `json:"stop_sequences,omitempty"`
	Stream        bool         `json:"stream,omitempty"`
	Temperature   *float64     `json:"temperature,omitempty"`
	TopP          *float64     `json:"top_p,omitempty"`
	TopK          *int         `json:"top_k,omitempty"`
	Tools         []Tool       `json:"tools,omitempty"`
	ToolChoice    *ToolChoice  `json:"tool_choice,omitempty"`
}

// NewMessageRequest assembles a validated request. maxTokens must come from
// NewMaxTokens for the same model. opts may be nil. No network or I/O.
func NewMessageRequest(model Model, messages []Message, maxTokens MaxTokens, opts *RequestOptions) (*MessageRequest, error) {
	if !model.Known() {
		return nil, &ValidationError{Field: "model", Value: model, Err: ErrUnknownModel}
	}
	if maxTokens <= 0 {
		return nil, &ValidationError{Field: "max_tokens", Value: int(maxTokens), Err: ErrNonPositive}
	}
	if int(maxTokens) > model.MaxOutputTokens() {
		return nil, &ValidationError{Field: "max_tokens", Value: int(maxTokens), Err: ErrExceedsModelLimit}
	}

	req := &MessageRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if opts == nil {
		return req, nil
	}

	if opts.Temperature != nil {
		if *opts.Temperature < 0 || *opts.Temperature > 1 {
			return nil, &ValidationError{Field: "temperature", Value: *opts.Temperature, Err: ErrOutOfRange}
		}
	}
	if opts.TopP != nil {
		if *opts.TopP < 0 || *opts.TopP > 1 {
			return nil, &ValidationError{Field: "top_p", Value: *opts.TopP, Err: ErrOutOfRange}
		}
	}
	if opts.TopK != nil {
		if *opts.TopK < 1 {
			return nil, &ValidationError{Field: "top_k", Value: *opts.TopK, Err: ErrOutOfRange}
		}
	}

	req.System = opts.System
	req.Stream = opts.Stream
	req.Temperature = opts.Temperature
	req.TopP = opts.TopP
	req.TopK = opts.TopK
	req.StopSequences = opts.StopSequences
	req.Tools = opts.Tools
	req.ToolChoice = opts.ToolChoice
	return req, nil
}
