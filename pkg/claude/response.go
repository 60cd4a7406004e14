package claude

import (
	"encoding/json"
	"strings"
)

// MessageResponse is the complete response body of a Messages call. For
// streaming calls the same shape arrives piecewise and can be rebuilt with
// the stream package's accumulator.
type MessageResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"` // "message"
	Role         Role           `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        Model          `json:"model"`
	StopReason   StopReason     `json:"stop_reason,omitempty"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

func (r *MessageResponse) UnmarshalJSON(data []byte) error {
	type alias MessageResponse
	var raw struct {
		alias
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = MessageResponse(raw.alias)
	r.Content = nil
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}
	blocks, err := unmarshalContentBlocks(raw.Content)
	if err != nil {
		return err
	}
	r.Content = blocks
	return nil
}

// Text returns the concatenation of all text blocks in the response
// content, in order.
func (r *MessageResponse) Text() string {
	var sb strings.Builder
	for _, b := range r.Content {
		if t, ok := b.(TextContent); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// ToolUses returns all tool_use blocks in the response content, in order.
func (r *MessageResponse) ToolUses() []ToolUseContent {
	var out []ToolUseContent
	for _, b := range r.Content {
		if t, ok := b.(ToolUseContent); ok {
			out = append(out, t)
		}
	}
	return out
}
