// Package claude defines the core types for the Anthropic Messages API:
// messages, content blocks, tools, validated request parameters, and the
// response body.
package claude

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Roles / stop reasons
// ---------------------------------------------------------------------------

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason reports why the model stopped generating.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonToolUse      StopReason = "tool_use"
)

// ---------------------------------------------------------------------------
// Content blocks
// ---------------------------------------------------------------------------

type TextContent struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

type ImageContent struct {
	Type   string      `json:"type"` // "image"
	Source ImageSource `json:"source"`
}

type ImageSource struct {
	Type      string `json:"type"`       // "base64"
	MediaType string `json:"media_type"` // e.g. "image/png"
	Data      string `json:"data"`       // base64-encoded bytes
}

// ToolUseContent is a tool invocation requested by the model.
type ToolUseContent struct {
	Type  string          `json:"type"` // "tool_use"
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"` // JSON object of arguments
}

// ToolResultContent carries the result of a tool invocation back to the
// model inside a user message.
type ToolResultContent struct {
	Type      string         `json:"type"` // "tool_result"
	ToolUseID string         `json:"tool_use_id"`
	Content   []ContentBlock `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// ContentBlock is the union of all content block kinds.
type ContentBlock interface {
	contentBlock()
}

func (TextContent) contentBlock()       {}
func (ImageContent) contentBlock()      {}
func (ToolUseContent) contentBlock()    {}
func (ToolResultContent) contentBlock() {}

// NewTextContent returns a text block with the type tag filled in.
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// NewImageContent returns a base64 image block.
func NewImageContent(mediaType, data string) ImageContent {
	return ImageContent{
		Type:   "image",
		Source: ImageSource{Type: "base64", MediaType: mediaType, Data: data},
	}
}

// UnmarshalContentBlock decodes one wire content block by its "type" tag.
// Used by the stream package for content_block_start payloads.
func UnmarshalContentBlock(data []byte) (ContentBlock, error) {
	return unmarshalContentBlock(data)
}

// unmarshalContentBlock decodes one wire content block by its "type" tag.
// Unrecognized tags are an error: response content is a closed set and new
// block kinds must be added here deliberately.
func unmarshalContentBlock(data []byte) (ContentBlock, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case "text":
		var b TextContent
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case "image":
		var b ImageContent
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case "tool_use":
		var b ToolUseContent
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case "tool_result":
		var raw struct {
			Type      string            `json:"type"`
			ToolUseID string            `json:"tool_use_id"`
			Content   []json.RawMessage `json:"content"`
			IsError   bool              `json:"is_error"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		b := ToolResultContent{Type: raw.Type, ToolUseID: raw.ToolUseID, IsError: raw.IsError}
		for _, inner := range raw.Content {
			blk, err := unmarshalContentBlock(inner)
			if err != nil {
				return nil, err
			}
			b.Content = append(b.Content, blk)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown content block type %q", probe.Type)
	}
}

func unmarshalContentBlocks(data []byte) ([]ContentBlock, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]ContentBlock, 0, len(raws))
	for _, r := range raws {
		b, err := unmarshalContentBlock(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// Message is one turn of the conversation. Messages are immutable once
// placed in a request; the client never mutates caller-owned messages.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewUserMessage returns a user message with a single text block.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{NewTextContent(text)}}
}

// NewAssistantMessage returns an assistant message with a single text block.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{NewTextContent(text)}}
}

// NewUserMessageBlocks returns a user message with arbitrary content blocks.
func NewUserMessageBlocks(blocks ...ContentBlock) Message {
	return Message{Role: RoleUser, Content: blocks}
}

// NewToolResultMessage wraps a tool result in the user message the API
// expects tool results to arrive in.
func NewToolResultMessage(toolUseID, text string, isError bool) Message {
	return Message{
		Role: RoleUser,
		Content: []ContentBlock{ToolResultContent{
			Type:      "tool_result",
			ToolUseID: toolUseID,
			Content:   []ContentBlock{NewTextContent(text)},
			IsError:   isError,
		}},
	}
}

// UnmarshalJSON accepts both wire shapes for content: a plain string or an
// array of content blocks.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = nil
	if len(raw.Content) == 0 {
		return nil
	}
	if raw.Content[0] == '"' {
		var s string
		if err := json.Unmarshal(raw.Content, &s); err != nil {
			return err
		}
		m.Content = []ContentBlock{NewTextContent(s)}
		return nil
	}
	blocks, err := unmarshalContentBlocks(raw.Content)
	if err != nil {
		return err
	}
	m.Content = blocks
	return nil
}

// Text returns the concatenation of all text blocks in the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, b := range m.Content {
		if t, ok := b.(TextContent); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Usage
// ---------------------------------------------------------------------------

// Usage holds token counts as reported by the API. The client passes these
// through without interpretation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ---------------------------------------------------------------------------
// Tools
// ---------------------------------------------------------------------------

// Tool describes a tool the model may invoke.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"` // JSON Schema object
}

// ToolChoice controls how the model selects tools.
type ToolChoice struct {
	Type string `json:"type"`           // "auto" | "any" | "tool"
	Name string `json:"name,omitempty"` // required when Type == "tool"
}
