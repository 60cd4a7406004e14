// Package stream decodes the Messages API event stream into typed chunks
// and can fold a chunk sequence back into a complete response.
//
// The decoder is a pull-based pipeline stage: each call to Next consumes at
// most one frame from the SSE reader and yields exactly one chunk or one
// per-item error. Protocol-shape violations are surfaced as *DecodeError
// items without corrupting chunks already delivered.
package stream

import (
	"encoding/json"

	"github.com/bitop-dev/claude/pkg/claude"
)

// ChunkKind names a chunk variant. The set is closed: every recognized
// wire event label maps to exactly one kind, and anything else becomes
// KindUnknown so protocol evolution is observable rather than dropped.
type ChunkKind string

const (
	KindMessageStart      ChunkKind = "message_start"
	KindContentBlockStart ChunkKind = "content_block_start"
	KindContentBlockDelta ChunkKind = "content_block_delta"
	KindContentBlockStop  ChunkKind = "content_block_stop"
	KindMessageDelta      ChunkKind = "message_delta"
	KindMessageStop       ChunkKind = "message_stop"
	KindPing              ChunkKind = "ping"
	KindError             ChunkKind = "error"
	KindUnknown           ChunkKind = "unknown"
)

// Chunk is one decoded unit of a streaming response.
type Chunk interface {
	Kind() ChunkKind
}

// MessageStart opens the stream. Message carries the response metadata and
// the usage reported so far; its content is empty.
type MessageStart struct {
	Message claude.MessageResponse
}

// ContentBlockStart opens the content block at Index. Block holds the
// block's initial shape (empty text, or a tool_use header).
type ContentBlockStart struct {
	Index int
	Block claude.ContentBlock
}

// Delta is the incremental payload of a ContentBlockDelta.
type Delta struct {
	Type        string `json:"type"` // "text_delta" | "input_json_delta"
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// ContentBlockDelta appends to the open block at Index.
type ContentBlockDelta struct {
	Index int
	Delta Delta
}

// ContentBlockStop finalizes the block at Index; no further deltas for that
// index are accepted.
type ContentBlockStop struct {
	Index int
}

// MessageDelta updates top-level metadata mid-stream: the stop reason once
// known, and cumulative output-token usage.
type MessageDelta struct {
	StopReason   claude.StopReason
	StopSequence string
	Usage        claude.Usage
}

// MessageStop is the normal terminal chunk.
type MessageStop struct{}

// Ping is a keep-alive; it carries no payload.
type Ping struct{}

// ErrorEvent is a server-reported error delivered in-stream. It is
// terminal: no chunks follow it.
type ErrorEvent struct {
	ErrorType string
	Message   string
}

// Unknown preserves a frame whose event label is not in the recognized
// vocabulary, so callers can detect protocol evolution.
type Unknown struct {
	Event string
	Data  string
}

func (MessageStart) Kind() ChunkKind      { return KindMessageStart }
func (ContentBlockStart) Kind() ChunkKind { return KindContentBlockStart }
func (ContentBlockDelta) Kind() ChunkKind { return KindContentBlockDelta }
func (ContentBlockStop) Kind() ChunkKind  { return KindContentBlockStop }
func (MessageDelta) Kind() ChunkKind      { return KindMessageDelta }
func (MessageStop) Kind() ChunkKind       { return KindMessageStop }
func (Ping) Kind() ChunkKind              { return KindPing }
func (ErrorEvent) Kind() ChunkKind        { return KindError }
func (Unknown) Kind() ChunkKind           { return KindUnknown }

// Err converts a terminal ErrorEvent into the claude error type, for
// callers that want to propagate it as a Go error.
func (e ErrorEvent) Err() error {
	return &claude.APIError{Type: claude.APIErrorType(e.ErrorType), Message: e.Message}
}

// ---------------------------------------------------------------------------
// Wire payloads
// ---------------------------------------------------------------------------

type wireMessageStart struct {
	Message claude.MessageResponse `json:"message"`
}

type wireContentBlockStart struct {
	Index        int             `json:"index"`
	ContentBlock json.RawMessage `json:"content_block"`
}

type wireContentBlockDelta struct {
	Index int   `json:"index"`
	Delta Delta `json:"delta"`
}

type wireIndexOnly struct {
	Index int `json:"index"`
}

type wireMessageDelta struct {
	Delta struct {
		StopReason   claude.StopReason `json:"stop_reason"`
		StopSequence string            `json:"stop_sequence"`
	} `json:"delta"`
	Usage claude.Usage `json:"usage"`
}

type wireError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
