package stream

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/bitop-dev/claude/pkg/claude"
)

// ChunkSource yields decoded chunks. *Decoder and *Stream satisfy it.
type ChunkSource interface {
	Next() (Chunk, error)
}

// blockAccum rebuilds one content block from its start + deltas.
type blockAccum struct {
	start claude.ContentBlock
	text  strings.Builder // text_delta payloads
	args  strings.Builder // input_json_delta payloads
}

// Accumulator folds an ordered chunk sequence into a complete response.
// Feed it chunks with Add, then call Response. It is a read-only consumer:
// chunks are never mutated.
type Accumulator struct {
	resp     claude.MessageResponse
	started  bool
	terminal bool
	blocks   map[int]*blockAccum
	order    []int // block indices in arrival order of their start chunks
}

func NewAccumulator() *Accumulator {
	return &Accumulator{blocks: make(map[int]*blockAccum)}
}

// Add folds one chunk into the accumulated state. Ping and Unknown chunks
// are ignored; everything else contributes to the final response.
func (a *Accumulator) Add(c Chunk) {
	switch ch := c.(type) {
	case MessageStart:
		a.resp = ch.Message
		a.resp.Content = nil
		a.started = true
	case ContentBlockStart:
		if _, ok := a.blocks[ch.Index]; !ok {
			a.order = append(a.order, ch.Index)
		}
		a.blocks[ch.Index] = &blockAccum{start: ch.Block}
	case ContentBlockDelta:
		b, ok := a.blocks[ch.Index]
		if !ok {
			return
		}
		switch ch.Delta.Type {
		case "text_delta":
			b.text.WriteString(ch.Delta.Text)
		case "input_json_delta":
			b.args.WriteString(ch.Delta.PartialJSON)
		}
	case MessageDelta:
		if ch.StopReason != "" {
			a.resp.StopReason = ch.StopReason
		}
		if ch.StopSequence != "" {
			a.resp.StopSequence = ch.StopSequence
		}
		if ch.Usage.OutputTokens != 0 {
			a.resp.Usage.OutputTokens = ch.Usage.OutputTokens
		}
		if ch.Usage.InputTokens != 0 {
			a.resp.Usage.InputTokens = ch.Usage.InputTokens
		}
	case MessageStop:
		a.terminal = true
	}
}

// Response assembles the final message: blocks ordered by index, each
// block's deltas concatenated in arrival order. It does not check that the
// stream completed — Collect does that.
func (a *Accumulator) Response() *claude.MessageResponse {
	resp := a.resp
	indices := append([]int(nil), a.order...)
	sort.Ints(indices)
	for _, idx := range indices {
		b := a.blocks[idx]
		switch start := b.start.(type) {
		case claude.TextContent:
			start.Text += b.text.String()
			resp.Content = append(resp.Content, start)
		case claude.ToolUseContent:
			if b.args.Len() > 0 {
				start.Input = json.RawMessage(b.args.String())
			}
			resp.Content = append(resp.Content, start)
		default:
			resp.Content = append(resp.Content, b.start)
		}
	}
	return &resp
}

// Collect drains src and folds it into a complete response.
//
// It fails with an *AggregationError: Incomplete when the sequence ends
// without message_stop, or wrapping the propagated error when any item was
// itself an error or the server sent an in-stream error event. A partial
// result is never passed off as success.
func Collect(src ChunkSource) (*claude.MessageResponse, error) {
	acc := NewAccumulator()
	for {
		c, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &AggregationError{Err: err}
		}
		if ee, ok := c.(ErrorEvent); ok {
			return nil, &AggregationError{Err: ee.Err()}
		}
		acc.Add(c)
	}
	if !acc.terminal {
		return nil, &AggregationError{Incomplete: true}
	}
	return acc.Response(), nil
}
