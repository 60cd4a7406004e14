package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/bitop-dev/claude/pkg/claude"
	"github.com/bitop-dev/claude/pkg/claude/sse"
)

// decodeState is the protocol state machine position.
type decodeState int

const (
	awaitingStart decodeState = iota // nothing observed yet
	streaming                        // message_start seen, stream open
	terminated                       // message_stop or error event seen
)

// frameSource yields raw SSE frames. *sse.Reader satisfies it.
type frameSource interface {
	Next() (sse.Frame, error)
}

// Decoder turns raw frames into typed chunks, tracking the lifecycle of
// open content blocks. One Decoder owns the decode state of exactly one
// stream; it is not safe for concurrent use and is not restartable.
type Decoder struct {
	frames frameSource
	state  decodeState
	open   map[int]string // open block index → block type
	done   bool           // sequence exhausted; no further frames are pulled
}

// NewDecoder wraps r, which must deliver the SSE body of one streaming
// Messages response.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{frames: sse.NewReader(r), open: make(map[int]string)}
}

// Next returns the next chunk, a per-item error, or io.EOF when the
// sequence has ended.
//
// A *DecodeError return is usually non-fatal: the decoder skips the
// offending frame and later valid frames still decode. The exceptions are
// a malformed message_start or error payload, which leave nothing safe to
// continue from. A *TransportError is always fatal. After any fatal error
// Next returns io.EOF.
//
// A malformed or unexpected frame before message_start is reported and
// skipped rather than aborting the stream, so one bad leading frame does
// not cost the caller the whole response.
func (d *Decoder) Next() (Chunk, error) {
	if d.done {
		return nil, io.EOF
	}

	fr, err := d.frames.Next()
	if err == io.EOF {
		d.done = true
		return nil, io.EOF
	}
	if err != nil {
		d.done = true
		return nil, &TransportError{Timeout: isTimeout(err), Err: err}
	}

	return d.decode(fr)
}

func (d *Decoder) decode(fr sse.Frame) (Chunk, error) {
	if d.state == terminated {
		// The stream already ended; surface the violation once and stop
		// pulling frames.
		d.done = true
		return nil, &DecodeError{Kind: ChunkAfterTerminal, Event: fr.Event, Index: -1}
	}

	switch fr.Event {
	case "message_start":
		if d.state != awaitingStart {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		var w wireMessageStart
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			// No response metadata to anchor the stream to; nothing after
			// this can be decoded safely.
			d.state = terminated
			d.done = true
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		d.state = streaming
		return MessageStart{Message: w.Message}, nil

	case "content_block_start":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		var w wireContentBlockStart
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		if _, alreadyOpen := d.open[w.Index]; alreadyOpen {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: w.Index}
		}
		block, err := claude.UnmarshalContentBlock(w.ContentBlock)
		if err != nil {
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: w.Index, Raw: fr.Data}
		}
		kind := "text"
		if tu, ok := block.(claude.ToolUseContent); ok {
			kind = "tool_use"
			if tu.ID == "" {
				tu.ID = "toolu_" + uuid.New().String()[:8]
				block = tu
			}
		}
		d.open[w.Index] = kind
		return ContentBlockStart{Index: w.Index, Block: block}, nil

	case "content_block_delta":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		var w wireContentBlockDelta
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		if _, ok := d.open[w.Index]; !ok {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: w.Index}
		}
		return ContentBlockDelta{Index: w.Index, Delta: w.Delta}, nil

	case "content_block_stop":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		var w wireIndexOnly
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		if _, ok := d.open[w.Index]; !ok {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: w.Index}
		}
		delete(d.open, w.Index)
		return ContentBlockStop{Index: w.Index}, nil

	case "message_delta":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		var w wireMessageDelta
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		return MessageDelta{
			StopReason:   w.Delta.StopReason,
			StopSequence: w.Delta.StopSequence,
			Usage:        w.Usage,
		}, nil

	case "message_stop":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		if len(d.open) > 0 {
			// The wire says the message is over, so the stream still ends;
			// the caller learns the nesting was violated.
			d.state = terminated
			return nil, &DecodeError{Kind: UnclosedBlock, Event: fr.Event, Index: anyOpenIndex(d.open)}
		}
		d.state = terminated
		return MessageStop{}, nil

	case "ping":
		if d.state != streaming {
			return nil, &DecodeError{Kind: UnexpectedChunk, Event: fr.Event, Index: -1}
		}
		return Ping{}, nil

	case "error":
		var w wireError
		if err := json.Unmarshal([]byte(fr.Data), &w); err != nil {
			d.state = terminated
			d.done = true
			return nil, &DecodeError{Kind: MalformedPayload, Event: fr.Event, Index: -1, Raw: fr.Data}
		}
		d.state = terminated
		return ErrorEvent{ErrorType: w.Error.Type, Message: w.Error.Message}, nil

	default:
		// Unrecognized label: preserve it so callers can detect protocol
		// evolution. No state change.
		return Unknown{Event: fr.Event, Data: fr.Data}, nil
	}
}

func anyOpenIndex(open map[int]string) int {
	for i := range open {
		return i
	}
	return -1
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
