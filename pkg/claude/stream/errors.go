package stream

import (
	"errors"
	"fmt"
)

// DecodeErrorKind classifies a protocol-shape violation.
type DecodeErrorKind string

const (
	// UnexpectedChunk: a recognized event arrived in a state that does not
	// permit it (e.g. a delta for an index that was never opened, or any
	// non-message_start frame before the stream has started).
	UnexpectedChunk DecodeErrorKind = "unexpected_chunk"

	// MalformedPayload: a recognized event carried a payload that does not
	// parse into its declared shape.
	MalformedPayload DecodeErrorKind = "malformed_payload"

	// UnclosedBlock: message_stop arrived while content block indices were
	// still open.
	UnclosedBlock DecodeErrorKind = "unclosed_block"

	// ChunkAfterTerminal: a frame arrived after message_stop or an error
	// event already ended the stream.
	ChunkAfterTerminal DecodeErrorKind = "chunk_after_terminal"
)

// DecodeError is a per-item protocol violation. Unless it is terminal (see
// Decoder.Next), decoding continues and later valid frames still decode.
type DecodeError struct {
	Kind  DecodeErrorKind
	Event string // wire event label of the offending frame
	Index int    // content block index when relevant, else -1
	Raw   string // raw payload text for MalformedPayload, else ""
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("stream: %s: event %q index %d", e.Kind, e.Event, e.Index)
	}
	return fmt.Sprintf("stream: %s: event %q", e.Kind, e.Event)
}

// TransportError is an I/O failure or timeout on the underlying byte
// stream. It ends the sequence; a partially consumed stream is never
// retried.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("stream: transport timeout: %v", e.Err)
	}
	return fmt.Sprintf("stream: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AggregationError reports why a chunk sequence could not be folded into a
// complete response.
type AggregationError struct {
	// Incomplete is true when the sequence ended without a terminal chunk.
	Incomplete bool
	// Err is the propagated per-item error (decode, transport, or the
	// server-reported stream error) when one ended the sequence.
	Err error
}

func (e *AggregationError) Error() string {
	if e.Incomplete {
		return "stream: aggregation: sequence ended without a terminal chunk"
	}
	return fmt.Sprintf("stream: aggregation: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is a *DecodeError of the given kind.
func IsDecodeError(err error, kind DecodeErrorKind) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == kind
}
