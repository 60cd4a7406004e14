package stream

import (
	"io"

	"github.com/bitop-dev/claude/pkg/claude"
)

// Stream is a decoder bound to a live response body. It owns the body:
// the connection is released on every exit path — normal completion,
// transport failure, or an early Close by the consumer.
type Stream struct {
	dec    *Decoder
	body   io.ReadCloser
	closed bool
}

// New wraps a streaming response body. The caller must drain the stream or
// call Close.
func New(body io.ReadCloser) *Stream {
	return &Stream{dec: NewDecoder(body), body: body}
}

// Next returns the next chunk or per-item error, io.EOF at the end. The
// body is closed automatically once the sequence ends.
func (s *Stream) Next() (Chunk, error) {
	c, err := s.dec.Next()
	if err == io.EOF {
		s.Close()
		return nil, io.EOF
	}
	if _, fatal := err.(*TransportError); fatal {
		s.Close()
	}
	return c, err
}

// Close releases the underlying connection. Safe to call more than once
// and after the stream has ended.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// Collect drains the stream and folds it into a complete response. The
// body is closed before Collect returns.
func (s *Stream) Collect() (*claude.MessageResponse, error) {
	defer s.Close()
	return Collect(s)
}
