package sse_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bitop-dev/claude/pkg/claude/sse"
)

func frames(input string) []sse.Frame {
	r := sse.NewReader(strings.NewReader(input))
	var out []sse.Frame
	for {
		fr, err := r.Next()
		if err != nil {
			break
		}
		out = append(out, fr)
	}
	return out
}

func TestReader_SingleFrame(t *testing.T) {
	fs := frames("event: ping\ndata: {}\n\n")
	if len(fs) != 1 {
		t.Fatalf("want 1 frame, got %d", len(fs))
	}
	if fs[0].Event != "ping" {
		t.Errorf("event = %q, want %q", fs[0].Event, "ping")
	}
	if fs[0].Data != "{}" {
		t.Errorf("data = %q, want %q", fs[0].Data, "{}")
	}
}

func TestReader_MultipleFrames(t *testing.T) {
	fs := frames("data: one\n\ndata: two\n\ndata: three\n\n")
	if len(fs) != 3 {
		t.Fatalf("want 3 frames, got %d", len(fs))
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if fs[i].Data != w {
			t.Errorf("frame[%d].Data = %q, want %q", i, fs[i].Data, w)
		}
	}
}

func TestReader_UnknownEventLabelPassesThrough(t *testing.T) {
	fs := frames("event: tool_use_delta\ndata: {\"x\":1}\n\n")
	if len(fs) != 1 {
		t.Fatalf("want 1 frame, got %d", len(fs))
	}
	if fs[0].Event != "tool_use_delta" {
		t.Errorf("event = %q, want tool_use_delta", fs[0].Event)
	}
}

func TestReader_SkipsComments(t *testing.T) {
	fs := frames(": keep-alive comment\ndata: real\n\n")
	if len(fs) != 1 {
		t.Fatalf("want 1 frame, got %d", len(fs))
	}
	if fs[0].Data != "real" {
		t.Errorf("data = %q", fs[0].Data)
	}
}

func TestReader_MultilineData(t *testing.T) {
	fs := frames("data: line1\ndata: line2\n\n")
	if len(fs) != 1 {
		t.Fatalf("want 1 frame, got %d", len(fs))
	}
	// Per SSE spec, multiple data lines are joined with \n.
	if fs[0].Data != "line1\nline2" {
		t.Errorf("data = %q, want %q", fs[0].Data, "line1\nline2")
	}
}

func TestReader_EmptyStream(t *testing.T) {
	fs := frames("")
	if len(fs) != 0 {
		t.Errorf("want 0 frames on empty stream, got %d", len(fs))
	}
}

func TestReader_TrailingPartialFrameDiscarded(t *testing.T) {
	// No terminating blank line: the frame must not be dispatched.
	fs := frames("event: message_stop\ndata: {}")
	if len(fs) != 0 {
		t.Errorf("want 0 frames for unterminated input, got %d", len(fs))
	}
}

// chunkedReader delivers its input in fixed-size pieces, simulating
// fragmented network reads.
type chunkedReader struct {
	data []byte
	n    int
	pos  int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	end := c.pos + c.n
	if end > len(c.data) {
		end = len(c.data)
	}
	n := copy(p, c.data[c.pos:end])
	c.pos += n
	return n, nil
}

func TestReader_FragmentedDelivery(t *testing.T) {
	input := "event: message_start\ndata: {\"message\":{}}\n\nevent: content_block_delta\ndata: {\"index\":0}\n\n"
	whole := frames(input)

	for _, size := range []int{1, 3, 7} {
		r := sse.NewReader(&chunkedReader{data: []byte(input), n: size})
		var got []sse.Frame
		for {
			fr, err := r.Next()
			if err != nil {
				break
			}
			got = append(got, fr)
		}
		if len(got) != len(whole) {
			t.Fatalf("chunk size %d: got %d frames, want %d", size, len(got), len(whole))
		}
		for i := range got {
			if got[i] != whole[i] {
				t.Errorf("chunk size %d: frame[%d] = %+v, want %+v", size, i, got[i], whole[i])
			}
		}
	}
}

// failingReader returns some data, then an error.
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.done {
		f.done = true
		return copy(p, f.data), nil
	}
	return 0, f.err
}

func TestReader_IOFailureIsTerminal(t *testing.T) {
	boom := errors.New("connection reset")
	r := sse.NewReader(&failingReader{data: []byte("data: partial"), err: boom})

	_, err := r.Next()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	// No frames after an I/O failure; the reader stays ended.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("second Next err = %v, want io.EOF", err)
	}
}
