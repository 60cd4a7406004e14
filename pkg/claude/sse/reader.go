// Package sse extracts raw event frames from a server-sent-events byte
// stream. A frame is an (event label, data payload) pair; the reader does
// no semantic interpretation — unrecognized labels pass through untouched
// and the stream package decides what they mean.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Frame is one raw SSE frame.
type Frame struct {
	Event string // value of the "event:" field (may be empty)
	Data  string // value of the "data:" field(s), joined with "\n"
}

// Reader reads frames from an io.Reader. A Reader is good for exactly one
// stream; construct a new one per response body. It buffers incomplete
// trailing input across read boundaries, so fragmented network delivery
// yields the same frames as a single contiguous read.
type Reader struct {
	scanner *bufio.Scanner
	err     error // sticky; no frames are produced after an I/O failure
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20) // 1 MB line buffer
	return &Reader{scanner: sc}
}

// Next returns the next complete frame. A frame is only dispatched once its
// terminating blank line has been seen; a trailing partial frame at EOF is
// discarded. Returns io.EOF at the end of the stream, or the underlying
// I/O error exactly once, after which the reader stays ended.
func (r *Reader) Next() (Frame, error) {
	if r.err != nil {
		return Frame{}, io.EOF
	}

	var fr Frame
	var dataLines []string

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			// Blank line = dispatch frame
			if len(dataLines) > 0 || fr.Event != "" {
				fr.Data = strings.Join(dataLines, "\n")
				return fr, nil
			}
			continue
		}

		if strings.HasPrefix(line, "event:") {
			fr.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
		// Comment, id: and retry: lines are intentionally ignored.
	}

	if err := r.scanner.Err(); err != nil {
		r.err = err
		return Frame{}, err
	}
	r.err = io.EOF
	return Frame{}, io.EOF
}
