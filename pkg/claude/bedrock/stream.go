package bedrock

import (
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/bitop-dev/claude/pkg/claude"
	"github.com/bitop-dev/claude/pkg/claude/stream"
)

// Stream adapts Bedrock ConverseStream events into the stream package's
// chunk vocabulary. It satisfies stream.ChunkSource, so stream.Collect
// folds it exactly like a direct API stream.
type Stream struct {
	out     *bedrockruntime.ConverseStreamEventStream
	events  <-chan types.ConverseStreamOutput
	pending []stream.Chunk

	seen       map[int]bool // indices a ContentBlockStart was emitted for
	stopReason claude.StopReason
	usage      claude.Usage
	flushed    bool // terminal chunks queued after the event channel closed
	done       bool
}

func newStream(out *bedrockruntime.ConverseStreamEventStream) *Stream {
	return &Stream{
		out:    out,
		events: out.Events(),
		seen:   make(map[int]bool),
	}
}

// Next returns the next chunk, io.EOF at the end, or a *stream.TransportError
// when the event stream failed.
func (s *Stream) Next() (stream.Chunk, error) {
	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			return c, nil
		}
		if s.done {
			return nil, io.EOF
		}

		ev, ok := <-s.events
		if !ok {
			if err := s.out.Err(); err != nil {
				s.done = true
				return nil, &stream.TransportError{Err: err}
			}
			if !s.flushed {
				// Bedrock reports the stop reason and usage after the last
				// content event; replay them in the direct-API order.
				s.flushed = true
				s.pending = append(s.pending,
					stream.MessageDelta{StopReason: s.stopReason, Usage: s.usage},
					stream.MessageStop{},
				)
				continue
			}
			s.done = true
			return nil, io.EOF
		}

		s.translate(ev)
	}
}

// Close releases the underlying event stream.
func (s *Stream) Close() error { return s.out.Close() }

// translate queues zero or more chunks for one Bedrock event.
func (s *Stream) translate(event types.ConverseStreamOutput) {
	switch ev := event.(type) {

	case *types.ConverseStreamOutputMemberMessageStart:
		s.pending = append(s.pending, stream.MessageStart{
			Message: claude.MessageResponse{
				Type: "message",
				Role: claude.Role(ev.Value.Role),
			},
		})

	case *types.ConverseStreamOutputMemberContentBlockStart:
		idx := int(aws.ToInt32(ev.Value.ContentBlockIndex))
		var block claude.ContentBlock
		switch start := ev.Value.Start.(type) {
		case *types.ContentBlockStartMemberToolUse:
			block = claude.ToolUseContent{
				Type: "tool_use",
				ID:   aws.ToString(start.Value.ToolUseId),
				Name: aws.ToString(start.Value.Name),
			}
		default:
			block = claude.NewTextContent("")
		}
		s.seen[idx] = true
		s.pending = append(s.pending, stream.ContentBlockStart{Index: idx, Block: block})

	case *types.ConverseStreamOutputMemberContentBlockDelta:
		idx := int(aws.ToInt32(ev.Value.ContentBlockIndex))
		// Bedrock omits the start event for plain text blocks; synthesize
		// one so the chunk sequence stays well-nested.
		if !s.seen[idx] {
			s.seen[idx] = true
			s.pending = append(s.pending, stream.ContentBlockStart{Index: idx, Block: claude.NewTextContent("")})
		}
		switch d := ev.Value.Delta.(type) {
		case *types.ContentBlockDeltaMemberText:
			s.pending = append(s.pending, stream.ContentBlockDelta{
				Index: idx,
				Delta: stream.Delta{Type: "text_delta", Text: d.Value},
			})
		case *types.ContentBlockDeltaMemberToolUse:
			s.pending = append(s.pending, stream.ContentBlockDelta{
				Index: idx,
				Delta: stream.Delta{Type: "input_json_delta", PartialJSON: aws.ToString(d.Value.Input)},
			})
		}

	case *types.ConverseStreamOutputMemberContentBlockStop:
		idx := int(aws.ToInt32(ev.Value.ContentBlockIndex))
		if !s.seen[idx] {
			return
		}
		delete(s.seen, idx)
		s.pending = append(s.pending, stream.ContentBlockStop{Index: idx})

	case *types.ConverseStreamOutputMemberMessageStop:
		s.stopReason = mapStopReason(ev.Value.StopReason)

	case *types.ConverseStreamOutputMemberMetadata:
		if ev.Value.Usage != nil {
			s.usage.InputTokens = int(aws.ToInt32(ev.Value.Usage.InputTokens))
			s.usage.OutputTokens = int(aws.ToInt32(ev.Value.Usage.OutputTokens))
		}
	}
}

func mapStopReason(r types.StopReason) claude.StopReason {
	switch r {
	case types.StopReasonEndTurn:
		return claude.StopReasonEndTurn
	case types.StopReasonMaxTokens:
		return claude.StopReasonMaxTokens
	case types.StopReasonStopSequence:
		return claude.StopReasonStopSequence
	case types.StopReasonToolUse:
		return claude.StopReasonToolUse
	default:
		return claude.StopReasonEndTurn
	}
}
