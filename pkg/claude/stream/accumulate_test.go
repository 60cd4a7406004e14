package stream_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bitop-dev/claude/pkg/claude"
	"github.com/bitop-dev/claude/pkg/claude/stream"
)

func collect(t *testing.T, body string) (*claude.MessageResponse, error) {
	t.Helper()
	return stream.Collect(stream.NewDecoder(strings.NewReader(body)))
}

func TestCollect_ReconstructsDeltasInOrder(t *testing.T) {
	resp, err := collect(t, wellFormed())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := resp.Text(); got != "Hello, world" {
		t.Errorf("text = %q, want %q", got, "Hello, world")
	}
	if resp.StopReason != claude.StopReasonEndTurn {
		t.Errorf("stop reason = %q, want end_turn", resp.StopReason)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 9 {
		t.Errorf("usage = %+v, want input 12 / output 9", resp.Usage)
	}
	if resp.ID != "msg_01" {
		t.Errorf("id = %q, want msg_01", resp.ID)
	}
}

func TestCollect_ManyDeltas(t *testing.T) {
	frames := [][2]string{
		{"message_start", messageStartData},
		{"content_block_start", `{"index":0,"content_block":{"type":"text","text":""}}`},
	}
	want := ""
	for i := 0; i < 25; i++ {
		piece := string(rune('a' + i%26))
		want += piece
		frames = append(frames, [2]string{
			"content_block_delta",
			`{"index":0,"delta":{"type":"text_delta","text":"` + piece + `"}}`,
		})
	}
	frames = append(frames,
		[2]string{"content_block_stop", `{"index":0}`},
		[2]string{"message_stop", `{}`},
	)

	resp, err := collect(t, sseBody(frames...))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if resp.Text() != want {
		t.Errorf("text = %q, want %q", resp.Text(), want)
	}
}

func TestCollect_BlocksOrderedByIndex(t *testing.T) {
	// Blocks close out of order; the final content must be ordered by index.
	body := sseBody(
		[2]string{"message_start", messageStartData},
		[2]string{"content_block_start", `{"index":0,"content_block":{"type":"text","text":""}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"text_delta","text":"first"}}`},
		[2]string{"content_block_stop", `{"index":0}`},
		[2]string{"content_block_start", `{"index":1,"content_block":{"type":"text","text":""}}`},
		[2]string{"content_block_delta", `{"index":1,"delta":{"type":"text_delta","text":"second"}}`},
		[2]string{"content_block_stop", `{"index":1}`},
		[2]string{"message_stop", `{}`},
	)
	resp, err := collect(t, body)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(resp.Content) != 2 {
		t.Fatalf("got %d blocks, want 2", len(resp.Content))
	}
	if resp.Content[0].(claude.TextContent).Text != "first" {
		t.Errorf("block 0 = %+v", resp.Content[0])
	}
	if resp.Content[1].(claude.TextContent).Text != "second" {
		t.Errorf("block 1 = %+v", resp.Content[1])
	}
}

func TestCollect_ToolUseInput(t *testing.T) {
	body := sseBody(
		[2]string{"message_start", messageStartData},
		[2]string{"content_block_start", `{"index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"get_weather","input":{}}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\":"}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"input_json_delta","partial_json":"\"Tokyo\"}"}}`},
		[2]string{"content_block_stop", `{"index":0}`},
		[2]string{"message_delta", `{"delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":7}}`},
		[2]string{"message_stop", `{}`},
	)
	resp, err := collect(t, body)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	uses := resp.ToolUses()
	if len(uses) != 1 {
		t.Fatalf("got %d tool uses, want 1", len(uses))
	}
	if string(uses[0].Input) != `{"city":"Tokyo"}` {
		t.Errorf("input = %s", uses[0].Input)
	}
	if resp.StopReason != claude.StopReasonToolUse {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestCollect_IncompleteStream(t *testing.T) {
	body := sseBody(
		[2]string{"message_start", messageStartData},
		[2]string{"content_block_start", `{"index":0,"content_block":{"type":"text","text":""}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"text_delta","text":"cut off"}}`},
	)
	_, err := collect(t, body)
	var ae *stream.AggregationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AggregationError", err)
	}
	if !ae.Incomplete {
		t.Errorf("Incomplete = false, want true")
	}
}

func TestCollect_PropagatesErrorEvent(t *testing.T) {
	body := sseBody(
		[2]string{"message_start", messageStartData},
		[2]string{"content_block_start", `{"index":0,"content_block":{"type":"text","text":""}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"text_delta","text":"a"}}`},
		[2]string{"content_block_delta", `{"index":0,"delta":{"type":"text_delta","text":"b"}}`},
		[2]string{"error", `{"error":{"type":"overloaded_error","message":"busy"}}`},
	)
	_, err := collect(t, body)
	var ae *stream.AggregationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AggregationError", err)
	}
	if ae.Incomplete {
		t.Errorf("Incomplete = true for a propagated error")
	}
	var apiErr *claude.APIError
	if !errors.As(ae, &apiErr) {
		t.Fatalf("aggregation error does not wrap the API error: %v", ae)
	}
	if apiErr.Type != claude.ErrTypeOverloaded {
		t.Errorf("api error type = %q, want overloaded_error", apiErr.Type)
	}
}

func TestCollect_PropagatesDecodeError(t *testing.T) {
	// message_stop with a block still open surfaces UnclosedBlock, which
	// the fold must propagate rather than report success.
	body := sseBody(
		[2]string{"message_start", messageStartData},
		[2]string{"content_block_start", `{"index":0,"content_block":{"type":"text","text":""}}`},
		[2]string{"message_stop", `{}`},
	)
	_, err := collect(t, body)
	var ae *stream.AggregationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AggregationError", err)
	}
	if !stream.IsDecodeError(ae.Err, stream.UnclosedBlock) {
		t.Errorf("wrapped err = %v, want UnclosedBlock", ae.Err)
	}
}
