package bedrock

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/bitop-dev/claude/pkg/claude"
)

func testRequest(t *testing.T) *claude.MessageRequest {
	t.Helper()
	mt, err := claude.NewMaxTokens(512, claude.ModelClaudeSonnet4_5)
	if err != nil {
		t.Fatalf("NewMaxTokens: %v", err)
	}
	temp := 0.7
	req, err := claude.NewMessageRequest(
		claude.ModelClaudeSonnet4_5,
		[]claude.Message{claude.NewUserMessage("hello")},
		mt,
		&claude.RequestOptions{
			System:      claude.NewSystemPrompt("be brief"),
			Temperature: &temp,
			Tools: []claude.Tool{{
				Name:        "lookup",
				Description: "Look things up",
				InputSchema: json.RawMessage(`{"type":"object"}`),
			}},
		},
	)
	if err != nil {
		t.Fatalf("NewMessageRequest: %v", err)
	}
	return req
}

func TestBuildInput(t *testing.T) {
	const modelID = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	input, err := buildInput(modelID, testRequest(t))
	if err != nil {
		t.Fatalf("buildInput: %v", err)
	}

	if aws.ToString(input.ModelId) != modelID {
		t.Errorf("model id = %q", aws.ToString(input.ModelId))
	}
	if aws.ToInt32(input.InferenceConfig.MaxTokens) != 512 {
		t.Errorf("max tokens = %d", aws.ToInt32(input.InferenceConfig.MaxTokens))
	}
	if input.InferenceConfig.Temperature == nil || *input.InferenceConfig.Temperature != 0.7 {
		t.Errorf("temperature = %v", input.InferenceConfig.Temperature)
	}

	if len(input.System) != 1 {
		t.Fatalf("system blocks = %d, want 1", len(input.System))
	}
	sys, ok := input.System[0].(*types.SystemContentBlockMemberText)
	if !ok || sys.Value != "be brief" {
		t.Errorf("system = %+v", input.System[0])
	}

	if len(input.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(input.Messages))
	}
	if input.Messages[0].Role != types.ConversationRoleUser {
		t.Errorf("role = %q", input.Messages[0].Role)
	}
	txt, ok := input.Messages[0].Content[0].(*types.ContentBlockMemberText)
	if !ok || txt.Value != "hello" {
		t.Errorf("content = %+v", input.Messages[0].Content[0])
	}

	if input.ToolConfig == nil || len(input.ToolConfig.Tools) != 1 {
		t.Fatalf("tool config = %+v", input.ToolConfig)
	}
	spec, ok := input.ToolConfig.Tools[0].(*types.ToolMemberToolSpec)
	if !ok || aws.ToString(spec.Value.Name) != "lookup" {
		t.Errorf("tool = %+v", input.ToolConfig.Tools[0])
	}
}

func TestConvertMessages_ToolResult(t *testing.T) {
	msgs := []claude.Message{
		claude.NewToolResultMessage("toolu_7", "sunny, 22C", false),
	}
	out, err := convertMessages(msgs)
	if err != nil {
		t.Fatalf("convertMessages: %v", err)
	}
	if len(out) != 1 || out[0].Role != types.ConversationRoleUser {
		t.Fatalf("out = %+v", out)
	}
	tr, ok := out[0].Content[0].(*types.ContentBlockMemberToolResult)
	if !ok {
		t.Fatalf("content = %T, want tool result", out[0].Content[0])
	}
	if aws.ToString(tr.Value.ToolUseId) != "toolu_7" {
		t.Errorf("tool_use_id = %q", aws.ToString(tr.Value.ToolUseId))
	}
	if tr.Value.Status != types.ToolResultStatusSuccess {
		t.Errorf("status = %q", tr.Value.Status)
	}
}

func TestConvertMessages_SkipsEmpty(t *testing.T) {
	msgs := []claude.Message{
		{Role: claude.RoleAssistant}, // no content blocks
		claude.NewUserMessage("hi"),
	}
	out, err := convertMessages(msgs)
	if err != nil {
		t.Fatalf("convertMessages: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("got %d messages, want 1 (empty message dropped)", len(out))
	}
}

func TestTranslate_EventMapping(t *testing.T) {
	s := &Stream{seen: make(map[int]bool)}

	idx := int32(0)
	s.translate(&types.ConverseStreamOutputMemberContentBlockStart{
		Value: types.ContentBlockStartEvent{
			ContentBlockIndex: &idx,
			Start: &types.ContentBlockStartMemberToolUse{
				Value: types.ToolUseBlockStart{
					ToolUseId: aws.String("toolu_1"),
					Name:      aws.String("lookup"),
				},
			},
		},
	})
	s.translate(&types.ConverseStreamOutputMemberContentBlockDelta{
		Value: types.ContentBlockDeltaEvent{
			ContentBlockIndex: &idx,
			Delta: &types.ContentBlockDeltaMemberToolUse{
				Value: types.ToolUseBlockDelta{Input: aws.String(`{"q":1}`)},
			},
		},
	})
	s.translate(&types.ConverseStreamOutputMemberContentBlockStop{
		Value: types.ContentBlockStopEvent{ContentBlockIndex: &idx},
	})

	if len(s.pending) != 3 {
		t.Fatalf("pending = %d chunks, want 3", len(s.pending))
	}
	if s.pending[0].Kind() != "content_block_start" ||
		s.pending[1].Kind() != "content_block_delta" ||
		s.pending[2].Kind() != "content_block_stop" {
		t.Errorf("kinds = %v %v %v", s.pending[0].Kind(), s.pending[1].Kind(), s.pending[2].Kind())
	}
}

func TestTranslate_SynthesizesTextBlockStart(t *testing.T) {
	s := &Stream{seen: make(map[int]bool)}
	idx := int32(0)
	// Bedrock sends text deltas without a preceding block start.
	s.translate(&types.ConverseStreamOutputMemberContentBlockDelta{
		Value: types.ContentBlockDeltaEvent{
			ContentBlockIndex: &idx,
			Delta:             &types.ContentBlockDeltaMemberText{Value: "hi"},
		},
	})
	if len(s.pending) != 2 {
		t.Fatalf("pending = %d chunks, want synthesized start + delta", len(s.pending))
	}
	if s.pending[0].Kind() != "content_block_start" {
		t.Errorf("first chunk = %v, want content_block_start", s.pending[0].Kind())
	}
}
