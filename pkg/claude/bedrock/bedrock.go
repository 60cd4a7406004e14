// Package bedrock serves the same Messages semantics over Amazon Bedrock's
// ConverseStream API, adapting its event stream into the stream package's
// chunk vocabulary so callers and the accumulator work unchanged.
//
// Authentication is handled by the AWS SDK v2 credential chain:
//  1. AWS_ACCESS_KEY_ID + AWS_SECRET_ACCESS_KEY (+ optional AWS_SESSION_TOKEN)
//  2. AWS_PROFILE — named profile from ~/.aws/credentials
//  3. ~/.aws/credentials default profile
//  4. IAM instance roles / ECS task roles / IRSA
package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brdoc "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/bitop-dev/claude/pkg/claude"
)

// Client issues Messages requests against Bedrock-hosted Claude models.
type Client struct {
	runtime *bedrockruntime.Client
}

// New builds a Client using the default AWS credential chain. Region and
// profile are optional overrides.
func New(ctx context.Context, region, profile string) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load config: %w", err)
	}
	return &Client{runtime: bedrockruntime.NewFromConfig(cfg)}, nil
}

// StreamMessage starts a streaming call. modelID is the Bedrock model
// identifier (e.g. "us.anthropic.claude-sonnet-4-5-20250929-v1:0"); the
// request's own model field is ignored because Bedrock routes by its own
// IDs. The returned Stream yields the same chunk kinds as a direct API
// stream.
func (c *Client) StreamMessage(ctx context.Context, modelID string, req *claude.MessageRequest) (*Stream, error) {
	input, err := buildInput(modelID, req)
	if err != nil {
		return nil, fmt.Errorf("bedrock: build input: %w", err)
	}

	resp, err := c.runtime.ConverseStream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock: ConverseStream: %w", err)
	}

	return newStream(resp.GetStream()), nil
}

// ---------------------------------------------------------------------------
// Input building
// ---------------------------------------------------------------------------

func buildInput(modelID string, req *claude.MessageRequest) (*bedrockruntime.ConverseStreamInput, error) {
	input := &bedrockruntime.ConverseStreamInput{
		ModelId: aws.String(modelID),
	}

	if req.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: string(req.System)},
		}
	}

	ic := &types.InferenceConfiguration{}
	if req.MaxTokens > 0 {
		v := int32(req.MaxTokens)
		ic.MaxTokens = &v
	}
	if req.Temperature != nil {
		v := float32(*req.Temperature)
		ic.Temperature = &v
	}
	if req.TopP != nil {
		v := float32(*req.TopP)
		ic.TopP = &v
	}
	if len(req.StopSequences) > 0 {
		ic.StopSequences = req.StopSequences
	}
	input.InferenceConfig = ic

	msgs, err := convertMessages(req.Messages)
	if err != nil {
		return nil, err
	}
	input.Messages = msgs

	if len(req.Tools) > 0 {
		toolList := make([]types.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			var schema map[string]any
			_ = json.Unmarshal(t.InputSchema, &schema)
			toolList = append(toolList, &types.ToolMemberToolSpec{
				Value: types.ToolSpecification{
					Name:        aws.String(t.Name),
					Description: aws.String(t.Description),
					InputSchema: &types.ToolInputSchemaMemberJson{
						Value: lazyDoc(schema),
					},
				},
			})
		}
		input.ToolConfig = &types.ToolConfiguration{
			Tools:      toolList,
			ToolChoice: &types.ToolChoiceMemberAuto{Value: types.AutoToolChoice{}},
		}
	}

	return input, nil
}

func convertMessages(msgs []claude.Message) ([]types.Message, error) {
	var out []types.Message
	for _, m := range msgs {
		role := types.ConversationRoleUser
		if m.Role == claude.RoleAssistant {
			role = types.ConversationRoleAssistant
		}

		var blocks []types.ContentBlock
		for _, c := range m.Content {
			switch blk := c.(type) {
			case claude.TextContent:
				blocks = append(blocks, &types.ContentBlockMemberText{Value: blk.Text})

			case claude.ImageContent:
				imgBytes, err := base64.StdEncoding.DecodeString(blk.Source.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image data: %w", err)
				}
				blocks = append(blocks, &types.ContentBlockMemberImage{
					Value: types.ImageBlock{
						Format: imageFormat(blk.Source.MediaType),
						Source: &types.ImageSourceMemberBytes{Value: imgBytes},
					},
				})

			case claude.ToolUseContent:
				var inputMap map[string]any
				_ = json.Unmarshal(blk.Input, &inputMap)
				blocks = append(blocks, &types.ContentBlockMemberToolUse{
					Value: types.ToolUseBlock{
						ToolUseId: aws.String(blk.ID),
						Name:      aws.String(blk.Name),
						Input:     lazyDoc(inputMap),
					},
				})

			case claude.ToolResultContent:
				var content []types.ToolResultContentBlock
				for _, inner := range blk.Content {
					if t, ok := inner.(claude.TextContent); ok {
						content = append(content, &types.ToolResultContentBlockMemberText{Value: t.Text})
					}
				}
				status := types.ToolResultStatusSuccess
				if blk.IsError {
					status = types.ToolResultStatusError
				}
				blocks = append(blocks, &types.ContentBlockMemberToolResult{
					Value: types.ToolResultBlock{
						ToolUseId: aws.String(blk.ToolUseID),
						Status:    status,
						Content:   content,
					},
				})
			}
		}
		if len(blocks) == 0 {
			continue
		}
		out = append(out, types.Message{Role: role, Content: blocks})
	}
	return out, nil
}

func imageFormat(mediaType string) types.ImageFormat {
	switch mediaType {
	case "image/jpeg":
		return types.ImageFormatJpeg
	case "image/png":
		return types.ImageFormatPng
	case "image/gif":
		return types.ImageFormatGif
	case "image/webp":
		return types.ImageFormatWebp
	default:
		return types.ImageFormatPng
	}
}

// lazyDoc wraps a map[string]any as a Bedrock document.Interface.
func lazyDoc(m map[string]any) brdoc.Interface {
	return brdoc.NewLazyDocument(m)
}
