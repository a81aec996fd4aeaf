// Package bedrock implements the completion provider boundary on top of the
// Bedrock Converse API.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"fitplan"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	// defaultModelID is an inference profile ID or ARN, not the foundation
	// model's ID. See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens = 4096

	// Low temperature keeps outputs more deterministic, which is better for
	// structured plan JSON.
	defaultTemperature = 0.2

	defaultTopP = 0.9

	// jsonSystemInstruction is prepended as a system block when the caller
	// asks for JSON mode. Converse has no response_format knob, so the caller
	// still runs its own parse/repair pass on the returned text.
	jsonSystemInstruction = "Respond with a single JSON object only. No markdown fences, no prose before or after the JSON."
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientOpts struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	brc  bedrockRuntimeClient
	opts ClientOpts
}

func NewClient(brc bedrockRuntimeClient, opts ClientOpts) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		brc:  brc,
		opts: opts,
	}
}

// Complete sends one Converse turn and returns the assistant text verbatim.
func (c *Client) Complete(ctx context.Context, prompt string, opts fitplan.CompletionOptions) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "prompt_len", len(prompt), "json_mode", opts.JSONMode)

	modelID := c.opts.ModelID
	if opts.Model != "" {
		modelID = opts.Model
	}
	maxTokens := c.opts.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	temperature := c.opts.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	var sys []types.SystemContentBlock
	if opts.JSONMode {
		instruction := jsonSystemInstruction
		if opts.Schema != nil {
			schemaJSON, err := json.Marshal(opts.Schema)
			if err != nil {
				return "", fmt.Errorf("failed to marshal output schema: %w", err)
			}
			instruction = instruction + " The object must conform to this JSON Schema:\n" + string(schemaJSON)
		}
		sys = append(sys, &types.SystemContentBlockMemberText{Value: instruction})
	}

	msgs := []types.Message{
		{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		},
	}

	in := &bedrockruntime.ConverseInput{
		ModelId:  &modelID,
		System:   sys,
		Messages: msgs,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(maxTokens),
			Temperature: aws.Float32(temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}
	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock Claude invoke failed", "error", err)
		return "", err
	}

	slog.Info("LLM_CLIENT: Bedrock Claude invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "end_turn", "stop_sequence":
		return textFromOutput(out), nil

	case "max_tokens":
		slog.Warn("LLM_CLIENT: Model hit MaxTokens limit; consider increasing MaxTokens")
		return "", fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")

	case "safety", "content_filtered":
		slog.Warn("LLM_CLIENT: Model response blocked by Bedrock safety filters")
		return "", fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		return textFromOutput(out), nil
	}
}

// textFromOutput returns assistant text optimized for plan generation:
// 1) If any text block looks like a single JSON object, return the last such block.
// 2) Else, if there's only one text block, return it.
// 3) Else, join all text blocks with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	// Prefer a single JSON object if present (typical for plan output)
	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) > 1 && s[0] == '{' && s[len(s)-1] == '}' {
			return s
		}
	}

	if len(texts) == 1 {
		return texts[0]
	}

	return strings.Join(texts, "\n")
}
