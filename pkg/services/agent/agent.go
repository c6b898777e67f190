package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/de-tools/finops-agent/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	ServiceName      = "bedrock"
	DefaultModelID   = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	DefaultMaxTurns  = 25
	DefaultMaxTokens = 4096
)

var ErrMaxTurns = errors.New("agent stopped after reaching the maximum number of turns")

// Tool is a capability the model may call. Tools take no arguments.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context) (domain.Result, error)
}

// ConverseAPI is the part of the Bedrock runtime client the agent needs.
type ConverseAPI interface {
	Converse(
		ctx context.Context,
		input *bedrockruntime.ConverseInput,
		opts ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

type Options struct {
	ModelID     string
	System      string
	MaxTurns    int
	MaxTokens   int32
	Temperature float32
}

func (o Options) withDefaults() Options {
	if o.ModelID == "" {
		o.ModelID = DefaultModelID
	}
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// Agent drives a Bedrock Converse tool-use loop over a fixed set of tools.
// It holds no per-run state and can serve consecutive runs.
type Agent struct {
	client ConverseAPI
	opts   Options
	tools  map[string]Tool
	order  []string
}

func New(client ConverseAPI, opts Options, tools ...Tool) (*Agent, error) {
	a := &Agent{
		client: client,
		opts:   opts.withDefaults(),
		tools:  make(map[string]Tool),
	}

	for _, t := range tools {
		name := t.Name()
		if _, exists := a.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool: %s", name)
		}
		a.tools[name] = t
		a.order = append(a.order, name)
	}

	if len(a.tools) == 0 {
		return nil, fmt.Errorf("at least one tool must be provided")
	}

	return a, nil
}

// Tools lists registered tool names in registration order.
func (a *Agent) Tools() []string {
	return slices.Clone(a.order)
}

func (a *Agent) ModelID() string {
	return a.opts.ModelID
}

// Stream runs the loop for one prompt and yields the conversation after every
// step: the prompt, each model turn and each batch of tool results. The
// sequence is finite and not restartable. After an error nothing else is yielded.
func (a *Agent) Stream(ctx context.Context, prompt string) iter.Seq2[domain.Snapshot, error] {
	return func(yield func(domain.Snapshot, error) bool) {
		logger := zerolog.Ctx(ctx)

		messages := []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}}
		view := []domain.Message{{Role: domain.RoleUser, Text: prompt}}

		step := 0
		emit := func() bool {
			step++
			return yield(domain.Snapshot{Step: step, Messages: slices.Clone(view)}, nil)
		}

		if !emit() {
			return
		}

		for turn := 1; turn <= a.opts.MaxTurns; turn++ {
			out, err := a.client.Converse(ctx, a.converseInput(messages))
			if err != nil {
				yield(domain.Snapshot{}, domain.NewUpstreamError(ServiceName, "Converse", err))
				return
			}

			msgOut, ok := out.Output.(*types.ConverseOutputMemberMessage)
			if !ok {
				yield(domain.Snapshot{}, fmt.Errorf("unexpected converse output type %T", out.Output))
				return
			}
			reply := msgOut.Value
			messages = append(messages, reply)
			view = append(view, domain.Message{Role: domain.RoleAssistant, Text: textOf(reply)})

			logTurn(logger, turn, out)
			if out.StopReason == types.StopReasonMaxTokens {
				logger.Warn().
					Int("turn", turn).
					Int32("max_tokens", a.opts.MaxTokens).
					Msg("model reply truncated at max tokens")
			}

			if !emit() {
				return
			}

			uses := toolUses(reply)
			if out.StopReason != types.StopReasonToolUse || len(uses) == 0 {
				return
			}

			results, toolView, err := a.runTools(ctx, uses)
			if err != nil {
				yield(domain.Snapshot{}, err)
				return
			}
			messages = append(messages, types.Message{Role: types.ConversationRoleUser, Content: results})
			view = append(view, toolView...)

			if !emit() {
				return
			}
		}

		yield(domain.Snapshot{}, ErrMaxTurns)
	}
}

// Run drains Stream and keeps only the last message of the last snapshot.
// It returns that text and the number of snapshots observed.
func (a *Agent) Run(ctx context.Context, prompt string) (string, int, error) {
	var final string
	steps := 0
	for snapshot, err := range a.Stream(ctx, prompt) {
		if err != nil {
			return "", steps, err
		}
		steps = snapshot.Step
		final = snapshot.Last().Text
	}
	return final, steps, nil
}

func (a *Agent) converseInput(messages []types.Message) *bedrockruntime.ConverseInput {
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(a.opts.ModelID),
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(a.opts.MaxTokens),
			Temperature: aws.Float32(a.opts.Temperature),
		},
		ToolConfig: &types.ToolConfiguration{Tools: a.toolSpecs()},
	}
	if a.opts.System != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: a.opts.System}}
	}
	return input
}

func (a *Agent) toolSpecs() []types.Tool {
	specs := make([]types.Tool, 0, len(a.order))
	for _, name := range a.order {
		specs = append(specs, &types.ToolMemberToolSpec{Value: types.ToolSpecification{
			Name:        aws.String(name),
			Description: aws.String(a.tools[name].Description()),
			InputSchema: &types.ToolInputSchemaMemberJson{Value: document.NewLazyDocument(map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			})},
		}})
	}
	return specs
}

// runTools invokes every requested tool in order. An unknown tool is reported
// back to the model; a failing tool aborts the run.
func (a *Agent) runTools(
	ctx context.Context,
	uses []types.ToolUseBlock,
) ([]types.ContentBlock, []domain.Message, error) {
	logger := zerolog.Ctx(ctx)

	blocks := make([]types.ContentBlock, 0, len(uses))
	view := make([]domain.Message, 0, len(uses))

	for _, use := range uses {
		name := aws.ToString(use.Name)
		tool, ok := a.tools[name]
		if !ok {
			logger.Warn().Str("tool", name).Msg("model requested an unknown tool")
			text := fmt.Sprintf("unknown tool %q; available tools: %s", name, strings.Join(a.order, ", "))
			blocks = append(blocks, toolResultBlock(use.ToolUseId, text, types.ToolResultStatusError))
			view = append(view, domain.Message{Role: domain.RoleTool, ToolName: name, Text: text})
			continue
		}

		logger.Info().Str("tool", name).Msg("invoking tool")
		result, err := tool.Invoke(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("tool %s failed: %w", name, err)
		}

		text, err := RenderResult(result)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode %s result: %w", name, err)
		}
		blocks = append(blocks, toolResultBlock(use.ToolUseId, text, types.ToolResultStatusSuccess))
		view = append(view, domain.Message{Role: domain.RoleTool, ToolName: name, Text: text})
	}

	return blocks, view, nil
}

// RenderResult is the text the model sees for a tool result: the rows as a
// JSON array, or the empty-result message verbatim.
func RenderResult(result domain.Result) (string, error) {
	if result.IsEmpty() {
		return result.Message, nil
	}
	data, err := json.Marshal(result.Table)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toolResultBlock(id *string, text string, status types.ToolResultStatus) types.ContentBlock {
	return &types.ContentBlockMemberToolResult{Value: types.ToolResultBlock{
		ToolUseId: id,
		Content:   []types.ToolResultContentBlock{&types.ToolResultContentBlockMemberText{Value: text}},
		Status:    status,
	}}
}

func toolUses(msg types.Message) []types.ToolUseBlock {
	var uses []types.ToolUseBlock
	for _, block := range msg.Content {
		if use, ok := block.(*types.ContentBlockMemberToolUse); ok {
			uses = append(uses, use.Value)
		}
	}
	return uses
}

func textOf(msg types.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			parts = append(parts, text.Value)
		}
	}
	return strings.Join(parts, "\n")
}

func logTurn(logger *zerolog.Logger, turn int, out *bedrockruntime.ConverseOutput) {
	event := logger.Debug().
		Int("turn", turn).
		Str("stop_reason", string(out.StopReason))
	if out.Usage != nil {
		event = event.
			Int32("input_tokens", aws.ToInt32(out.Usage.InputTokens)).
			Int32("output_tokens", aws.ToInt32(out.Usage.OutputTokens))
	}
	event.Msg("model turn completed")
}
