package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	ai "github.com/openseva/seva"
	"github.com/openseva/seva/event"
	"github.com/openseva/seva/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements chat.Client for testing.
type mockClient struct {
	responses []mockResponse
	callCount int
}

type mockResponse struct {
	content   string
	toolCalls []ai.ToolCall
	err       error
}

func (m *mockClient) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if m.callCount >= len(m.responses) {
		return &ai.Response{Content: "No more responses"}, nil
	}
	resp := m.responses[m.callCount]
	m.callCount++
	if resp.err != nil {
		return nil, resp.err
	}
	return &ai.Response{
		Content:   resp.content,
		ToolCalls: resp.toolCalls,
		Usage:     ai.Usage{InputTokens: 10, OutputTokens: 20},
	}, nil
}

func (m *mockClient) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	ch := make(chan ai.StreamEvent)

	if m.callCount >= len(m.responses) {
		go func() {
			defer close(ch)
			ch <- ai.StreamEvent{
				Delta: "No more responses",
				Done:  true,
				Response: &ai.Response{
					Content: "No more responses",
				},
			}
		}()
		return ch, nil
	}

	resp := m.responses[m.callCount]
	m.callCount++

	if resp.err != nil {
		go func() {
			defer close(ch)
			ch <- ai.StreamEvent{Err: resp.err}
		}()
		return ch, nil
	}

	go func() {
		defer close(ch)
		// Simulate streaming by sending content character by character
		for _, c := range resp.content {
			select {
			case <-ctx.Done():
				ch <- ai.StreamEvent{Err: ctx.Err()}
				return
			case ch <- ai.StreamEvent{Delta: string(c)}:
			}
		}
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:   resp.content,
				ToolCalls: resp.toolCalls,
				Usage:     ai.Usage{InputTokens: 10, OutputTokens: 20},
			},
		}
	}()

	return ch, nil
}

// --- Options Tests ---

func TestApplyOptions(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		opts := ApplyOptions()

		assert.Equal(t, 3, opts.MaxSteps)
		assert.Equal(t, 30*time.Second, opts.HandlerTimeout)
	})

	t.Run("applies custom options", func(t *testing.T) {
		opts := ApplyOptions(
			WithMaxSteps(5),
			WithTimeout(time.Minute),
			WithHandlerTimeout(10*time.Second),
		)

		assert.Equal(t, 5, opts.MaxSteps)
		assert.Equal(t, time.Minute, opts.Timeout)
		assert.Equal(t, 10*time.Second, opts.HandlerTimeout)
	})
}

// --- Agent Tests ---

func TestAgent_Run_SimpleConversation(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{content: "Hello! How can I help you?"},
		},
	}

	registry := tool.NewRegistry()
	a := New(client, registry)

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, TerminationComplete, result.Termination)
	assert.Equal(t, "Hello! How can I help you?", result.Response.Content)
}

func TestAgent_Run_WithToolCalls(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Let me look that up.",
				toolCalls: []ai.ToolCall{
					{ID: "call_1", Name: "getGrievanceStatus", Arguments: `{"grievanceId":"DARPG/2025/00042"}`},
				},
			},
			{content: "Your grievance is under review with the electricity board."},
		},
	}

	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "getGrievanceStatus", Description: "Get grievance status", Parameters: json.RawMessage(`{"type":"object"}`)},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			return `{"status":"under_review"}`, nil
		},
	)

	a := New(client, registry)

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "What happened to my complaint?"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, TerminationComplete, result.Termination)
	assert.Contains(t, result.Response.Content, "under review")

	// Conversation history includes the tool exchange
	assert.True(t, len(result.Messages()) > 1)
}

func TestAgent_Run_HandlerError(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Checking.",
				toolCalls: []ai.ToolCall{
					{ID: "call_1", Name: "performMySchemeSearch", Arguments: `{"query":"pension"}`},
				},
			},
			{content: "I could not reach the scheme portal just now."},
		},
	}

	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "performMySchemeSearch"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	)

	a := New(client, registry)

	var toolResults []ai.ToolResult
	for ev := range a.RunStream(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Any pension schemes?"},
	}) {
		if ev.Type == event.ToolCallResult && ev.ToolResult != nil {
			toolResults = append(toolResults, *ev.ToolResult)
		}
	}

	// Handler failure becomes an error result; the run continues
	require.Len(t, toolResults, 1)
	assert.True(t, toolResults[0].IsError)
	assert.Contains(t, toolResults[0].Content, "upstream unavailable")
}

func TestAgent_Run_MaxSteps(t *testing.T) {
	// Client always returns tool calls, forcing the step limit
	client := &mockClient{
		responses: []mockResponse{
			{content: "Step 1", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 2", toolCalls: []ai.ToolCall{{ID: "c2", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 3", toolCalls: []ai.ToolCall{{ID: "c3", Name: "tool1", Arguments: "{}"}}},
			{content: "Step 4"},
		},
	}

	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "tool1"},
		func(ctx context.Context, call ai.ToolCall) (string, error) { return "ok", nil },
	)

	a := New(client, registry)

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Go"},
	}, WithMaxSteps(2))

	require.NoError(t, err)
	assert.Equal(t, TerminationMaxSteps, result.Termination)
	// Steps 1 and 2 complete; step 3 is cut off by the pre-step check
	assert.Equal(t, 3, result.Steps)
}

func TestAgent_Run_Timeout(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{content: "Processing...", toolCalls: []ai.ToolCall{{ID: "c1", Name: "slow_tool", Arguments: "{}"}}},
		},
	}

	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "slow_tool"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	)

	a := New(client, registry)

	result, _ := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Go"},
	}, WithTimeout(50*time.Millisecond))

	assert.Equal(t, TerminationTimeout, result.Termination)
}

func TestAgent_Run_ClientToolCalls(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Please confirm the details below.",
				toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "confirmGrievance", Arguments: `{"title":"Street light broken"}`},
				},
			},
		},
	}

	registry := tool.NewRegistry()
	require.NoError(t, registry.RegisterClientTool(ai.Tool{Name: "confirmGrievance"}))

	a := New(client, registry)

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "File my complaint"},
	})

	require.NoError(t, err)
	assert.Equal(t, TerminationClientToolCall, result.Termination)
	require.Len(t, result.PendingToolCalls, 1)
	assert.Equal(t, "confirmGrievance", result.PendingToolCalls[0].Name)
	// One model call; the client tool is never executed server-side
	assert.Equal(t, 1, client.callCount)
}

func TestAgent_Run_MixedToolCalls(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Classifying and confirming.",
				toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "classifyGrievance", Arguments: `{"description":"no water supply"}`},
					{ID: "c2", Name: "confirmGrievance", Arguments: `{}`},
				},
			},
		},
	}

	executed := 0
	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "classifyGrievance"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			executed++
			return `{"department":"Water Supply"}`, nil
		},
	)
	require.NoError(t, registry.RegisterClientTool(ai.Tool{Name: "confirmGrievance"}))

	a := New(client, registry)

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "No water in my area"},
	})

	require.NoError(t, err)
	// Backend call executed, client call left pending
	assert.Equal(t, 1, executed)
	assert.Equal(t, TerminationClientToolCall, result.Termination)
	require.Len(t, result.PendingToolCalls, 1)
	assert.Equal(t, "confirmGrievance", result.PendingToolCalls[0].Name)
}

func TestAgent_Run_SkipsProcessedToolCalls(t *testing.T) {
	// The resumed history already holds a result for c1; if the model
	// repeats that ID, the handler must not run again.
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Retrying.",
				toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "createGrievance", Arguments: `{}`},
				},
			},
			{content: "Already filed."},
		},
	}

	executed := 0
	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "createGrievance"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			executed++
			return `{"grievanceId":"DARPG/2025/00042"}`, nil
		},
	)

	a := New(client, registry)

	history := []ai.Message{
		{Role: ai.RoleUser, Content: "File it"},
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "c1", Name: "createGrievance", Arguments: `{}`}}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "c1", Content: `{"grievanceId":"DARPG/2025/00042"}`}),
	}

	result, err := a.Run(context.Background(), history)

	require.NoError(t, err)
	assert.Equal(t, 0, executed)
	assert.Equal(t, TerminationComplete, result.Termination)
}

func TestAgent_Run_SequentialExecutionOrder(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{
				content: "Running tools.",
				toolCalls: []ai.ToolCall{
					{ID: "c1", Name: "tool1", Arguments: "{}"},
					{ID: "c2", Name: "tool2", Arguments: "{}"},
					{ID: "c3", Name: "tool3", Arguments: "{}"},
				},
			},
			{content: "Done"},
		},
	}

	var order []string
	registry := tool.NewRegistry()
	for _, name := range []string{"tool1", "tool2", "tool3"} {
		toolName := name
		registry.MustRegister(
			ai.Tool{Name: toolName},
			func(ctx context.Context, call ai.ToolCall) (string, error) {
				order = append(order, toolName)
				return "ok", nil
			},
		)
	}

	a := New(client, registry)

	_, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Go"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"tool1", "tool2", "tool3"}, order)
}

func TestAgent_RunStream_Events(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{content: "Calling tool", toolCalls: []ai.ToolCall{{ID: "c1", Name: "tool1", Arguments: "{}"}}},
			{content: "Done"},
		},
	}

	registry := tool.NewRegistry()
	registry.MustRegister(
		ai.Tool{Name: "tool1"},
		func(ctx context.Context, call ai.ToolCall) (string, error) { return "result", nil },
	)

	a := New(client, registry)

	events := a.RunStream(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Go"},
	})

	var types []event.Type
	for ev := range events {
		types = append(types, ev.Type)
	}

	assert.Contains(t, types, event.RunStart)
	assert.Contains(t, types, event.StepStart)
	assert.Contains(t, types, event.MessageStart)
	assert.Contains(t, types, event.MessageDelta)
	assert.Contains(t, types, event.MessageEnd)
	assert.Contains(t, types, event.StepEnd)
	assert.Contains(t, types, event.ToolCallStart)
	assert.Contains(t, types, event.ToolCallExecuting)
	assert.Contains(t, types, event.ToolCallResult)
	assert.Contains(t, types, event.RunEnd)
}

func TestAgent_Run_StreamError(t *testing.T) {
	client := &mockClient{
		responses: []mockResponse{
			{err: errors.New("provider exploded")},
		},
	}

	a := New(client, tool.NewRegistry())

	result, err := a.Run(context.Background(), []ai.Message{
		{Role: ai.RoleUser, Content: "Hi"},
	})

	require.Error(t, err)
	assert.Equal(t, TerminationError, result.Termination)
	assert.Contains(t, err.Error(), "provider exploded")
}

func TestTerminationReason_Constants(t *testing.T) {
	assert.Equal(t, TerminationReason("complete"), TerminationComplete)
	assert.Equal(t, TerminationReason("max_steps"), TerminationMaxSteps)
	assert.Equal(t, TerminationReason("timeout"), TerminationTimeout)
	assert.Equal(t, TerminationReason("client_tool_call"), TerminationClientToolCall)
	assert.Equal(t, TerminationReason("error"), TerminationError)
	assert.Equal(t, TerminationReason("cancelled"), TerminationCancelled)
}
