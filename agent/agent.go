package agent

import (
	"context"

	ai "github.com/openseva/seva"
	"github.com/openseva/seva/chat"
	"github.com/openseva/seva/event"
	"github.com/openseva/seva/internal/store"
	"github.com/openseva/seva/tool"
)

// Agent orchestrates tool-calling conversations against a chat client.
// Backend tools registered with handlers are executed in-process; client
// tools pause the run and surface their calls to the caller, which
// resumes by resubmitting the history with the tool results appended.
type Agent struct {
	chatClient chat.Client
	registry   *tool.Registry
}

// New creates a new Agent with the given chat client and tool registry.
func New(c chat.Client, registry *tool.Registry) *Agent {
	return &Agent{
		chatClient: c,
		registry:   registry,
	}
}

// Run executes the agent loop and returns the final result.
// This is a blocking call that runs until the agent completes or pauses
// on client tool calls.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	eventCh := a.RunStream(ctx, messages, opts...)

	result := &Result{
		history: store.NewMessageStoreFrom(messages, nil),
	}

	var totalUsage ai.Usage
	var lastResponse *ai.Response
	var pendingAssistantMsg *ai.Message
	var pendingToolResults []ai.ToolResult

	for ev := range eventCh {
		result.Steps = ev.Step

		switch ev.Type {
		case event.StepStart:
			// Commit pending messages from previous step
			if pendingAssistantMsg != nil {
				result.history.Append(*pendingAssistantMsg)
				pendingAssistantMsg = nil
			}
			if len(pendingToolResults) > 0 {
				result.history.Append(ai.NewToolResultMessage(pendingToolResults...))
				pendingToolResults = nil
			}

		case event.StepEnd:
			lastResponse = ev.Response
			if ev.Response != nil {
				totalUsage.InputTokens += ev.Response.Usage.InputTokens
				totalUsage.OutputTokens += ev.Response.Usage.OutputTokens

				if len(ev.Response.ToolCalls) > 0 {
					pendingAssistantMsg = &ai.Message{
						Role:      ai.RoleAssistant,
						Content:   ev.Response.Content,
						ToolCalls: ev.Response.ToolCalls,
					}
				}
			}

		case event.ToolCallResult:
			if ev.ToolResult != nil {
				pendingToolResults = append(pendingToolResults, *ev.ToolResult)
			}

		case event.RunEnd:
			result.Response = ev.Response
			result.Termination = TerminationReason(ev.Message)
			result.PendingToolCalls = ev.PendingToolCalls
			if result.Response == nil {
				result.Response = lastResponse
			}

		case event.RunError:
			result.Error = ev.Error
			result.Termination = TerminationError
		}
	}

	// Commit any remaining messages
	if pendingAssistantMsg != nil {
		result.history.Append(*pendingAssistantMsg)
	}
	if len(pendingToolResults) > 0 {
		result.history.Append(ai.NewToolResultMessage(pendingToolResults...))
	}

	result.TotalUsage = totalUsage
	return result, result.Error
}

// RunStream executes the agent loop and returns a channel of events.
// The channel is closed when the agent completes, pauses on client tool
// calls, or encounters a fatal error. Callers should drain the channel
// to ensure proper cleanup.
func (a *Agent) RunStream(ctx context.Context, messages []ai.Message, opts ...Option) <-chan event.Event {
	eventCh := event.NewChannel()

	go a.runLoop(ctx, messages, eventCh, opts...)

	return eventCh
}

func (a *Agent) runLoop(ctx context.Context, messages []ai.Message, eventCh chan<- event.Event, opts ...Option) {
	defer close(eventCh)

	options := ApplyOptions(opts...)

	// Apply overall timeout if specified
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	event.Emit(eventCh, event.Event{Type: event.RunStart})

	// Prepare chat options with tools
	chatOpts := append([]ai.Option{ai.WithTools(a.registry.Tools())}, options.ChatOptions...)

	// Copy messages to avoid mutating the original
	history := store.NewMessageStoreFrom(messages, nil)

	// Tool call IDs that already have results in the submitted history.
	// A resumed run carries results for calls the previous run paused on;
	// the model may repeat those IDs and they must not execute twice.
	processed := processedToolCallIDs(messages)

	step := 0

	for {
		step++

		// Check termination conditions before step
		if reason := a.checkTermination(ctx, step, options); reason != "" {
			a.emitComplete(eventCh, step, nil, reason)
			return
		}

		event.Emit(eventCh, event.Event{Type: event.StepStart, Step: step})

		response, err := a.executeStep(ctx, history.Messages(), chatOpts, step, eventCh)
		if err != nil {
			event.Emit(eventCh, event.Event{Type: event.RunError, Step: step, Error: err})
			return
		}

		event.Emit(eventCh, event.Event{Type: event.StepEnd, Step: step, Response: response})

		// No tool calls = natural completion
		if len(response.ToolCalls) == 0 {
			a.emitComplete(eventCh, step, response, TerminationComplete)
			return
		}

		// Split tool calls into backend (executable) and client (pending),
		// skipping any the history already holds a result for.
		var backendCalls, clientCalls []ai.ToolCall
		for _, tc := range response.ToolCalls {
			if processed[tc.ID] {
				continue
			}
			if a.registry.IsClientTool(tc.Name) {
				clientCalls = append(clientCalls, tc)
			} else {
				backendCalls = append(backendCalls, tc)
			}
		}

		history.Append(ai.Message{
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		// Execute backend calls sequentially in call order
		results := make([]ai.ToolResult, 0, len(backendCalls))
		for _, tc := range backendCalls {
			event.Emit(eventCh, event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})
			event.Emit(eventCh, event.Event{Type: event.ToolCallArgs, Step: step, ToolCall: &tc})
			results = append(results, a.executeToolCall(ctx, tc, options, step, eventCh))
			processed[tc.ID] = true
		}
		if len(results) > 0 {
			history.Append(ai.NewToolResultMessage(results...))
		}

		// Client calls are not executed here. Surface them and pause;
		// the client resubmits the conversation with results attached.
		if len(clientCalls) > 0 {
			for _, tc := range clientCalls {
				event.Emit(eventCh, event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})
				event.Emit(eventCh, event.Event{Type: event.ToolCallArgs, Step: step, ToolCall: &tc})
				event.Emit(eventCh, event.Event{Type: event.ToolCallEnd, Step: step, ToolCall: &tc})
			}
			event.Emit(eventCh, event.Event{
				Type:             event.RunEnd,
				Step:             step,
				Response:         response,
				Message:          string(TerminationClientToolCall),
				PendingToolCalls: clientCalls,
			})
			return
		}
	}
}

// executeStep performs one streaming model call, forwarding text deltas
// as message events, and returns the accumulated response.
func (a *Agent) executeStep(ctx context.Context, messages []ai.Message, chatOpts []ai.Option, step int, eventCh chan<- event.Event) (*ai.Response, error) {
	streamCh, err := a.chatClient.ChatStream(ctx, messages, chatOpts...)
	if err != nil {
		return nil, err
	}

	var response *ai.Response
	messageID := ai.GenerateMessageID()
	messageStarted := false

	for ev := range streamCh {
		if ev.Err != nil {
			return nil, ev.Err
		}

		if ev.Delta != "" {
			if !messageStarted {
				event.Emit(eventCh, event.Event{
					Type:      event.MessageStart,
					Step:      step,
					MessageID: messageID,
				})
				messageStarted = true
			}
			event.Emit(eventCh, event.Event{
				Type:      event.MessageDelta,
				Step:      step,
				MessageID: messageID,
				Delta:     ev.Delta,
			})
		}

		if ev.Done {
			if messageStarted {
				event.Emit(eventCh, event.Event{
					Type:      event.MessageEnd,
					Step:      step,
					MessageID: messageID,
					Response:  ev.Response,
				})
			}
			response = ev.Response
		}
	}

	if response == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrStreamTruncated
	}

	return response, nil
}

func (a *Agent) executeToolCall(ctx context.Context, tc ai.ToolCall, options *Options, step int, eventCh chan<- event.Event) ai.ToolResult {
	event.Emit(eventCh, event.Event{Type: event.ToolCallExecuting, Step: step, ToolCall: &tc})

	execCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	result, err := a.registry.Execute(execCtx, tc)
	if err != nil {
		// Tool not found or handler failure. The error text goes back to
		// the model so it can recover in conversation.
		result = ai.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	event.Emit(eventCh, event.Event{Type: event.ToolCallEnd, Step: step, ToolCall: &tc})
	event.Emit(eventCh, event.Event{Type: event.ToolCallResult, Step: step, ToolCall: &tc, ToolResult: &result})
	return result
}

func (a *Agent) checkTermination(ctx context.Context, step int, options *Options) TerminationReason {
	if ctx.Err() != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return TerminationTimeout
		}
		return TerminationCancelled
	}

	// step is 1-indexed, checked before executing
	if options.MaxSteps > 0 && step > options.MaxSteps {
		return TerminationMaxSteps
	}

	return ""
}

func (a *Agent) emitComplete(ch chan<- event.Event, step int, response *ai.Response, reason TerminationReason) {
	event.Emit(ch, event.Event{
		Type:     event.RunEnd,
		Step:     step,
		Response: response,
		Message:  string(reason),
	})
}

// processedToolCallIDs collects the IDs of tool calls whose results are
// already present in the conversation history.
func processedToolCallIDs(messages []ai.Message) map[string]bool {
	processed := make(map[string]bool)
	for _, msg := range messages {
		for _, tr := range msg.ToolResults {
			processed[tr.ToolCallID] = true
		}
	}
	return processed
}
