package agui

import (
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/openseva/seva/event"
)

// Mapper converts seva events to AG-UI events.
// With the unified event system this is a 1:1 mapping - each seva event
// maps to at most one AG-UI event.
//
// The Mapper tracks run depth so that nested runs (an agent invoked
// from within a tool handler) only emit a single outer
// RUN_STARTED/RUN_FINISHED pair.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use - each goroutine should have its own Mapper.
type Mapper struct {
	threadID string
	runID    string

	runDepth int

	initialState    any
	hasInitialState bool
	snapshotEmitted bool
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithInitialState configures the mapper to emit a STATE_SNAPSHOT event
// carrying the given state immediately after RUN_STARTED. Use this to
// sync frontend state at the start of a run.
func WithInitialState(state any) MapperOption {
	return func(m *Mapper) {
		m.initialState = state
		m.hasInitialState = true
	}
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED, RUN_FINISHED).
func NewMapper(threadID, runID string, opts ...MapperOption) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	m := &Mapper{
		threadID: threadID,
		runID:    runID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunDepth returns the current run nesting depth.
func (m *Mapper) RunDepth() int {
	return m.runDepth
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// StateSnapshot returns a STATE_SNAPSHOT event carrying the given state.
func (m *Mapper) StateSnapshot(state any) events.Event {
	return events.NewStateSnapshotEvent(state)
}

// MapEvent converts a unified seva event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent, and for
// RunStart/RunEnd of nested runs.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	// Run lifecycle
	case event.RunStart:
		m.runDepth++
		if m.runDepth > 1 {
			return nil
		}
		return m.RunStarted()
	case event.RunEnd:
		if m.runDepth > 0 {
			m.runDepth--
		}
		if m.runDepth > 0 {
			return nil
		}
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)

	// Step lifecycle
	case event.StepStart:
		return events.NewStepStartedEvent(stepName(e.Step))
	case event.StepEnd:
		return events.NewStepFinishedEvent(stepName(e.Step))

	// Message lifecycle
	case event.MessageStart:
		return events.NewTextMessageStartEvent(
			e.MessageID,
			events.WithRole(RoleAssistant),
		)
	case event.MessageDelta:
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	case event.MessageEnd:
		return events.NewTextMessageEndEvent(e.MessageID)

	// Tool call lifecycle
	case event.ToolCallStart:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallStartEvent(e.ToolCall.ID, e.ToolCall.Name)
	case event.ToolCallArgs:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallArgsEvent(e.ToolCall.ID, e.ToolCall.Arguments)
	case event.ToolCallEnd:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallEndEvent(e.ToolCall.ID)
	case event.ToolCallResult:
		if e.ToolCall == nil || e.ToolResult == nil {
			return nil
		}
		messageID := events.GenerateMessageID()
		return events.NewToolCallResultEvent(messageID, e.ToolCall.ID, e.ToolResult.Content)

	// Backend-only bookkeeping, no AG-UI equivalent
	case event.ToolCallExecuting:
		return nil

	default:
		return nil
	}
}

// MapStream converts a channel of seva events into a channel of AG-UI
// events, dropping events with no AG-UI equivalent. If the mapper was
// created with [WithInitialState], a STATE_SNAPSHOT follows the outer
// RUN_STARTED. The returned channel is closed when the input closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, 16)
	go func() {
		defer close(out)
		for e := range in {
			mapped := m.MapEvent(e)
			if mapped == nil {
				continue
			}
			out <- mapped

			if mapped.Type() == events.EventTypeRunStarted && m.hasInitialState && !m.snapshotEmitted {
				m.snapshotEmitted = true
				out <- m.StateSnapshot(m.initialState)
			}
		}
	}()
	return out
}

func stepName(step int) string {
	return fmt.Sprintf("step_%d", step)
}
