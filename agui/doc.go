// Package agui provides utilities for integrating seva with the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol that
// standardizes how AI agents connect to user-facing applications. This package
// provides mapping utilities to convert seva events to AG-UI events, enabling
// easy integration with AG-UI-compatible frontends.
//
// # Overview
//
// This package provides:
//   - [RunAgentInput]: The AG-UI request payload, with [RunAgentInput.Prepare]
//     for validation and conversion
//   - [Mapper]: Event converter producing the AG-UI event stream for a run
//   - Message conversion utilities: [ToSevaMessages], [FromSevaMessages]
//
// The package does NOT provide HTTP handlers or transport implementations. Users
// are responsible for implementing their own server using the AG-UI SDK's SSE
// writer or their preferred transport mechanism.
//
// # Usage
//
// Create a Mapper for each run and use it to convert seva events:
//
//	prepared, err := input.Prepare()
//	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
//
//	for aguiEvent := range mapper.MapStream(a.RunStream(ctx, prepared.Messages)) {
//	    writeEvent(aguiEvent)
//	}
//
// # Message Conversion
//
// Use [ToSevaMessages] to convert AG-UI messages to seva messages for input:
//
//	messages := agui.ToSevaMessages(aguiMessages)
//	result := agent.Run(ctx, messages)
//
// Use [FromSevaMessages] to convert seva messages to AG-UI format for snapshots:
//
//	snapshot := events.NewMessagesSnapshotEvent(agui.FromSevaMessages(history))
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Each goroutine should have its own
// Mapper instance. Message conversion functions are stateless and safe for
// concurrent use.
package agui
