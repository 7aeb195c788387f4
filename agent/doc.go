// Package agent implements a step-bounded tool-calling loop on top of a
// chat client and tool registry.
//
// Each run streams the model response, executes any backend tool calls
// through the registry, feeds the results back, and repeats until the
// model answers without tool calls or the step limit is hit. Tool calls
// registered as client tools are never executed server-side: the run
// ends with the pending calls attached, and the caller resumes by
// resubmitting the conversation with the results appended.
//
//	registry := tool.NewRegistry()
//	registry.MustRegister(searchTool, searchHandler)
//
//	a := agent.New(client, registry)
//	for ev := range a.RunStream(ctx, messages) {
//		switch ev.Type {
//		case event.MessageDelta:
//			fmt.Print(ev.Delta)
//		case event.RunEnd:
//			if len(ev.PendingToolCalls) > 0 {
//				// hand off to the client
//			}
//		}
//	}
//
// Runs are stateless: history lives in the submitted messages, and a
// resumed run is just a new run over a longer history. Tool call IDs
// that already have results in the history are never executed again.
package agent
