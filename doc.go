// Package seva provides the core chat primitives for the Seva grievance
// assistant: provider-agnostic messages, tools, streaming events, and
// error classification.
//
// The package abstracts away provider-specific APIs so the rest of the
// system can switch between Anthropic (Claude), OpenAI (GPT), and Google
// (Gemini) with minimal changes.
//
// # Core Interface
//
// [ChatProvider] is implemented by each provider adapter and by the
// unified [github.com/openseva/seva/client] package, which adds lazy
// provider initialization and retry handling. Model constants live in
// [github.com/openseva/seva/model].
//
// # Basic Usage
//
// Send a simple chat message:
//
//	c := client.New(client.Config{
//	    APIKeys:  client.APIKeys{Anthropic: os.Getenv("ANTHROPIC_API_KEY")},
//	    Defaults: client.Defaults{Chat: model.ClaudeHaiku45},
//	})
//
//	messages := []seva.Message{
//	    seva.NewUserMessage("How do I file a grievance about a broken streetlight?"),
//	}
//
//	resp, err := c.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Tool Calling
//
// Declare tools with [WithTools]; the model responds with [ToolCall]
// entries that are matched back via [ToolResult]. The
// [github.com/openseva/seva/agent] package automates this loop, and
// [github.com/openseva/seva/assistant] registers the grievance tool set.
//
// # Errors
//
// Provider errors are normalized into [CategorizedError] values so
// callers can distinguish transient failures (retried automatically by
// the client) from permanent and user-input errors.
package seva
