// Package anthropic provides an Anthropic Claude API client implementing
// the seva ChatProvider interface.
//
// This package wraps the official Anthropic Go SDK to provide Claude model
// access through the unified interface.
//
// # Supported Features
//
//   - Chat completions (streaming and non-streaming)
//   - Tool/function calling
//   - Multimodal inputs (images)
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	messages := []seva.Message{
//	    seva.NewUserMessage("Explain the CPGRAMS grievance process briefly."),
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client := anthropic.New(apiKey, anthropic.WithModel(anthropic.ClaudeHaiku45))
//
// Or per-request via seva.WithModel with a model from the model package.
//
// # Streaming
//
//	stream, err := client.ChatStream(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    if event.Done {
//	        fmt.Printf("\nTokens: %d in, %d out\n",
//	            event.Response.Usage.InputTokens,
//	            event.Response.Usage.OutputTokens)
//	    } else {
//	        fmt.Print(event.Delta)
//	    }
//	}
package anthropic
