// Package chat provides the canonical Client interface.
//
// This package exists to provide a unified interface that can be used by
// the agent and tool packages without import cycles. The interface
// combines both blocking Chat and streaming ChatStream methods.
//
// The [github.com/openseva/seva/client.Client] type implements this
// interface.
package chat

import (
	"context"

	ai "github.com/openseva/seva"
)

// Client defines the interface for high-level chat clients.
// This is the canonical interface consumed by the agent package.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)

	// ChatStream sends a conversation and returns a channel of streaming
	// events. The channel is closed when the stream completes; callers
	// should check StreamEvent.Err for errors.
	ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error)
}
