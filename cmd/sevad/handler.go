package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/openseva/seva"
	"github.com/openseva/seva/agent"
	"github.com/openseva/seva/agui"
	"github.com/openseva/seva/assistant"
	"github.com/openseva/seva/tool"
)

// ChatHandler runs the Seva agent for AG-UI requests and streams the
// run back over SSE.
type ChatHandler struct {
	agent    *agent.Agent
	registry *tool.Registry
	config   *Config
}

// NewChatHandler creates the /api/chat handler.
func NewChatHandler(a *agent.Agent, r *tool.Registry, cfg *Config) *ChatHandler {
	return &ChatHandler{agent: a, registry: r, config: cfg}
}

// ServeHTTP handles POST requests to run the agent and stream events via SSE.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log := slog.With(
		"run_id", input.RunID,
		"thread_id", input.ThreadID,
	)

	prepared, err := input.Prepare()
	if err != nil {
		log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Frontend-declared tools become client tools for this run only.
	// Names already in the registry (the permanent Seva client tools, or
	// any backend tool) are skipped, and cleanup removes only the names
	// this request actually added.
	var requestTools []string
	for _, t := range prepared.SevaTools() {
		if _, exists := h.registry.GetTool(t.Name); exists {
			continue
		}
		if err := h.registry.RegisterClientTool(t); err != nil {
			log.Warn("failed to register frontend tool", "tool", t.Name, "error", err)
			continue
		}
		requestTools = append(requestTools, t.Name)
	}
	if len(requestTools) > 0 {
		log.Info("registered frontend tools", "count", len(requestTools), "names", requestTools)
	}
	defer func() {
		for _, name := range requestTools {
			h.registry.Unregister(name)
		}
	}()

	messages := withSystemPrompt(prepared.Messages)
	log.Info("request started", "message_count", len(messages))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var mapperOpts []agui.MapperOption
	if prepared.State != nil {
		mapperOpts = append(mapperOpts, agui.WithInitialState(prepared.State))
	}
	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID, mapperOpts...)

	ctx := r.Context()
	runEvents := h.agent.RunStream(ctx, messages,
		agent.WithMaxSteps(h.config.MaxSteps),
		agent.WithTimeout(h.config.Timeout),
		agent.WithModel(h.config.Model),
	)

	var eventCount int
	for aguiEvent := range mapper.MapStream(runEvents) {
		eventCount++
		if err := writeSSE(w, flusher, aguiEvent); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", aguiEvent.Type())
			return
		}
	}

	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// withSystemPrompt prepends Seva's system prompt unless the client
// already supplied a system message.
func withSystemPrompt(messages []ai.Message) []ai.Message {
	for _, m := range messages {
		if m.Role == ai.RoleSystem {
			return messages
		}
	}
	out := make([]ai.Message, 0, len(messages)+1)
	out = append(out, ai.NewSystemMessage(assistant.SystemPrompt))
	return append(out, messages...)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
