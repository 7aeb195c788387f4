// Command sevad runs the Seva grievance-assistant server: an AG-UI chat
// endpoint backed by the tool-calling agent, plus REST routes for
// grievance lookup, speech, and document upload.
//
// Configuration is via environment variables (a .env file is honored):
//
//	SEVA_ADDR              - Listen address (default: :8080)
//	SEVA_MODEL             - Chat model ID (default: claude-3-5-haiku-latest)
//	SEVA_MAX_STEPS         - Max agent steps per turn (default: 3)
//	SEVA_TIMEOUT           - Per-run timeout (default: 2m)
//	GRM_API_URL            - Case-management API base URL (required)
//	GRM_API_TOKEN          - Case-management API bearer token (required)
//	USER_ID                - User the grievances are filed under (required)
//	GOOGLE_CSE_KEY/ID      - MyScheme search credentials (optional)
//	ELEVENLABS_API_KEY     - Speech credentials (optional)
//	ELEVENLABS_VOICE_ID    - TTS voice override (optional)
//	BLOB_*                 - Document storage bucket settings (optional)
//	ANTHROPIC_API_KEY      - Key for Anthropic models
//	OPENAI_API_KEY         - Key for OpenAI models
//	GEMINI_API_KEY         - Key for Google models
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openseva/seva/agent"
	"github.com/openseva/seva/assistant"
	"github.com/openseva/seva/blob"
	"github.com/openseva/seva/client"
	"github.com/openseva/seva/grm"
	"github.com/openseva/seva/myscheme"
	"github.com/openseva/seva/speech"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	clientEvents := make(chan client.Event, 64)
	go logClientEvents(clientEvents)

	chatClient := client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Defaults: client.Defaults{Chat: cfg.Model},
		Events:   clientEvents,
	})

	grmClient := grm.New(cfg.GRMAPIURL, cfg.GRMAPIToken)
	schemes := myscheme.New(cfg.GoogleCSEKey, cfg.GoogleCSEID)

	registry := assistant.NewRegistry(assistant.Config{
		GRM:     grmClient,
		Schemes: schemes,
		UserID:  cfg.UserID,
	})

	var speechClient *speech.Client
	if cfg.ElevenLabsKey != "" {
		speechClient = speech.New(cfg.ElevenLabsKey)
	}

	var blobStore *blob.Store
	if cfg.BlobBucket != "" {
		blobStore, err = blob.NewStore(context.Background(), blob.StoreConfig{
			Bucket:          cfg.BlobBucket,
			Endpoint:        cfg.BlobEndpoint,
			AccessKeyID:     cfg.BlobAccessKeyID,
			SecretAccessKey: cfg.BlobSecretAccessKey,
			PublicURL:       cfg.BlobPublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to create document store: %v", err)
		}
	}

	a := agent.New(chatClient, registry)
	chatHandler := NewChatHandler(a, registry, cfg)
	api := NewAPI(grmClient, speechClient, blobStore, cfg.UserID, cfg.ElevenLabsVoice)

	mux := http.NewServeMux()
	mux.Handle("/api/chat", chatHandler)
	mux.HandleFunc("/api/getGrievance", api.GetGrievance)
	mux.HandleFunc("/api/grievances", api.ListGrievances)
	mux.HandleFunc("/api/speech-to-text", api.SpeechToText)
	mux.HandleFunc("/api/text-to-speech", api.TextToSpeech)
	mux.HandleFunc("/api/upload", api.Upload)
	mux.HandleFunc("/healthz", healthHandler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE and audio streams need no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Seva server starting on %s", cfg.Addr)
	log.Printf("Model: %s (%s)", cfg.Model, cfg.Model.Provider())
	log.Printf("Tools: %d registered", registry.Len())

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

// logClientEvents logs completed model calls with token usage and cost.
func logClientEvents(ch <-chan client.Event) {
	for ev := range ch {
		switch ev.Type {
		case client.EventRequestComplete:
			if ev.Usage == nil {
				continue
			}
			slog.Info("model call completed",
				"operation", ev.Operation,
				"provider", ev.Provider,
				"model", ev.Model,
				"input_tokens", ev.Usage.InputTokens,
				"output_tokens", ev.Usage.OutputTokens,
				"cost_usd", ev.Cost,
				"duration_ms", ev.Duration.Milliseconds(),
			)
		case client.EventRetry:
			slog.Warn("model call retrying", "operation", ev.Operation, "provider", ev.Provider)
		}
	}
}
