// Package speech wraps the ElevenLabs speech-to-text and text-to-speech
// APIs for the voice side of the assistant.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"

	// DefaultVoiceID is used when no voice is configured (Rachel).
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

	sttModel = "scribe_v1"
	ttsModel = "eleven_multilingual_v2"
)

// Client calls the ElevenLabs API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// New creates an ElevenLabs client.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcription is the result of a speech-to-text call.
type Transcription struct {
	Text string `json:"text"`
}

// Transcribe sends audio to the scribe model and returns the transcript.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (*Transcription, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}
	if err := mw.WriteField("model_id", sttModel); err != nil {
		return nil, err
	}
	if err := mw.WriteField("language", "en"); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: transcribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech: transcribe failed with status %d: %s", resp.StatusCode, detail)
	}

	var t Transcription
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("speech: decode transcript: %w", err)
	}
	return &t, nil
}

// Synthesize converts text to MP3 audio with the multilingual voice
// model. The caller owns the returned stream and must close it.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (io.ReadCloser, error) {
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": ttsModel,
		"voice_settings": map[string]any{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech: synthesize failed with status %d: %s", resp.StatusCode, detail)
	}
	return resp.Body, nil
}
