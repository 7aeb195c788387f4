package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	t.Run("sends multipart audio and returns text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/speech-to-text", r.URL.Path)
			assert.Equal(t, "secret", r.Header.Get("xi-api-key"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "scribe_v1", r.FormValue("model_id"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "note.webm", header.Filename)

			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "fake-audio", string(data))

			json.NewEncoder(w).Encode(map[string]string{"text": "my pension has not arrived"})
		}))
		defer srv.Close()

		client := New("secret", WithBaseURL(srv.URL))
		result, err := client.Transcribe(context.Background(), "note.webm", strings.NewReader("fake-audio"))
		require.NoError(t, err)
		assert.Equal(t, "my pension has not arrived", result.Text)
	})

	t.Run("non-200 is an error with detail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("unsupported codec"))
		}))
		defer srv.Close()

		client := New("secret", WithBaseURL(srv.URL))
		_, err := client.Transcribe(context.Background(), "note.webm", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported codec")
	})
}

func TestSynthesize(t *testing.T) {
	t.Run("streams audio for the configured voice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
			assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Namaste", body["text"])
			assert.Equal(t, "eleven_multilingual_v2", body["model_id"])

			w.Write([]byte("mp3-bytes"))
		}))
		defer srv.Close()

		client := New("secret", WithBaseURL(srv.URL))
		audio, err := client.Synthesize(context.Background(), "Namaste", "voice-1")
		require.NoError(t, err)
		defer audio.Close()

		data, err := io.ReadAll(audio)
		require.NoError(t, err)
		assert.Equal(t, "mp3-bytes", string(data))
	})

	t.Run("falls back to the default voice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, DefaultVoiceID)
			w.Write([]byte("ok"))
		}))
		defer srv.Close()

		client := New("secret", WithBaseURL(srv.URL))
		audio, err := client.Synthesize(context.Background(), "hello", "")
		require.NoError(t, err)
		audio.Close()
	})
}
