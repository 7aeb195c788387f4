package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openseva/seva/blob"
	"github.com/openseva/seva/grm"
	"github.com/openseva/seva/speech"
)

// maxUploadBytes bounds a single upload request body.
const maxUploadBytes = 32 << 20

// API serves the REST side of the server: grievance lookups, the
// paginated listing, speech, and document upload.
type API struct {
	grm    *grm.Client
	speech *speech.Client
	blobs  *blob.Store
	userID string
	voice  string
}

// NewAPI creates the REST handler set. Speech and blobs may be nil;
// their routes answer 503 until configured.
func NewAPI(grmClient *grm.Client, speechClient *speech.Client, blobs *blob.Store, userID, voice string) *API {
	return &API{grm: grmClient, speech: speechClient, blobs: blobs, userID: userID, voice: voice}
}

// GetGrievance handles POST /api/getGrievance.
func (a *API) GetGrievance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Grievance ID is required",
			"success": false,
		})
		return
	}

	g, err := a.grm.GetGrievance(r.Context(), body.ID)
	if errors.Is(err, grm.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Grievance not found",
			"success": false,
		})
		return
	}
	if err != nil {
		slog.Error("failed to fetch grievance", "grievance_id", body.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch grievance details",
			"success": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"grievance": g,
		"success":   true,
	})
}

// ListGrievances handles GET /api/grievances?page&limit&status.
func (a *API) ListGrievances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	status := r.URL.Query().Get("status")

	grievances, err := a.grm.ListUserGrievances(r.Context(), a.userID)
	if err != nil {
		slog.Error("failed to list grievances", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to fetch grievances",
		})
		return
	}

	writeJSON(w, http.StatusOK, grm.Paginate(grievances, page, limit, status))
}

// SpeechToText handles POST /api/speech-to-text with a multipart audio
// file.
func (a *API) SpeechToText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.speech == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "Speech service is not configured",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "No audio file provided",
		})
		return
	}
	defer file.Close()

	transcript, err := a.speech.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		slog.Error("transcription failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "Failed to transcribe audio",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"text": transcript.Text})
}

// TextToSpeech handles POST /api/text-to-speech, streaming MP3 audio.
func (a *API) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.speech == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "Speech service is not configured",
		})
		return
	}

	var body struct {
		Text    string `json:"text"`
		VoiceID string `json:"voiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Text is required",
		})
		return
	}

	voice := body.VoiceID
	if voice == "" {
		voice = a.voice
	}

	audio, err := a.speech.Synthesize(r.Context(), body.Text, voice)
	if err != nil {
		slog.Error("synthesis failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "Failed to convert text to speech",
		})
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	if _, err := io.Copy(w, audio); err != nil {
		slog.Error("audio stream interrupted", "error", err)
	}
}

// Upload handles POST /api/upload with multipart files. Uploads are
// sequential; the first failure aborts the batch and no file list is
// returned, so the client never binds a partial result.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.blobs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"message": "Document storage is not configured",
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid multipart request",
		})
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "No files provided",
		})
		return
	}

	files := make([]blob.File, 0, len(headers))
	var openFiles []io.Closer
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Failed to read " + h.Filename,
			})
			return
		}
		openFiles = append(openFiles, f)
		files = append(files, blob.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Data:        f,
		})
	}

	uploaded, err := a.blobs.UploadAll(r.Context(), files)
	if err != nil {
		slog.Error("document upload failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"message": "Failed to upload documents",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Successfully uploaded documents",
		"fileCount":     len(uploaded),
		"uploadedFiles": uploaded,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
