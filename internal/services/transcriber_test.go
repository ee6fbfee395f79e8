package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "answer.webm")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatalf("failed to write test audio: %v", err)
	}
	return path
}

func TestTranscribe_ReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "base.en", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  I led the migration project.  "}`))
	}))
	defer server.Close()

	transcriber := NewTranscriptionService(server.URL, "base.en")

	transcript, err := transcriber.Transcribe(context.Background(), writeTestAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "I led the migration project.", transcript)
}

func TestTranscribe_EmptyTextFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "   "}`))
	}))
	defer server.Close()

	transcriber := NewTranscriptionService(server.URL, "base.en")

	transcript, err := transcriber.Transcribe(context.Background(), writeTestAudio(t))
	require.NoError(t, err)
	assert.Equal(t, NoSpeechTranscript, transcript)
}

func TestTranscribe_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	transcriber := NewTranscriptionService(server.URL, "base.en")

	_, err := transcriber.Transcribe(context.Background(), writeTestAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestTranscribe_MissingFile(t *testing.T) {
	transcriber := NewTranscriptionService("http://localhost:1", "base.en")

	_, err := transcriber.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.webm"))
	require.Error(t, err)
}
