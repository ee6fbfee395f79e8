package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NoSpeechTranscript is persisted instead of an empty transcript so the
// transcript column never ends up empty for silent audio.
const NoSpeechTranscript = "No speech detected in audio."

// TranscriptionService converts an audio file into plain text.
type TranscriptionService interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type transcriptionService struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewTranscriptionService creates a client for an OpenAI-compatible
// transcription server (faster-whisper-server, whisper.cpp server).
func NewTranscriptionService(baseURL, model string) TranscriptionService {
	return &transcriptionService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe implements TranscriptionService.
func (s *transcriptionService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	if err := writer.WriteField("model", s.model); err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}
	if err := writer.WriteField("language", "en"); err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build multipart form: %w", err)
	}

	url := s.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("transcription server returned %d: %s", resp.StatusCode, string(msg))
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	transcript := strings.TrimSpace(result.Text)
	if transcript == "" {
		return NoSpeechTranscript, nil
	}

	return transcript, nil
}
