package speechhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/infrastructure/inference"
)

type fakeSpeech struct {
	audio   []byte
	request inference.SpeechRequest
	calls   int
}

func (f *fakeSpeech) Synthesize(_ context.Context, request inference.SpeechRequest) ([]byte, error) {
	f.calls++
	f.request = request
	return f.audio, nil
}

func serve(handler *SpeechHandler, body map[string]any) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/v1/speech", handler.Synthesize)

	encoded, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/speech", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSynthesizeStripsMarkdownAndRelaysAudio(t *testing.T) {
	speech := &fakeSpeech{audio: []byte("mp3-bytes")}
	handler := NewSpeechHandler(speech, &config.Config{SpeechModel: "tts-test"})

	// pitch is accepted but has no provider-side control.
	recorder := serve(handler, map[string]any{
		"text":  "# Hello\nThis is **important** news.",
		"voice": "nova",
		"speed": 1.25,
		"pitch": 1.5,
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %q", got)
	}
	if recorder.Body.String() != "mp3-bytes" {
		t.Fatal("audio bytes must be relayed unchanged")
	}
	if speech.request.Input != "Hello\nThis is important news." {
		t.Fatalf("markdown must be stripped before synthesis, got %q", speech.request.Input)
	}
	if speech.request.Voice != "nova" || speech.request.Model != "tts-test" {
		t.Fatalf("unexpected provider request: %+v", speech.request)
	}
}

func TestSynthesizeDefaultsVoice(t *testing.T) {
	speech := &fakeSpeech{audio: []byte("x")}
	handler := NewSpeechHandler(speech, &config.Config{SpeechModel: "tts-test"})

	recorder := serve(handler, map[string]any{"text": "plain words"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if speech.request.Voice != defaultVoice {
		t.Fatalf("expected default voice %q, got %q", defaultVoice, speech.request.Voice)
	}
}

func TestSynthesizeRejectsEmptyProse(t *testing.T) {
	speech := &fakeSpeech{}
	handler := NewSpeechHandler(speech, &config.Config{SpeechModel: "tts-test"})

	// Only markdown scaffolding, nothing speakable.
	recorder := serve(handler, map[string]any{"text": "```\n```"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if speech.calls != 0 {
		t.Fatal("provider must not be called for empty prose")
	}
}
