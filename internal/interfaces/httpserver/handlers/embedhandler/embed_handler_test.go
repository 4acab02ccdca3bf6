package embedhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/domain/persona"
)

type fakePersonas struct {
	records map[string]*persona.Record
}

func (f *fakePersonas) FindByPublicID(_ context.Context, publicID string) (*persona.Record, error) {
	return f.records[publicID], nil
}

func newRouter(handler *EmbedHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/embed", handler.Embed)
	router.GET("/widget.js", handler.WidgetScript)
	return router
}

func get(router *gin.Engine, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestEmbedReturnsSnippet(t *testing.T) {
	repo := &fakePersonas{records: map[string]*persona.Record{
		"sage-01": {PublicID: "sage-01", Name: "Sage"},
	}}
	handler := NewEmbedHandler(repo, &config.Config{WidgetBaseURL: "https://widgets.example.com"})
	router := newRouter(handler)

	recorder := get(router, "/v1/embed?personaId=sage-01", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var payload EmbedResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	want := `<script src="https://widgets.example.com/widget.js" data-persona-id="sage-01" async></script>`
	if payload.EmbedCode != want {
		t.Fatalf("embed code mismatch:\n got %s\nwant %s", payload.EmbedCode, want)
	}
	if payload.Persona == nil || payload.Persona.Name != "Sage" {
		t.Fatalf("persona missing from response: %+v", payload.Persona)
	}
}

func TestEmbedRejectsMalformedIdentifier(t *testing.T) {
	handler := NewEmbedHandler(&fakePersonas{}, &config.Config{})
	router := newRouter(handler)

	for _, target := range []string{"/v1/embed", "/v1/embed?personaId=has%20spaces"} {
		if recorder := get(router, target, nil); recorder.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, recorder.Code)
		}
	}
}

func TestEmbedUnknownPersona(t *testing.T) {
	handler := NewEmbedHandler(&fakePersonas{}, &config.Config{})
	router := newRouter(handler)

	if recorder := get(router, "/v1/embed?personaId=nobody", nil); recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestWidgetScriptCaching(t *testing.T) {
	handler := NewEmbedHandler(&fakePersonas{}, &config.Config{})
	router := newRouter(handler)

	recorder := get(router, "/widget.js", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Header().Get("Content-Type"), "javascript") {
		t.Fatalf("unexpected content type %q", recorder.Header().Get("Content-Type"))
	}
	if recorder.Header().Get("Cache-Control") != "public, max-age=86400, immutable" {
		t.Fatalf("unexpected cache control %q", recorder.Header().Get("Cache-Control"))
	}
	etag := recorder.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	revalidated := get(router, "/widget.js", map[string]string{"If-None-Match": etag})
	if revalidated.Code != http.StatusNotModified {
		t.Fatalf("expected 304 on matching ETag, got %d", revalidated.Code)
	}
}
