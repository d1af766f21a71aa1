package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumesmith/internal/config"
	"resumesmith/internal/generation"
	"resumesmith/internal/services"
)

type stubGenerator struct {
	lastInput generation.Input
	result    *generation.Result
	err       error
}

func (s *stubGenerator) Generate(_ context.Context, input generation.Input) (*generation.Result, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testServer(t *testing.T, gen Generator, token string) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Token = token
	srv, err := New(&cfg, gen, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, &stubGenerator{}, "")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body %v", body)
	}
}

func TestGenerateEndpointSuccess(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{
		RequestID: "req-1",
		Model:     "gpt-4.1-mini",
		HTML:      "<!doctype html><html></html>",
	}}
	srv := testServer(t, gen, "")

	payload := `{"brief":"data analyst","accent_color":"#336699","max_output_tokens":4096,` +
		`"attachments":[{"filename":"photo.png","data":"` +
		base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) + `"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RequestID != "req-1" || !strings.HasPrefix(resp.HTML, "<!doctype html") {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gen.lastInput.AccentColor != "#336699" {
		t.Fatalf("accent color not forwarded: %q", gen.lastInput.AccentColor)
	}
	if len(gen.lastInput.Attachments) != 1 || gen.lastInput.Attachments[0].MimeType != "image/png" {
		t.Fatalf("attachment not decoded: %+v", gen.lastInput.Attachments)
	}
	if !gen.lastInput.IncludeAccentHint {
		t.Fatal("accent hint should default to enabled")
	}
}

func TestGenerateEndpointMapsTaxonomyKinds(t *testing.T) {
	cases := []struct {
		kind   services.Kind
		status int
	}{
		{services.KindBriefTooLong, http.StatusBadRequest},
		{services.KindInvalidColor, http.StatusBadRequest},
		{services.KindPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{services.KindQuotaExceeded, http.StatusPaymentRequired},
		{services.KindRateLimited, http.StatusServiceUnavailable},
		{services.KindRetriesExhausted, http.StatusServiceUnavailable},
		{services.KindConnectionError, http.StatusBadGateway},
		{services.KindInvalidHTMLResponse, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			gen := &stubGenerator{err: services.NewError(tc.kind, "boom")}
			srv := testServer(t, gen, "")
			req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"brief":"x"}`))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Kind != string(tc.kind) {
				t.Fatalf("kind = %q, want %q", resp.Kind, tc.kind)
			}
		})
	}
}

func TestGenerateEndpointRejectsBadBase64(t *testing.T) {
	srv := testServer(t, &stubGenerator{}, "")
	body := `{"brief":"x","avatar":{"filename":"a.png","data":"%%%"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateEndpointRequiresToken(t *testing.T) {
	gen := &stubGenerator{result: &generation.Result{HTML: "<!doctype html><html></html>"}}
	srv := testServer(t, gen, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"brief":"x"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"brief":"x"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"brief":"x"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec.Code)
	}
}

func TestHealthEndpointSkipsAuth(t *testing.T) {
	srv := testServer(t, &stubGenerator{}, "secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}

func TestGenerateEndpointRejectsNonJSON(t *testing.T) {
	srv := testServer(t, &stubGenerator{}, "")
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
