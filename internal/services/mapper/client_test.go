package mapper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"curator/internal/services"
)

func TestAnalyzeSuccess(t *testing.T) {
	var got AnalyzeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(AnalyzeResponse{
			Paths:     map[string]string{"music": "Audio/Music", "sfx": "Audio/SFX"},
			Rationale: "matched audio conventions",
		})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	resp, err := client.Analyze(context.Background(), map[string]any{"name": "Root"}, "device-7")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.Paths["music"] != "Audio/Music" {
		t.Fatalf("unexpected mapping %+v", resp.Paths)
	}
	if got.DeviceID != "device-7" {
		t.Fatalf("device id not forwarded: %+v", got)
	}
}

func TestAnalyzeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AnalyzeResponse{Error: "tree too ambiguous"})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	_, err := client.Analyze(context.Background(), nil, "d")
	if err == nil || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected surfaced service error, got %v", err)
	}
}

func TestAnalyzeHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})
	if _, err := client.Analyze(context.Background(), nil, "d"); err == nil {
		t.Fatal("expected error for http 502")
	}
}

func TestAnalyzeUnconfigured(t *testing.T) {
	client := New(Config{})
	if client.Configured() {
		t.Fatal("client without base URL should report unconfigured")
	}
	_, err := client.Analyze(context.Background(), nil, "d")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
