package deps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "shell", Command: "sh", Description: "POSIX shell"},
		{Name: "phantom", Command: "curator-definitely-not-installed", Optional: true},
		{Name: "blank", Command: ""},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Available {
		t.Errorf("expected sh to be available: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Error("expected missing binary to be unavailable")
	}
	if results[2].Available || results[2].Detail == "" {
		t.Error("expected blank command to be unavailable with detail")
	}
}

func TestEnsureModelDownloadsOnce(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("model-bytes"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "models", "classifier.gguf")
	if err := EnsureModel(context.Background(), path, server.URL, 5*time.Second); err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if string(data) != "model-bytes" {
		t.Fatalf("unexpected model contents %q", data)
	}

	if err := EnsureModel(context.Background(), path, server.URL, 5*time.Second); err != nil {
		t.Fatalf("EnsureModel second call: %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected a single download, got %d", requests)
	}
}

func TestEnsureModelMissingURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.gguf")
	if err := EnsureModel(context.Background(), path, "", time.Second); err == nil {
		t.Fatal("expected error when model missing and no URL configured")
	}
}

func TestEnsureModelHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "classifier.gguf")
	if err := EnsureModel(context.Background(), path, server.URL, time.Second); err == nil {
		t.Fatal("expected error for http 404")
	}
	if ModelPresent(path) {
		t.Fatal("failed download must not leave a model artifact behind")
	}
}
