package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/services/modelcli"
	"curator/internal/services/modeld"
)

func newDaemonForTest(t *testing.T, handler http.Handler) *modeld.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return modeld.NewClient(modeld.Config{
		BaseURL:        server.URL,
		HealthTimeout:  time.Second,
		RequestTimeout: time.Second,
	})
}

func TestModelUsesDaemonWhenHealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"model_loaded": true, "model_loading": false}`))
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"assetType":"music","genre":"ambient","mood":"calm"}`))
	})
	daemon := newDaemonForTest(t, mux)
	subprocess := modelcli.New(modelcli.Config{
		Runtime:   "curator-runtime-not-on-path",
		ModelPath: filepath.Join(t.TempDir(), "absent.gguf"),
	})

	model := NewModel(daemon, subprocess, 64, nil)
	result := model.Classify(context.Background(), Request{Filename: "Forest_Dawn.wav"})
	if result.Category != CategoryMusic {
		t.Fatalf("expected music from the daemon, got %+v", result)
	}
	if result.Source != "model-daemon" {
		t.Fatalf("expected the daemon tier to answer, got %q", result.Source)
	}
	if result.Genre != "ambient" || result.Mood != "calm" {
		t.Fatalf("supplements lost: %+v", result)
	}
}

func TestModelDeclinesWhenBackendsUnavailable(t *testing.T) {
	daemon := modeld.NewClient(modeld.Config{
		BaseURL:        "http://127.0.0.1:1", // nothing listens here
		HealthTimeout:  100 * time.Millisecond,
		RequestTimeout: 100 * time.Millisecond,
	})
	subprocess := modelcli.New(modelcli.Config{
		Runtime:   "curator-runtime-not-on-path",
		ModelPath: filepath.Join(t.TempDir(), "absent.gguf"),
	})

	model := NewModel(daemon, subprocess, 64, nil)
	result := model.Classify(context.Background(), Request{Filename: "mystery.bin"})
	if !result.Declined() {
		t.Fatalf("expected a declined result, got %+v", result)
	}
	if result.Category.Known() {
		t.Fatalf("no backend should have produced a category: %+v", result)
	}
}
