package modelcli

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/services"
	"curator/internal/services/modeld"
)

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classifier.gguf")
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

// stubRuntime replaces commandContext with a shell that echoes the given
// output, and records the argv the client built.
func stubRuntime(t *testing.T, output string, capture *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			*capture = append([]string{name}, args...)
		}
		return exec.CommandContext(ctx, "sh", "-c", "printf '%s' \"$1\"", "sh", output)
	}
	t.Cleanup(func() { commandContext = original })
}

func TestClassifyParsesRuntimeOutput(t *testing.T) {
	var argv []string
	stubRuntime(t, "```json\n{\"assetType\":\"music\",\"genre\":\"ambient\",\"mood\":\"calm\"}\n```", &argv)

	client := New(Config{
		Runtime:   "sh",
		ModelPath: writeModel(t),
		MaxTokens: 64,
	})
	resp, err := client.Classify(context.Background(), "Forest_Dawn.wav", &modeld.Metadata{Artist: "Kai"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if resp.AssetType != "music" || resp.Genre != "ambient" || resp.Mood != "calm" {
		t.Fatalf("unexpected response %+v", resp)
	}

	want := map[string]string{
		"--model-path": client.cfg.ModelPath,
		"--filename":   "Forest_Dawn.wav",
		"--max-tokens": "64",
	}
	for flag, value := range want {
		found := false
		for i := 1; i < len(argv)-1; i++ {
			if argv[i] == flag && argv[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("argv missing %s %s: %v", flag, value, argv)
		}
	}
}

func TestClassifyRuntimeError(t *testing.T) {
	stubRuntime(t, `{"error":"model refused to load"}`, nil)
	client := New(Config{Runtime: "sh", ModelPath: writeModel(t), MaxTokens: 32})
	if _, err := client.Classify(context.Background(), "clip.mp4", nil); err == nil {
		t.Fatal("expected error when runtime reports one")
	}
}

func TestClassifyGarbageOutput(t *testing.T) {
	stubRuntime(t, "the model said nothing useful", nil)
	client := New(Config{Runtime: "sh", ModelPath: writeModel(t), MaxTokens: 32})
	_, err := client.Classify(context.Background(), "clip.mp4", nil)
	if err == nil {
		t.Fatal("expected error for non-JSON output")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestClassifyMissingRuntime(t *testing.T) {
	client := New(Config{Runtime: "curator-runtime-not-on-path", ModelPath: writeModel(t)})
	if client.Available() {
		t.Fatal("expected runtime to be unavailable")
	}
	if _, err := client.Classify(context.Background(), "a.wav", nil); err == nil {
		t.Fatal("expected error for missing runtime")
	}
}

func TestClassifyMissingModelNoURL(t *testing.T) {
	stubRuntime(t, `{"assetType":"music"}`, nil)
	client := New(Config{
		Runtime:   "sh",
		ModelPath: filepath.Join(t.TempDir(), "absent.gguf"),
		MaxTokens: 32,
	})
	if _, err := client.Classify(context.Background(), "a.wav", nil); err == nil {
		t.Fatal("expected error when model is missing with no download URL")
	}
}

func TestClassifyTimeout(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sleep", "5")
	}
	t.Cleanup(func() { commandContext = original })

	client := New(Config{
		Runtime:    "sh",
		ModelPath:  writeModel(t),
		RunTimeout: 50 * time.Millisecond,
		MaxTokens:  32,
	})
	_, err := client.Classify(context.Background(), "a.wav", nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
