package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"curator/internal/logging"
	"curator/internal/queue"
	"curator/internal/testsupport"
)

type recordingNotifier struct {
	mu        sync.Mutex
	organized []string
	failed    []string
	review    []string
	decisions []string
}

func (r *recordingNotifier) NotifyOrganized(_ context.Context, filename, _, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.organized = append(r.organized, filename)
	return nil
}

func (r *recordingNotifier) NotifyFailed(_ context.Context, filename, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, filename)
	return nil
}

func (r *recordingNotifier) NotifyNeedsClassification(_ context.Context, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.review = append(r.review, filename)
	return nil
}

func (r *recordingNotifier) NotifyAwaitingDecision(_ context.Context, _, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, kind)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func (r *recordingNotifier) snapshot() (organized, failed, review, decisions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.organized...),
		append([]string(nil), r.failed...),
		append([]string(nil), r.review...),
		append([]string(nil), r.decisions...)
}

func startManager(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	t.Cleanup(func() {
		m.Stop()
		cancel()
	})
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Item {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		item, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get item: %v", err)
		}
		if item != nil && item.Status == want {
			return item
		}
		time.Sleep(25 * time.Millisecond)
	}
	item, _ := store.GetByID(context.Background(), id)
	t.Fatalf("item %d never reached %s (last status %s)", id, want, item.Status)
	return nil
}

func TestManagerOrganizesQueuedItem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.NewStore(t, cfg)

	projectRoot := filepath.Join(cfg.Projects.Roots[0], "ClientA")
	if err := os.MkdirAll(filepath.Join(projectRoot, "03_Audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	source := testsupport.WriteFile(t,
		filepath.Join(cfg.Paths.StagingDir, "Epic_Orchestral_Trailer.mp3"), "audio")

	item, err := store.NewItem(context.Background(), queue.NewItemRequest{
		SourcePath:  source,
		ProjectName: "ClientA",
		ProjectRoot: projectRoot,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(cfg, store, logging.NewNop(), rec)
	startManager(t, m)

	done := waitForStatus(t, store, item.ID, queue.StatusCompleted)
	if done.Category != "music" {
		t.Fatalf("category = %q", done.Category)
	}
	if !strings.Contains(done.TargetPath, "03_Audio") {
		t.Fatalf("target path %q not under the audio folder", done.TargetPath)
	}
	if _, err := os.Stat(done.TargetPath); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}

	records, err := store.History(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Status != queue.StatusCompleted {
		t.Fatalf("unexpected history: %+v", records)
	}

	organized, failed, _, _ := rec.snapshot()
	if len(organized) != 1 || len(failed) != 0 {
		t.Fatalf("notifications organized=%v failed=%v", organized, failed)
	}
}

func TestManagerSuspendsOnConflictAndResumes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.NewStore(t, cfg)

	projectRoot := filepath.Join(cfg.Projects.Roots[0], "ClientB")
	testsupport.WriteFile(t, filepath.Join(projectRoot, "03_Audio", "track.wav"), "old")
	source := testsupport.WriteFile(t, filepath.Join(cfg.Paths.StagingDir, "track.wav"), "new")

	item, err := store.NewItem(context.Background(), queue.NewItemRequest{
		SourcePath:  source,
		ProjectName: "ClientB",
		ProjectRoot: projectRoot,
	})
	if err != nil {
		t.Fatal(err)
	}
	item.Status = queue.StatusClassified
	item.Category = "music"
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(cfg, store, logging.NewNop(), rec)
	startManager(t, m)

	waitForStatus(t, store, item.ID, queue.StatusAwaitingConflict)
	_, _, _, decisions := rec.snapshot()
	if len(decisions) != 1 || decisions[0] != "conflict" {
		t.Fatalf("decision notifications = %v", decisions)
	}

	if err := store.ResolveConflict(context.Background(), item.ID, queue.ConflictDecideVersion); err != nil {
		t.Fatal(err)
	}
	done := waitForStatus(t, store, item.ID, queue.StatusCompleted)
	if !strings.HasSuffix(done.TargetPath, "track_v2.wav") {
		t.Fatalf("expected versioned target, got %q", done.TargetPath)
	}
	if _, err := os.Stat(done.TargetPath); err != nil {
		t.Fatalf("versioned file missing: %v", err)
	}
	original, err := os.ReadFile(filepath.Join(projectRoot, "03_Audio", "track.wav"))
	if err != nil || string(original) != "old" {
		t.Fatalf("original file disturbed: %q %v", original, err)
	}
}

func TestManagerParksUnclassifiableItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.NewStore(t, cfg)

	projectRoot := filepath.Join(cfg.Projects.Roots[0], "ClientC")
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	source := testsupport.WriteFile(t, filepath.Join(cfg.Paths.StagingDir, "z1x9.bin"), "blob")

	item, err := store.NewItem(context.Background(), queue.NewItemRequest{
		SourcePath:  source,
		ProjectName: "ClientC",
		ProjectRoot: projectRoot,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(cfg, store, logging.NewNop(), rec)
	startManager(t, m)

	parked := waitForStatus(t, store, item.ID, queue.StatusAwaitingCategory)
	if !parked.NeedsClassification {
		t.Fatal("parked item should be flagged for manual classification")
	}
	_, _, review, _ := rec.snapshot()
	if len(review) != 1 {
		t.Fatalf("review notifications = %v", review)
	}

	if err := store.ResolveCategory(context.Background(), item.ID, "sfx", "Impacts", queue.SubKindSFX); err != nil {
		t.Fatal(err)
	}
	done := waitForStatus(t, store, item.ID, queue.StatusCompleted)
	want := filepath.Join(projectRoot, "04_SFX", "Impacts", "z1x9.bin")
	if done.TargetPath != want {
		t.Fatalf("target path = %q, want %q", done.TargetPath, want)
	}
}

func TestManagerFailsItemOnStageError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.NewStore(t, cfg)

	// Classified item whose source disappeared before processing.
	item, err := store.NewItem(context.Background(), queue.NewItemRequest{
		SourcePath:  filepath.Join(cfg.Paths.StagingDir, "vanished.wav"),
		ProjectName: "ClientD",
		ProjectRoot: filepath.Join(cfg.Projects.Roots[0], "ClientD"),
	})
	if err != nil {
		t.Fatal(err)
	}
	item.Status = queue.StatusClassified
	item.Category = "music"
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatal(err)
	}

	rec := &recordingNotifier{}
	m := NewManagerWithNotifier(cfg, store, logging.NewNop(), rec)
	startManager(t, m)

	failed := waitForStatus(t, store, item.ID, queue.StatusFailed)
	if failed.ErrorMessage == "" {
		t.Fatal("failed item should carry an error message")
	}
	records, err := store.History(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Status != queue.StatusFailed {
		t.Fatalf("unexpected history: %+v", records)
	}
	_, failures, _, _ := rec.snapshot()
	if len(failures) != 1 {
		t.Fatalf("failure notifications = %v", failures)
	}
	if m.LastError() == nil {
		t.Fatal("manager should record the stage error")
	}
}
