package daemon

import (
	"context"
	"testing"

	"curator/internal/logging"
	"curator/internal/testsupport"
	"curator/internal/workflow"
)

func TestDaemonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, logging.NewNop())

	d, err := New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Running() {
		t.Fatal("daemon should report running")
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second start must fail")
	}

	status := d.Status(context.Background())
	if !status.Running || status.LockFilePath == "" {
		t.Fatalf("unexpected status: %+v", status)
	}

	d.Stop()
	if d.Running() {
		t.Fatal("daemon should report stopped")
	}
	// Stop is idempotent.
	d.Stop()
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.NewStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, logging.NewNop())

	first, err := New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop()

	second, err := New(cfg, store, logging.NewNop(), workflow.NewManager(cfg, store, logging.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must not acquire the lock")
	}
}
