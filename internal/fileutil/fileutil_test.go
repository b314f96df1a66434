package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestVersionedPathFreeName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	got, err := VersionedPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Fatalf("expected original path for free name, got %q", got)
	}
}

func TestVersionedPathMonotonic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track.wav"), "a")
	writeFile(t, filepath.Join(dir, "track_v2.wav"), "b")

	got, err := VersionedPath(filepath.Join(dir, "track.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "track_v3.wav" {
		t.Fatalf("expected track_v3.wav, got %q", filepath.Base(got))
	}
}

func TestVersionedPathSkipsFreedSlot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track.wav"), "a")
	writeFile(t, filepath.Join(dir, "track_v4.wav"), "d")
	// v2 and v3 were created and later deleted; the next version must still be v5.
	got, err := VersionedPath(filepath.Join(dir, "track.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "track_v5.wav" {
		t.Fatalf("expected track_v5.wav, got %q", filepath.Base(got))
	}
}

func TestVersionedPathIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "track.wav"), "a")
	writeFile(t, filepath.Join(dir, "track_v2.mp3"), "b")

	got, err := VersionedPath(filepath.Join(dir, "track.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "track_v2.wav" {
		t.Fatalf("expected track_v2.wav, got %q", filepath.Base(got))
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "clip.mov")
	dst := filepath.Join(dir, "out", "clip.mov")
	writeFile(t, src, "payload")

	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone after move")
	}
	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "payload" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestMovePathDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pack")
	writeFile(t, filepath.Join(src, "one.wav"), "1")
	writeFile(t, filepath.Join(src, "sub", "two.wav"), "2")
	dst := filepath.Join(dir, "dest", "pack")

	if err := MovePath(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "sub", "two.wav")); err != nil {
		t.Fatalf("moved tree incomplete: %v", err)
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")
	writeFile(t, src, "0123456789")

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	infoSrc, _ := os.Stat(src)
	infoDst, _ := os.Stat(dst)
	if infoSrc.Size() != infoDst.Size() {
		t.Fatal("size mismatch after verified copy")
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pack", "a.wav"), "a")
	writeFile(t, filepath.Join(dir, "pack", "nested", "b.wav"), "b")

	count, err := CountFiles(filepath.Join(dir, "pack"))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 files, got %d", count)
	}

	count, err = CountFiles(filepath.Join(dir, "pack", "a.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 for plain file, got %d", count)
	}
}
