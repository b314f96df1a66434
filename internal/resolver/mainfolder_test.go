package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindMainFolderByStructureMarkers(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "Client", "Promo")
	for _, dir := range []string{"03_Audio", "02_Footage", "Edits"} {
		if err := os.MkdirAll(filepath.Join(project, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	file := touch(t, filepath.Join(project, "Edits", "promo.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != project {
		t.Fatalf("main folder = %s, want %s", got, project)
	}
}

func TestFindMainFolderNewProjectAppFolder(t *testing.T) {
	// Root/01_Adobe/ProjectFile.ext with Root otherwise empty must
	// resolve to Root, not 01_Adobe.
	root := t.TempDir()
	file := touch(t, filepath.Join(root, "01_Adobe", "ProjectFile.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != root {
		t.Fatalf("main folder = %s, want %s", got, root)
	}
}

func TestFindMainFolderMarkersBeatAppInternalRule(t *testing.T) {
	// When the current folder both looks app-internal and contains
	// structure markers, the markers win and the folder itself is the
	// main folder.
	root := t.TempDir()
	appDir := filepath.Join(root, "01_Adobe")
	if err := os.MkdirAll(filepath.Join(appDir, "03_Audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := touch(t, filepath.Join(appDir, "ProjectFile.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != appDir {
		t.Fatalf("main folder = %s, want %s", got, appDir)
	}
}

func TestFindMainFolderUnnumberedAudioMarker(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "Spot")
	if err := os.MkdirAll(filepath.Join(project, "Musik"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := touch(t, filepath.Join(project, "spot.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != project {
		t.Fatalf("main folder = %s, want %s", got, project)
	}
}

func TestFindMainFolderCacheFolderIgnoredAsMarker(t *testing.T) {
	// An application's audio preview cache must not count as an audio
	// structure marker; the walk continues and the app-internal rule
	// applies instead.
	root := t.TempDir()
	project := filepath.Join(root, "Fresh")
	cacheDir := filepath.Join(project, "Adobe Premiere Pro Audio Previews")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := touch(t, filepath.Join(project, "fresh.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != project {
		t.Fatalf("main folder = %s, want %s", got, project)
	}
}

func TestFindMainFolderFallbackToImmediateParent(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Loose", "Clips")
	file := touch(t, filepath.Join(dir, "clip.prproj"))

	m := NewMatcher(3)
	if got := m.FindMainFolder(file, root); got != dir {
		t.Fatalf("main folder = %s, want %s", got, dir)
	}
}
