package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/classify"
	"curator/internal/services/mapper"
)

func mkdirs(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(p)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

func TestScanSkipsHiddenAndFiles(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Audio/Music", ".git", "Render")
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[0].Name != "Audio" || tree.Children[1].Name != "Render" {
		t.Fatalf("unexpected children %+v", tree.Children)
	}
	if tree.Children[0].Children[0].RelPath != "Audio/Music" {
		t.Fatalf("relPath = %q", tree.Children[0].Children[0].RelPath)
	}
	if tree.Count() != 3 {
		t.Fatalf("count = %d", tree.Count())
	}
}

func TestDeployStandardIdempotent(t *testing.T) {
	target := t.TempDir()

	created, err := Deploy(target, PresetStandard, nil)
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if created != len(standardSkeleton) {
		t.Fatalf("created = %d, want %d", created, len(standardSkeleton))
	}
	if _, err := os.Stat(filepath.Join(target, "03_Audio", "SFX")); err != nil {
		t.Fatalf("skeleton folder missing: %v", err)
	}

	created, err = Deploy(target, PresetStandard, nil)
	if err != nil {
		t.Fatalf("second Deploy: %v", err)
	}
	if created != 0 {
		t.Fatalf("second deploy created %d folders, want 0", created)
	}
}

func TestDeployFlatCreatesNothing(t *testing.T) {
	target := t.TempDir()
	created, err := Deploy(target, PresetFlat, nil)
	if err != nil || created != 0 {
		t.Fatalf("flat deploy = (%d, %v)", created, err)
	}
	entries, _ := os.ReadDir(target)
	if len(entries) != 0 {
		t.Fatal("flat preset must not create folders")
	}
}

func TestDeployCustomReplicatesChildren(t *testing.T) {
	source := t.TempDir()
	mkdirs(t, source, "Assets/Sound", "Assets/Video", "Exports")
	tree, err := Scan(source)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	tpl := &CustomTemplate{SourcePath: source, Tree: *tree}

	target := t.TempDir()
	created, err := Deploy(target, PresetCustom, tpl)
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if created != 4 {
		t.Fatalf("created = %d, want 4", created)
	}
	if _, err := os.Stat(filepath.Join(target, "Assets", "Video")); err != nil {
		t.Fatalf("replicated folder missing: %v", err)
	}
	// The scanned root itself must not be replicated.
	if _, err := os.Stat(filepath.Join(target, filepath.Base(source))); err == nil {
		t.Fatal("root folder must not be replicated beneath the target")
	}

	created, err = Deploy(target, PresetCustom, tpl)
	if err != nil || created != 0 {
		t.Fatalf("second custom deploy = (%d, %v), want (0, nil)", created, err)
	}
}

func TestDeployCustomWithoutTemplate(t *testing.T) {
	if _, err := Deploy(t.TempDir(), PresetCustom, nil); err == nil {
		t.Fatal("expected error for custom preset without a stored template")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil template before save")
	}

	tpl := &CustomTemplate{
		SourcePath: "/media/projects/ref",
		Tree:       FolderNode{Name: "ref", Children: []FolderNode{{Name: "Audio", RelPath: "Audio"}}},
		Mapping: CategoryMapping{
			Paths: map[classify.Category]string{classify.CategoryMusic: "Audio"},
		},
	}
	if err := store.Save(tpl); err != nil {
		t.Fatalf("Save: %v", err)
	}
	firstCreated := tpl.CreatedAt

	loaded, err = store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.Mapping.PathFor(classify.CategoryMusic) != "Audio" {
		t.Fatalf("unexpected template %+v", loaded)
	}

	time.Sleep(10 * time.Millisecond)
	if err := store.Save(loaded); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	reloaded, _ := store.Load()
	if !reloaded.CreatedAt.Equal(firstCreated) {
		t.Fatal("CreatedAt must survive updates")
	}
	if !reloaded.LastUpdatedAt.After(firstCreated) {
		t.Fatal("LastUpdatedAt must advance on update")
	}
}

type fakeAnalyzer struct {
	resp *mapper.AnalyzeResponse
	err  error
}

func (f fakeAnalyzer) Analyze(context.Context, any, string) (*mapper.AnalyzeResponse, error) {
	return f.resp, f.err
}

func TestAnalyzeConvertsMapping(t *testing.T) {
	mapping, err := Analyze(context.Background(), fakeAnalyzer{resp: &mapper.AnalyzeResponse{
		Paths: map[string]string{
			"music":        "/Audio/Music/",
			"sfx":          "Audio/SFX",
			"hologram":     "Nowhere",
			"stockFootage": "",
		},
		Rationale: "audio tree detected",
	}}, &FolderNode{Name: "root"}, "device-1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if mapping.PathFor(classify.CategoryMusic) != "Audio/Music" {
		t.Fatalf("music path = %q", mapping.PathFor(classify.CategoryMusic))
	}
	if mapping.PathFor(classify.CategorySFX) != "Audio/SFX" {
		t.Fatalf("sfx path = %q", mapping.PathFor(classify.CategorySFX))
	}
	if len(mapping.Paths) != 2 {
		t.Fatalf("unrecognized or empty categories must be dropped: %+v", mapping.Paths)
	}
}
