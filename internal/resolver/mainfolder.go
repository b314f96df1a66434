package resolver

import (
	"os"
	"path/filepath"
	"strings"
)

// FindMainFolder walks upward from the project file's directory toward
// the root boundary and returns the directory that anchors the
// project's organizational tree.
//
// At each level, structure markers among the child folders win first;
// if the current directory itself looks like an editing application's
// internal folder its parent is taken, which supports brand-new
// projects that have no structure yet. Exiting the boundary falls back
// to the project file's immediate parent, and if that parent is itself
// app-internal, to the nearest ancestor that is not.
func (m *Matcher) FindMainFolder(projectFile, rootBoundary string) string {
	start := filepath.Dir(projectFile)
	rootBoundary = filepath.Clean(rootBoundary)

	for current := filepath.Clean(start); withinBoundary(current, rootBoundary); current = filepath.Dir(current) {
		if m.hasStructureMarkers(current) {
			return current
		}
		if isAppInternal(filepath.Base(current)) {
			parent := filepath.Dir(current)
			if withinBoundary(parent, rootBoundary) {
				return parent
			}
			return current
		}
		if current == rootBoundary || current == filepath.Dir(current) {
			break
		}
	}

	if !isAppInternal(filepath.Base(start)) {
		return start
	}
	for current := filepath.Dir(start); ; current = filepath.Dir(current) {
		if !isAppInternal(filepath.Base(current)) || current == filepath.Dir(current) {
			return current
		}
	}
}

// hasStructureMarkers reports whether dir contains child folders that
// identify an organized project tree: numeric-prefixed sections or
// recognizable audio/music names that are not application caches.
func (m *Matcher) hasStructureMarkers(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isAppInternal(name) {
			continue
		}
		if hasNumericPrefix(name) {
			return true
		}
		if _, ok := audioNames[m.Normalize(name)]; ok {
			return true
		}
	}
	return false
}

func hasNumericPrefix(name string) bool {
	return stripNumericPrefix(name) != name
}

func isAppInternal(name string) bool {
	if strings.HasPrefix(name, reservedInternalPrefix) {
		return true
	}
	lowered := strings.ToLower(name)
	for _, marker := range appInternalMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func withinBoundary(path, boundary string) bool {
	if path == boundary {
		return true
	}
	rel, err := filepath.Rel(boundary, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
