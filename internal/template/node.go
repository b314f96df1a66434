// Package template scans folder trees into serializable snapshots,
// deploys folder-structure presets, and persists custom templates with
// their category mappings.
package template

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"curator/internal/services"
)

// FolderNode is one directory in an owned, acyclic snapshot tree.
// RelPath is slash-separated relative to the scanned root.
type FolderNode struct {
	Name     string       `json:"name"`
	RelPath  string       `json:"relPath"`
	Children []FolderNode `json:"children,omitempty"`
}

// Scan takes a one-shot recursive snapshot of root's directory tree.
// Hidden entries are skipped; files are ignored.
func Scan(root string) (*FolderNode, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrInvalidTargetDirectory, "template", "scan",
			fmt.Sprintf("%s is not a directory", root), err)
	}
	node := FolderNode{Name: filepath.Base(root), RelPath: ""}
	if err := scanInto(&node, root, ""); err != nil {
		return nil, err
	}
	return &node, nil
}

func scanInto(node *FolderNode, dir, rel string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return services.Wrap(services.ErrInvalidTargetDirectory, "template", "scan",
			fmt.Sprintf("read %s", dir), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		child := FolderNode{
			Name:    entry.Name(),
			RelPath: path.Join(rel, entry.Name()),
		}
		if err := scanInto(&child, filepath.Join(dir, entry.Name()), child.RelPath); err != nil {
			return err
		}
		node.Children = append(node.Children, child)
	}
	return nil
}

// Count returns the number of directories in the tree, excluding the
// root itself.
func (n *FolderNode) Count() int {
	total := 0
	for i := range n.Children {
		total += 1 + n.Children[i].Count()
	}
	return total
}
