package export

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/hayeah/treetxt/internal/set"
)

type treeNode struct {
	path     string // path relative to the base directory
	name     string
	isDir    bool
	children []*treeNode
}

// writeTreeDiagram writes a ├──/└── diagram containing the selected files and
// every ancestor directory needed to reach them. The root line is the
// absolute base directory.
func writeTreeDiagram(w io.Writer, baseDir string, files []string) error {
	pathSet := set.NewSet[string]()
	fileSet := set.NewSet[string]()

	for _, abs := range files {
		rel, err := filepath.Rel(baseDir, abs)
		if err != nil || rel == "." {
			continue
		}
		pathSet.Add(rel)
		fileSet.Add(rel)

		for current := filepath.Dir(rel); current != "." && current != string(filepath.Separator); current = filepath.Dir(current) {
			pathSet.Add(current)
		}
	}

	// Sorted order guarantees a parent is created before its children.
	paths := pathSet.Values()
	sort.Strings(paths)

	root := &treeNode{path: ".", name: filepath.Base(baseDir), isDir: true}
	nodes := map[string]*treeNode{".": root}

	for _, p := range paths {
		node := &treeNode{
			path:  p,
			name:  filepath.Base(p),
			isDir: !fileSet.Contains(p),
		}
		nodes[p] = node

		parent := filepath.Dir(p)
		if parent == "" {
			parent = "."
		}
		if parentNode, ok := nodes[parent]; ok {
			parentNode.children = append(parentNode.children, node)
		}
	}

	var write func(node *treeNode, prefix string, isLast bool) error
	write = func(node *treeNode, prefix string, isLast bool) error {
		if node.path == "." {
			abs, err := filepath.Abs(baseDir)
			if err != nil {
				abs = baseDir
			}
			if _, err := fmt.Fprintln(w, abs); err != nil {
				return err
			}
		} else {
			connector := "├── "
			if isLast {
				connector = "└── "
			}

			displayName := node.name
			if node.isDir {
				displayName += "/"
			}

			if _, err := fmt.Fprintln(w, prefix+connector+displayName); err != nil {
				return err
			}
		}

		for i, child := range node.children {
			childPrefix := prefix
			if node.path != "." {
				if isLast {
					childPrefix += "    "
				} else {
					childPrefix += "│   "
				}
			}
			if err := write(child, childPrefix, i == len(node.children)-1); err != nil {
				return err
			}
		}
		return nil
	}

	return write(root, "", true)
}
