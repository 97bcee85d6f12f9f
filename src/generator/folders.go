package generator

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/please-build/xcodegen/src/fs"
	"github.com/please-build/xcodegen/src/xcodeproj"
)

// PlanArtifactFolders derives the minimal set of directories that must exist
// for the project's generated (non-input) files. Parent directories of every
// artifact are inserted into a prefix trie and only the leaves are returned,
// so no returned path is an ancestor of another.
func PlanArtifactFolders(p *xcodeproj.Project) []string {
	root := &trieNode{children: map[string]*trieNode{}}
	insertArtifactDirs(p.MainGroup, root)
	var paths []string
	root.collectLeaves("", &paths)
	sort.Strings(paths)
	return paths
}

type trieNode struct {
	children map[string]*trieNode
}

func (n *trieNode) insert(components []string) {
	if len(components) == 0 {
		return
	}
	child, present := n.children[components[0]]
	if !present {
		child = &trieNode{children: map[string]*trieNode{}}
		n.children[components[0]] = child
	}
	child.insert(components[1:])
}

func (n *trieNode) collectLeaves(prefix string, out *[]string) {
	if len(n.children) == 0 {
		if prefix != "" {
			*out = append(*out, prefix)
		}
		return
	}
	for name, child := range n.children {
		child.collectLeaves(path.Join(prefix, name), out)
	}
}

func insertArtifactDirs(group *xcodeproj.Group, root *trieNode) {
	for _, file := range group.Files {
		if file.IsInputFile {
			continue
		}
		dir := path.Dir(file.Path)
		if dir == "." || dir == "/" {
			continue
		}
		root.insert(splitPath(dir))
	}
	for _, child := range group.Groups {
		insertArtifactDirs(child, root)
	}
}

func splitPath(p string) []string {
	var components []string
	for p != "" && p != "." && p != "/" {
		dir, base := path.Split(p)
		components = append([]string{base}, components...)
		p = path.Clean(dir)
		if p == "." || p == "/" {
			break
		}
	}
	return components
}

// CreateArtifactFolders creates the planned directories under the given
// root. Creation is best-effort; individual failures are collected and
// returned together rather than stopping at the first one.
func CreateArtifactFolders(root string, paths []string) error {
	var merr *multierror.Error
	for _, p := range paths {
		if err := fs.EnsureDir(filepath.Join(root, p)); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}
