// ABOUTME: Extracts a hierarchical key tree from heterogeneous JSON records
// ABOUTME: Paths are dotted, deduplicated across records, and sorted so parents precede children
package schema

import (
	"errors"
	"sort"
	"strings"
)

// ErrNoKeys is returned when no key paths could be extracted from any record
var ErrNoKeys = errors.New("no keys extracted from records")

// KeyNode is one field position discovered across a set of JSON records.
// Path uniquely identifies the node; Level is the number of path
// segments minus one.
type KeyNode struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Level    int    `json:"level"`
	IsLeaf   bool   `json:"is_leaf"`
	IsArray  bool   `json:"is_array"`
	Selected bool   `json:"selected"`
}

// Tree is the key tree with a path index so selection cascades avoid
// linear scans.
type Tree struct {
	nodes    []*KeyNode
	index    map[string]*KeyNode
	children map[string][]*KeyNode
}

// Extract walks every record depth-first and builds the key tree.
// Arrays contribute their own path once and are recursed into through
// the first element only, so the tree stays bounded regardless of
// array length. Records that are not a JSON object or array at the top
// level are skipped silently.
func Extract(records []any) (*Tree, error) {
	paths := make(map[string]bool) // path -> isArray seen at that path

	for _, rec := range records {
		switch v := rec.(type) {
		case map[string]any:
			collectObject("", v, paths)
		case []any:
			collectArrayElement("", v, paths)
		}
	}

	if len(paths) == 0 {
		return nil, ErrNoKeys
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	// A node is a leaf iff no other node names it as parent. Parents
	// always exist as nodes because nested paths are only emitted
	// through their enclosing object.
	hasChild := make(map[string]bool)
	for _, p := range sorted {
		if i := strings.LastIndex(p, "."); i >= 0 {
			hasChild[p[:i]] = true
		}
	}

	t := &Tree{
		nodes:    make([]*KeyNode, 0, len(sorted)),
		index:    make(map[string]*KeyNode, len(sorted)),
		children: make(map[string][]*KeyNode),
	}
	for _, p := range sorted {
		name := p
		parent := ""
		if i := strings.LastIndex(p, "."); i >= 0 {
			name = p[i+1:]
			parent = p[:i]
		}
		node := &KeyNode{
			Name:    name,
			Path:    p,
			Level:   strings.Count(p, "."),
			IsLeaf:  !hasChild[p],
			IsArray: paths[p],
		}
		t.nodes = append(t.nodes, node)
		t.index[p] = node
		if parent != "" {
			t.children[parent] = append(t.children[parent], node)
		}
	}

	return t, nil
}

// collectObject emits one path per key of an object at the given prefix
func collectObject(prefix string, obj map[string]any, paths map[string]bool) {
	for key, value := range obj {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if _, seen := paths[path]; !seen {
			paths[path] = false
		}
		switch v := value.(type) {
		case map[string]any:
			collectObject(path, v, paths)
		case []any:
			paths[path] = true
			collectArrayElement(path, v, paths)
		}
	}
}

// collectArrayElement recurses into the first element of an array when
// it is itself an object or array; arrays of primitives stay leaves.
func collectArrayElement(prefix string, arr []any, paths map[string]bool) {
	if len(arr) == 0 {
		return
	}
	switch v := arr[0].(type) {
	case map[string]any:
		collectObject(prefix, v, paths)
	case []any:
		collectArrayElement(prefix, v, paths)
	}
}

// Nodes returns the tree's nodes in sorted path order
func (t *Tree) Nodes() []*KeyNode {
	return t.nodes
}

// Node looks up a node by its dotted path
func (t *Tree) Node(path string) (*KeyNode, bool) {
	n, ok := t.index[path]
	return n, ok
}

// Select marks the node and every ancestor as selected so a selected
// leaf is always reachable from the root. Unknown paths are ignored.
func (t *Tree) Select(path string) bool {
	node, ok := t.index[path]
	if !ok {
		return false
	}
	node.Selected = true
	for {
		i := strings.LastIndex(path, ".")
		if i < 0 {
			break
		}
		path = path[:i]
		if parent, ok := t.index[path]; ok {
			parent.Selected = true
		}
	}
	return true
}

// Deselect clears the node and every descendant so no orphaned child
// selection can remain.
func (t *Tree) Deselect(path string) bool {
	node, ok := t.index[path]
	if !ok {
		return false
	}
	node.Selected = false
	for _, child := range t.children[path] {
		t.Deselect(child.Path)
	}
	return true
}

// SelectAll selects every node in the tree
func (t *Tree) SelectAll() {
	for _, n := range t.nodes {
		n.Selected = true
	}
}

// SelectedLeaves returns the selected leaf paths in tree order
func (t *Tree) SelectedLeaves() []string {
	var leaves []string
	for _, n := range t.nodes {
		if n.Selected && n.IsLeaf {
			leaves = append(leaves, n.Path)
		}
	}
	return leaves
}
