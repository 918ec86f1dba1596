package source

import (
	"path"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Unit is one parsed TypeScript source file. The parse tree stays valid until
// the owning Index is closed.
type Unit struct {
	Path string // slash-separated, relative to the repository root
	Src  []byte

	tree *sitter.Tree
}

// Root returns the program node of the unit.
func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// Text returns the source text spanned by node.
func (u *Unit) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(u.Src[node.StartByte():node.EndByte()])
}

// Line returns the 1-based line a node starts on.
func (u *Unit) Line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// Clean normalizes a path to the slash-separated, root-relative form used as
// unit key.
func Clean(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "./")
}

// FindChild returns the first direct child of node with the given kind.
func FindChild(node *sitter.Node, kind string) *sitter.Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// NamedChildren returns the named children of node, skipping comments.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := range node.NamedChildCount() {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Unquote strips one pair of matching quotes or backticks around s.
// Anything else is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q == '\'' || q == '"' || q == '`') && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}
