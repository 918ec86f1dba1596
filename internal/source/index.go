package source

import (
	"fmt"
	"log"
	"path"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Class is a top-level class declaration together with the decorators
// attached to it.
type Class struct {
	Name       string
	Unit       *Unit
	Decorators []Decorator
}

// Decorator is one `@Name(...)` annotation on a class.
type Decorator struct {
	Name string
	Args []*sitter.Node
}

// Index holds every parsed unit of a workspace plus name indexes over their
// top-level declarations. It is built once and read-only afterwards.
type Index struct {
	parser *sitter.Parser
	ts     *sitter.Language
	tsx    *sitter.Language

	units  []*Unit
	byPath map[string]*Unit

	// Indexes for fast lookups; the first unit declaring a name wins.
	classes map[string]*Class
	consts  map[string]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		parser:  sitter.NewParser(),
		ts:      sitter.NewLanguage(typescript.LanguageTypescript()),
		tsx:     sitter.NewLanguage(typescript.LanguageTSX()),
		byPath:  make(map[string]*Unit),
		classes: make(map[string]*Class),
		consts:  make(map[string]string),
	}
}

// Add parses src as the unit at relPath and indexes its declarations.
// Adding the same path twice is an error.
func (idx *Index) Add(relPath string, src []byte) (*Unit, error) {
	relPath = Clean(relPath)
	if _, ok := idx.byPath[relPath]; ok {
		return nil, fmt.Errorf("unit %s already indexed", relPath)
	}

	lang := idx.ts
	if strings.HasSuffix(relPath, ".tsx") {
		lang = idx.tsx
	}
	if err := idx.parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("setting language for %s: %w", relPath, err)
	}

	tree := idx.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: no tree produced", relPath)
	}

	u := &Unit{Path: relPath, Src: src, tree: tree}
	if u.Root().HasError() {
		log.Printf("[source] %s contains syntax errors, indexing what parsed", relPath)
	}

	idx.units = append(idx.units, u)
	idx.byPath[relPath] = u
	idx.indexDeclarations(u)
	return u, nil
}

// Unit returns the unit at relPath, or nil if it is not indexed.
func (idx *Index) Unit(relPath string) *Unit {
	return idx.byPath[Clean(relPath)]
}

// Units returns all units in insertion order.
func (idx *Index) Units() []*Unit {
	return idx.units
}

// Count returns the number of indexed units.
func (idx *Index) Count() int {
	return len(idx.units)
}

// Glob returns the units whose path matches pattern (path.Match syntax, `*`
// never crosses a slash), sorted by path.
func (idx *Index) Glob(pattern string) []*Unit {
	pattern = Clean(pattern)
	var matched []*Unit
	for _, u := range idx.units {
		if ok, err := path.Match(pattern, u.Path); err == nil && ok {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Path < matched[j].Path })
	return matched
}

// Class returns the first indexed top-level class with the given name.
func (idx *Index) Class(name string) (*Class, bool) {
	c, ok := idx.classes[name]
	return c, ok
}

// StringConst returns the unquoted value of the first top-level variable
// named name whose initializer is a plain string literal.
func (idx *Index) StringConst(name string) (string, bool) {
	v, ok := idx.consts[name]
	return v, ok
}

// Close releases the parser and every parse tree.
func (idx *Index) Close() {
	for _, u := range idx.units {
		if u.tree != nil {
			u.tree.Close()
			u.tree = nil
		}
	}
	if idx.parser != nil {
		idx.parser.Close()
		idx.parser = nil
	}
}

func (idx *Index) indexDeclarations(u *Unit) {
	root := u.Root()
	for i := range root.ChildCount() {
		idx.indexStatement(u, root.Child(i))
	}
}

func (idx *Index) indexStatement(u *Unit, node *sitter.Node) {
	switch node.Kind() {
	case "export_statement":
		// Decorators written before `export` belong to the export statement.
		var decorators []Decorator
		for i := range node.ChildCount() {
			child := node.Child(i)
			switch child.Kind() {
			case "decorator":
				decorators = append(decorators, parseDecorator(u, child))
			case "class_declaration", "abstract_class_declaration":
				idx.indexClass(u, child, decorators)
			case "lexical_declaration", "variable_declaration":
				idx.indexVariables(u, child)
			}
		}

	case "class_declaration", "abstract_class_declaration":
		idx.indexClass(u, node, nil)

	case "lexical_declaration", "variable_declaration":
		idx.indexVariables(u, node)
	}
}

func (idx *Index) indexClass(u *Unit, node *sitter.Node, outer []Decorator) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := u.Text(nameNode)
	if _, seen := idx.classes[name]; seen {
		return
	}

	decorators := append([]Decorator(nil), outer...)
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Kind() == "decorator" {
			decorators = append(decorators, parseDecorator(u, child))
		}
	}

	idx.classes[name] = &Class{Name: name, Unit: u, Decorators: decorators}
}

func (idx *Index) indexVariables(u *Unit, node *sitter.Node) {
	for i := range node.ChildCount() {
		decl := node.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if nameNode == nil || value == nil || nameNode.Kind() != "identifier" {
			continue
		}
		if value.Kind() != "string" {
			continue
		}
		name := u.Text(nameNode)
		if _, seen := idx.consts[name]; seen {
			continue
		}
		idx.consts[name] = Unquote(u.Text(value))
	}
}

// parseDecorator reads the name and call arguments of a decorator node.
// `@Name` yields no arguments; `@ns.Name(...)` keeps the dotted name.
func parseDecorator(u *Unit, node *sitter.Node) Decorator {
	var d Decorator
	for i := range node.ChildCount() {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression":
			d.Name = u.Text(child)
			return d
		case "call_expression":
			d.Name = u.Text(child.ChildByFieldName("function"))
			if args := child.ChildByFieldName("arguments"); args != nil {
				d.Args = NamedChildren(args)
			}
			return d
		}
	}
	return d
}
