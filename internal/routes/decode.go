package routes

import (
	"strings"

	"github.com/dejo1307/routetree/internal/source"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Declarations returns, in source order, every object literal that is a
// direct element of an array literal initializing a top-level variable.
// Literals nested anywhere else are left for Decode to reach via children.
func Declarations(u *source.Unit) []*sitter.Node {
	if u == nil {
		return nil
	}
	var objs []*sitter.Node
	root := u.Root()
	for i := range root.ChildCount() {
		stmt := root.Child(i)
		if stmt.Kind() == "export_statement" {
			stmt = exportedDeclaration(stmt)
			if stmt == nil {
				continue
			}
		}
		if stmt.Kind() != "lexical_declaration" && stmt.Kind() != "variable_declaration" {
			continue
		}
		for j := range stmt.ChildCount() {
			decl := stmt.Child(j)
			if decl.Kind() != "variable_declarator" {
				continue
			}
			init := decl.ChildByFieldName("value")
			if init == nil || init.Kind() != "array" {
				continue
			}
			for _, el := range source.NamedChildren(init) {
				if el.Kind() == "object" {
					objs = append(objs, el)
				}
			}
		}
	}
	return objs
}

func exportedDeclaration(stmt *sitter.Node) *sitter.Node {
	if d := stmt.ChildByFieldName("declaration"); d != nil {
		return d
	}
	if d := source.FindChild(stmt, "lexical_declaration"); d != nil {
		return d
	}
	return source.FindChild(stmt, "variable_declaration")
}

// Decode converts one route literal into a Declaration. Unrecognized members
// are ignored; when several loading members are present the last one wins.
func Decode(u *source.Unit, obj *sitter.Node) Declaration {
	d := Declaration{Line: u.Line(obj)}
	for _, member := range source.NamedChildren(obj) {
		if member.Kind() != "pair" {
			continue
		}
		key := member.ChildByFieldName("key")
		value := member.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}

		switch memberName(u, key) {
		case "path":
			d.Path = pathSegment(u, value)
		case "component":
			d.Strategy = Eager
			d.Handler = u.Text(value)
		case "loadChildren":
			d.Strategy = LazyModule
			d.Module = u.Text(value)
		case "loadComponent":
			d.Strategy = LazyDestination
			d.Destination = u.Text(value)
		case "children":
			if value.Kind() != "array" {
				continue
			}
			d.Children = d.Children[:0]
			for _, el := range source.NamedChildren(value) {
				if el.Kind() == "object" {
					d.Children = append(d.Children, Decode(u, el))
				}
			}
		}
	}

	// Keep only the reference belonging to the winning strategy.
	switch d.Strategy {
	case Eager:
		d.Module, d.Destination = "", ""
	case LazyModule:
		d.Handler, d.Destination = "", ""
	case LazyDestination:
		d.Handler, d.Module = "", ""
	}
	return d
}

func memberName(u *source.Unit, key *sitter.Node) string {
	if key.Kind() == "string" {
		return source.Unquote(u.Text(key))
	}
	return u.Text(key)
}

// pathSegment reads a quoted path, or derives one from an enum-like access
// such as AppRoutes.USER_PROFILE -> "user-profile".
func pathSegment(u *source.Unit, value *sitter.Node) string {
	switch value.Kind() {
	case "string", "template_string":
		return source.Unquote(u.Text(value))
	case "member_expression":
		return SegmentFromAccess(u.Text(value))
	}
	return ""
}

// SegmentFromAccess takes the second component of a dotted access,
// lower-cased with underscores turned into hyphens.
func SegmentFromAccess(expr string) string {
	parts := strings.Split(expr, ".")
	if len(parts) < 2 {
		return ""
	}
	seg := strings.TrimSpace(parts[1])
	return strings.ReplaceAll(strings.ToLower(seg), "_", "-")
}
