// Package title resolves the display title of a handler class from the
// routing annotation attached to its declaration.
package title

import (
	"errors"
	"fmt"
	"log"

	"github.com/dejo1307/routetree/internal/source"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DefaultAnnotation is the decorator carrying page metadata.
const DefaultAnnotation = "FunselPage"

// Reasons a title could not be resolved.
var (
	ErrTypeNotFound       = errors.New("type not found")
	ErrAnnotationNotFound = errors.New("annotation not found")
	ErrTitleNotFound      = errors.New("annotation has no title member")
	ErrUnsupportedTitle   = errors.New("unsupported title value")
)

// Resolver looks titles up in a source index.
type Resolver struct {
	idx        *source.Index
	annotation string
}

// New creates a Resolver reading the given annotation name.
func New(idx *source.Index, annotation string) *Resolver {
	if annotation == "" {
		annotation = DefaultAnnotation
	}
	return &Resolver{idx: idx, annotation: annotation}
}

// Resolve returns the title declared for the class typeName. Template
// literals are returned raw, with substitutions left unevaluated. A bare
// identifier is looked up as a top-level string constant; when none exists
// the identifier itself is returned.
func (r *Resolver) Resolve(typeName string) (string, error) {
	cls, ok := r.idx.Class(typeName)
	if !ok {
		return "", fmt.Errorf("class %s: %w", typeName, ErrTypeNotFound)
	}

	for _, dec := range cls.Decorators {
		if dec.Name != r.annotation {
			continue
		}
		if len(dec.Args) == 0 || dec.Args[0].Kind() != "object" {
			return "", fmt.Errorf("@%s on %s: %w", r.annotation, typeName, ErrTitleNotFound)
		}
		value := titleMember(cls.Unit, dec.Args[0])
		if value == nil {
			return "", fmt.Errorf("@%s on %s: %w", r.annotation, typeName, ErrTitleNotFound)
		}
		return r.titleValue(cls.Unit, value)
	}

	return "", fmt.Errorf("@%s on %s (%s): %w", r.annotation, typeName, cls.Unit.Path, ErrAnnotationNotFound)
}

func (r *Resolver) titleValue(u *source.Unit, value *sitter.Node) (string, error) {
	switch value.Kind() {
	case "string", "template_string":
		return source.Unquote(u.Text(value)), nil
	case "identifier":
		name := u.Text(value)
		if v, ok := r.idx.StringConst(name); ok {
			log.Printf("[title] resolved constant %s => %q", name, v)
			return v, nil
		}
		log.Printf("[title] constant %s not found, using identifier", name)
		return name, nil
	}
	return "", fmt.Errorf("%s value %q: %w", value.Kind(), u.Text(value), ErrUnsupportedTitle)
}

func titleMember(u *source.Unit, obj *sitter.Node) *sitter.Node {
	for _, member := range source.NamedChildren(obj) {
		if member.Kind() != "pair" {
			continue
		}
		key := member.ChildByFieldName("key")
		if key == nil {
			continue
		}
		name := u.Text(key)
		if key.Kind() == "string" {
			name = source.Unquote(name)
		}
		if name == "title" {
			return member.ChildByFieldName("value")
		}
	}
	return nil
}
