package routes

// Strategy is how a declared route provides its content. It is decided once
// by the decoder; everything downstream switches on it.
type Strategy int

const (
	Unknown Strategy = iota
	Eager
	LazyModule
	LazyDestination
)

func (s Strategy) String() string {
	switch s {
	case Eager:
		return "eager"
	case LazyModule:
		return "lazy-module"
	case LazyDestination:
		return "lazy-component"
	default:
		return "unknown"
	}
}

// Declaration is one decoded route literal. At most one of Handler, Module
// and Destination is set, matching Strategy.
type Declaration struct {
	Path        string
	Strategy    Strategy
	Handler     string // component expression text
	Module      string // loadChildren expression text
	Destination string // loadComponent expression text
	Line        int
	Children    []Declaration
}

// Kind is the shape of a resolved node.
type Kind string

// Kind values double as the tags printed by the renderer.
const (
	KindEager           Kind = "eager"
	KindLazyModule      Kind = "lazy-module"
	KindLazyDestination Kind = "lazy-component"
)

// NotFound marks a title that was searched for but not located.
const NotFound = "NOT FOUND"

// Node is one resolved destination in the output tree.
type Node struct {
	Path     string  `json:"path"`               // own segment
	FullPath string  `json:"full_path"`          // parent full path + "/" + segment
	Kind     Kind    `json:"kind"`               // eager, lazy-module or lazy-component
	Name     string  `json:"name"`               // handler type or module specifier
	Title    *string `json:"title,omitempty"`    // nil for lazy modules
	Source   string  `json:"source,omitempty"`   // unit the route was declared in
	Line     int     `json:"line,omitempty"`     // 1-based line of the route literal
	Children []*Node `json:"children,omitempty"` // declaration order
}

// HasTitle reports whether the node kind carries a title.
func (k Kind) HasTitle() bool {
	return k == KindEager || k == KindLazyDestination
}

// TitleOrNotFound returns the title, defaulting to NotFound.
func (n *Node) TitleOrNotFound() string {
	if n.Title == nil {
		return NotFound
	}
	return *n.Title
}
