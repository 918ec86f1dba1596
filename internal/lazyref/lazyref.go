// Package lazyref pulls module specifiers out of lazy loading expressions
// such as `() => import('./admin/admin.module').then(m => m.AdminModule)`.
package lazyref

import "regexp"

// Destination is a deferred single-handler reference: the module to import
// and the export read once the import settles.
type Destination struct {
	Module string
	Export string
}

// Extractor turns raw loading-expression text into structured references.
type Extractor interface {
	// Module returns the specifier of a loadChildren expression.
	Module(expr string) (string, bool)
	// Destination returns specifier and export of a loadComponent expression.
	Destination(expr string) (Destination, bool)
}

var (
	importRe = regexp.MustCompile("import\\(\\s*['\"`]([\\s\\S]*?)['\"`]\\s*\\)")
	thenRe   = regexp.MustCompile(`\.then\(\s*\(?\s*(\w+)\s*\)?\s*=>\s*(\w+)\.(\w+)\s*\)`)
)

// Pattern is the regular-expression Extractor.
type Pattern struct{}

// Module implements Extractor.
func (Pattern) Module(expr string) (string, bool) {
	m := importRe.FindStringSubmatch(expr)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Destination implements Extractor. Both the import call and a
// `.then(m => m.Name)` access on the same parameter are required.
func (p Pattern) Destination(expr string) (Destination, bool) {
	mod, ok := p.Module(expr)
	if !ok {
		return Destination{}, false
	}
	m := thenRe.FindStringSubmatch(expr)
	if m == nil || m[1] != m[2] {
		return Destination{}, false
	}
	return Destination{Module: mod, Export: m[3]}, true
}
