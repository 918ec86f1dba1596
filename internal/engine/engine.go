package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dejo1307/routetree/internal/alias"
	"github.com/dejo1307/routetree/internal/config"
	"github.com/dejo1307/routetree/internal/lazyref"
	"github.com/dejo1307/routetree/internal/routes"
	"github.com/dejo1307/routetree/internal/source"
	"github.com/dejo1307/routetree/internal/title"
)

// RoutingFilePatterns are tried in order inside a module directory; the first
// pattern with any match supplies the routing files.
var RoutingFilePatterns = []string{
	"%s/*-routing.module.ts",
	"%s/*.routes.ts",
	"%s/lib/*-routing.module.ts",
	"%s/lib/*.routes.ts",
}

// BarrelFile is the fallback routing source of a module directory.
const BarrelFile = "index.ts"

// Engine resolves routing declarations of an indexed workspace into a tree.
type Engine struct {
	cfg     *config.Config
	idx     *source.Index
	aliases alias.Table
	titles  *title.Resolver
	refs    lazyref.Extractor
}

// New creates an Engine over an already built index and alias table.
func New(cfg *config.Config, idx *source.Index, aliases alias.Table) *Engine {
	if aliases == nil {
		aliases = alias.Table{}
	}
	return &Engine{
		cfg:     cfg,
		idx:     idx,
		aliases: aliases,
		titles:  title.New(idx, cfg.TitleAnnotation),
		refs:    lazyref.Pattern{},
	}
}

// Open loads the workspace described by cfg: it parses every source unit and
// reads the tsconfig aliases. A missing tsconfig yields an empty alias table.
func Open(ctx context.Context, cfg *config.Config) (*Engine, error) {
	repoPath, err := filepath.Abs(cfg.Repo)
	if err != nil {
		return nil, fmt.Errorf("resolving repo path: %w", err)
	}

	idx, err := source.Load(ctx, repoPath, cfg.Sources, cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	aliases, err := alias.Load(filepath.Join(repoPath, cfg.TSConfig))
	if err != nil {
		log.Printf("[engine] no path aliases: %v", err)
		aliases = alias.Table{}
	} else {
		log.Printf("[engine] loaded %d path aliases from %s", len(aliases), cfg.TSConfig)
	}

	return New(cfg, idx, aliases), nil
}

// SetExtractor replaces the lazy reference extractor.
func (e *Engine) SetExtractor(x lazyref.Extractor) {
	e.refs = x
}

// Index returns the source index.
func (e *Engine) Index() *source.Index {
	return e.idx
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Close releases the parsed sources.
func (e *Engine) Close() {
	e.idx.Close()
}

// Title resolves the title of a single handler class.
func (e *Engine) Title(typeName string) (string, error) {
	return e.titles.Resolve(typeName)
}

// Resolve resolves the configured root routing unit.
func (e *Engine) Resolve() *Result {
	return e.ResolveFrom(e.cfg.Root)
}

// ResolveFrom resolves the routing declarations of the unit at root. Every
// failure is recorded as a diagnostic; the returned tree may be partial but
// resolution never aborts.
func (e *Engine) ResolveFrom(root string) *Result {
	start := time.Now()
	root = source.Clean(root)
	r := &run{
		e:       e,
		rootDir: path.Dir(root),
		// The root directory counts as expanded so modules pointing back
		// at it are treated as cycles.
		visited: map[string]bool{path.Dir(root): true},
	}

	log.Printf("[engine] starting root routing: %s", root)
	res := &Result{Root: root}
	res.Routes = r.expandUnit(root, "", 0)
	res.Diagnostics = r.diags
	res.Stats = r.stats
	res.Stats.Duration = time.Since(start).String()
	log.Printf("[engine] resolved %d routes (%d titles found, %d not found, %d diagnostics) in %s",
		r.stats.Nodes, r.stats.TitlesFound, r.stats.TitlesNotFound, len(r.diags), res.Stats.Duration)
	return res
}

// run carries the state of one root resolution.
type run struct {
	e       *Engine
	rootDir string
	visited map[string]bool // canonical module references already expanded
	diags   []Diagnostic
	stats   Stats
}

func (r *run) report(depth int, d Diagnostic) {
	r.diags = append(r.diags, d)
	log.Printf("[engine] %swarning: %s", indent(depth), d)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// expandUnit decodes and resolves every route declared in the unit at
// relPath, all under parentPath.
func (r *run) expandUnit(relPath, parentPath string, depth int) []*routes.Node {
	u := r.e.idx.Unit(relPath)
	if u == nil {
		r.report(depth, Diagnostic{Kind: DiagUnitNotFound, Path: parentPath, Subject: relPath})
		return nil
	}
	log.Printf("[engine] %sparsing routing file: %s", indent(depth), u.Path)

	var nodes []*routes.Node
	for _, obj := range routes.Declarations(u) {
		nodes = append(nodes, r.handle(routes.Decode(u, obj), parentPath, depth, u.Path))
	}
	return nodes
}

func (r *run) handle(d routes.Declaration, parentPath string, depth int, current string) *routes.Node {
	fullPath := parentPath + "/" + d.Path
	r.stats.Nodes++

	switch d.Strategy {
	case routes.Eager:
		t := r.title(d.Handler, fullPath, depth)
		log.Printf("[engine] %sEAGER %s component=%s title=%q", indent(depth), fullPath, d.Handler, t)
		r.stats.Eager++
		return &routes.Node{
			Path: d.Path, FullPath: fullPath, Kind: routes.KindEager,
			Name: d.Handler, Title: &t, Source: current, Line: d.Line,
			Children: r.children(d.Children, fullPath, depth, current),
		}

	case routes.LazyModule:
		r.stats.LazyModules++
		node := &routes.Node{
			Path: d.Path, FullPath: fullPath, Kind: routes.KindLazyModule,
			Name: "UNKNOWN", Source: current, Line: d.Line,
		}
		spec, ok := r.e.refs.Module(d.Module)
		if !ok {
			r.report(depth, Diagnostic{Kind: DiagUnrecognizedReference, Path: fullPath, Subject: d.Module})
			return node
		}
		log.Printf("[engine] %sLAZY-MODULE %s import=%s", indent(depth), fullPath, spec)
		node.Name = spec
		node.Children = r.expandModule(spec, fullPath, depth+1, current)
		return node

	case routes.LazyDestination:
		dest, ok := r.e.refs.Destination(d.Destination)
		if !ok {
			r.report(depth, Diagnostic{Kind: DiagUnrecognizedReference, Path: fullPath, Subject: d.Destination})
			r.stats.Unknown++
			return &routes.Node{
				Path: d.Path, FullPath: fullPath, Kind: routes.KindEager,
				Name: "Unknown", Title: notFound(), Source: current, Line: d.Line,
			}
		}
		t := r.title(dest.Export, fullPath, depth)
		log.Printf("[engine] %sLAZY-COMPONENT %s component=%s title=%q", indent(depth), fullPath, dest.Export, t)
		r.stats.LazyDestinations++
		return &routes.Node{
			Path: d.Path, FullPath: fullPath, Kind: routes.KindLazyDestination,
			Name: dest.Export, Title: &t, Source: current, Line: d.Line,
			Children: r.children(d.Children, fullPath, depth, current),
		}
	}

	log.Printf("[engine] %sUNKNOWN route type %s", indent(depth), fullPath)
	r.stats.Unknown++
	return &routes.Node{
		Path: d.Path, FullPath: fullPath, Kind: routes.KindEager, Name: "Unknown", Title: notFound(),
		Source: current, Line: d.Line,
		Children: r.children(d.Children, fullPath, depth, current),
	}
}

func (r *run) children(decls []routes.Declaration, fullPath string, depth int, current string) []*routes.Node {
	var nodes []*routes.Node
	for _, c := range decls {
		nodes = append(nodes, r.handle(c, fullPath, depth+1, current))
	}
	return nodes
}

func (r *run) title(typeName, fullPath string, depth int) string {
	t, err := r.e.titles.Resolve(typeName)
	if err == nil {
		r.stats.TitlesFound++
		return t
	}
	r.stats.TitlesNotFound++
	r.report(depth, Diagnostic{Kind: DiagTitleNotFound, Path: fullPath, Subject: typeName, Detail: titleReason(err)})
	return routes.NotFound
}

// notFound returns a fresh pointer to the NotFound sentinel.
func notFound() *string {
	t := routes.NotFound
	return &t
}

func titleReason(err error) string {
	for _, reason := range []error{
		title.ErrTypeNotFound,
		title.ErrAnnotationNotFound,
		title.ErrTitleNotFound,
		title.ErrUnsupportedTitle,
	} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return err.Error()
}

// expandModule locates the directory a module specifier refers to and
// resolves its routing files under the module's own path. The module itself
// adds no path segment.
func (r *run) expandModule(spec, fullPath string, depth int, current string) []*routes.Node {
	var baseDir string
	switch {
	case strings.HasPrefix(spec, "@"):
		log.Printf("[engine] %salias lookup: %s", indent(depth), spec)
		mapped, ok := r.e.aliases.Resolve(spec)
		if !ok {
			r.report(depth, Diagnostic{Kind: DiagAliasNotFound, Path: fullPath, Subject: spec})
			return nil
		}
		baseDir = mapped
		if path.Ext(mapped) != "" {
			baseDir = path.Dir(mapped)
		}

	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		moduleFile := source.Clean(path.Join(path.Dir(current), spec) + ".ts")
		log.Printf("[engine] %srelative lookup: %s", indent(depth), moduleFile)
		if r.e.idx.Unit(moduleFile) == nil {
			r.report(depth, Diagnostic{Kind: DiagModuleFileNotFound, Path: fullPath, Subject: moduleFile})
			return nil
		}
		baseDir = path.Dir(moduleFile)

	default:
		r.report(depth, Diagnostic{Kind: DiagUnrecognizedReference, Path: fullPath, Subject: spec,
			Detail: "neither an alias nor a relative path"})
		return nil
	}

	baseDir = source.Clean(baseDir)
	if r.visited[baseDir] {
		detail := baseDir
		if baseDir == r.rootDir {
			detail += "; this is the root routing directory, which is never expanded twice"
		}
		r.report(depth, Diagnostic{Kind: DiagCycleSkipped, Path: fullPath, Subject: spec, Detail: detail})
		return nil
	}
	r.visited[baseDir] = true

	return r.expandDir(baseDir, spec, fullPath, depth)
}

// expandDir finds the routing files of a module directory and resolves
// every declaration they contain.
func (r *run) expandDir(baseDir, spec, fullPath string, depth int) []*routes.Node {
	var files []*source.Unit
	for _, pattern := range RoutingFilePatterns {
		glob := fmt.Sprintf(pattern, baseDir)
		log.Printf("[engine] %sglobbing for %s", indent(depth), glob)
		if files = r.e.idx.Glob(glob); len(files) > 0 {
			break
		}
	}

	if len(files) == 0 {
		barrel := path.Join(baseDir, BarrelFile)
		log.Printf("[engine] %schecking barrel file: %s", indent(depth), barrel)
		if u := r.e.idx.Unit(barrel); u != nil {
			files = []*source.Unit{u}
		}
	}

	if len(files) == 0 {
		r.report(depth, Diagnostic{Kind: DiagRoutingFileNotFound, Path: fullPath, Subject: spec, Detail: baseDir})
		return nil
	}

	var nodes []*routes.Node
	for _, f := range files {
		nodes = append(nodes, r.expandUnit(f.Path, fullPath, depth)...)
	}
	return nodes
}
