package source

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Load walks repoPath, parses every TypeScript file matching one of the
// include patterns and none of the ignore patterns, and returns the index.
// Files are added in path order so first-match lookups are deterministic.
func Load(ctx context.Context, repoPath string, include, ignore []string) (*Index, error) {
	files, err := walkRepo(repoPath, include, ignore)
	if err != nil {
		return nil, fmt.Errorf("walking repo: %w", err)
	}
	log.Printf("[source] found %d TypeScript files in %s", len(files), repoPath)

	idx := NewIndex()
	for _, relFile := range files {
		select {
		case <-ctx.Done():
			idx.Close()
			return nil, ctx.Err()
		default:
		}

		src, err := os.ReadFile(filepath.Join(repoPath, filepath.FromSlash(relFile)))
		if err != nil {
			log.Printf("[source] error reading %s: %v", relFile, err)
			continue
		}
		if _, err := idx.Add(relFile, src); err != nil {
			log.Printf("[source] error parsing %s: %v", relFile, err)
		}
	}

	log.Printf("[source] indexed %d units", idx.Count())
	return idx, nil
}

// walkRepo collects slash-separated relative paths of candidate files.
func walkRepo(repoPath string, include, ignore []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(repoPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(repoPath, p)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if matchAny(ignore, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !isTypeScriptFile(relPath) {
			return nil
		}
		if len(include) > 0 && !matchAny(include, relPath) {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchPattern supports plain path.Match globs plus the `dir/**`,
// `dir/**/*` and `**/name` forms.
func matchPattern(pattern, relPath string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")

	for _, suffix := range []string{"/**/*", "/**"} {
		if strings.HasSuffix(pattern, suffix) {
			dirPrefix := strings.TrimSuffix(pattern, suffix)
			if relPath == dirPrefix || strings.HasPrefix(relPath, dirPrefix+"/") {
				return true
			}
		}
	}

	if matched, err := path.Match(pattern, relPath); err == nil && matched {
		return true
	}

	if strings.HasPrefix(pattern, "**/") {
		subPattern := strings.TrimPrefix(pattern, "**/")
		if matched, err := path.Match(subPattern, path.Base(relPath)); err == nil && matched {
			return true
		}
		if matched, err := path.Match(subPattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}

func isTypeScriptFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".ts" || ext == ".tsx"
}
