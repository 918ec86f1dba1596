// Package alias reads tsconfig path aliases and resolves module specifiers
// through them.
package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
)

// Table maps an alias to its ordered candidate path patterns. Only the first
// candidate is ever used.
type Table map[string][]string

// Load reads compilerOptions.paths from a tsconfig file.
func Load(file string) (Table, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading tsconfig %s: %w", file, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing tsconfig %s: %w", file, err)
	}
	return t, nil
}

// Parse decodes tsconfig JSON. Comments and trailing commas, which tsconfig
// files commonly contain, are tolerated.
func Parse(data []byte) (Table, error) {
	var config struct {
		CompilerOptions struct {
			Paths map[string][]string `json:"paths"`
		} `json:"compilerOptions"`
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("standardizing: %w", err)
	}
	if err := json.Unmarshal(std, &config); err != nil {
		return nil, err
	}
	t := make(Table, len(config.CompilerOptions.Paths))
	for k, v := range config.CompilerOptions.Paths {
		if len(v) > 0 {
			t[k] = v
		}
	}
	return t, nil
}

// Resolve maps a module specifier to the first candidate path of its alias.
// Exact keys are tried first, then wildcard keys such as "@app/*", longest
// prefix first, with the matched remainder substituted into the candidate.
func (t Table) Resolve(specifier string) (string, bool) {
	if candidates, ok := t[specifier]; ok {
		return strings.TrimPrefix(candidates[0], "./"), true
	}

	var wildcards []string
	for k := range t {
		if strings.HasSuffix(k, "*") {
			wildcards = append(wildcards, k)
		}
	}
	sort.Slice(wildcards, func(i, j int) bool {
		if len(wildcards[i]) != len(wildcards[j]) {
			return len(wildcards[i]) > len(wildcards[j])
		}
		return wildcards[i] < wildcards[j]
	})

	for _, k := range wildcards {
		prefix := strings.TrimSuffix(k, "*")
		if !strings.HasPrefix(specifier, prefix) {
			continue
		}
		rest := strings.TrimPrefix(specifier, prefix)
		target := strings.Replace(t[k][0], "*", rest, 1)
		return path.Clean(strings.TrimPrefix(target, "./")), true
	}
	return "", false
}
