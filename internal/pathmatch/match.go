// Package pathmatch compiles minimatch-style glob patterns on top of gobwas/glob.
//
// Patterns use '/' as the separator. A leading "**/" and every "/**/" may match
// zero directories, so "**/*.js" matches both "index.js" and "src/index.js".
package pathmatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const globstar = "/**/"

type Matcher struct {
	pattern  string
	variants []glob.Glob
}

func Compile(pattern string) (Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return Matcher{}, fmt.Errorf("glob pattern cannot be empty")
	}

	expanded := expand(filepath.ToSlash(pattern))
	variants := make([]glob.Glob, 0, len(expanded))
	for _, variant := range expanded {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return Matcher{}, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		variants = append(variants, g)
	}
	return Matcher{pattern: pattern, variants: variants}, nil
}

func MustCompile(pattern string) Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func CompileAll(patterns []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(patterns))
	for _, pattern := range patterns {
		m, err := Compile(pattern)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// Match reports whether name matches the pattern. OS separators in name are
// converted to '/' first.
func (m Matcher) Match(name string) bool {
	name = filepath.ToSlash(name)
	for _, g := range m.variants {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (m Matcher) String() string {
	return m.pattern
}

func MatchAny(matchers []Matcher, name string) bool {
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// expand returns every spelling of pattern in which each globstar segment
// either stays or collapses to nothing.
func expand(pattern string) []string {
	variants := []string{pattern}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		variants = append(variants, expand(rest)...)
	}

	idx := strings.Index(pattern, globstar)
	if idx < 0 {
		return dedupe(variants)
	}
	head := pattern[:idx]
	for _, tail := range expand(pattern[idx+len(globstar)-1:]) {
		variants = append(variants, head+tail)
	}
	for _, tail := range expand(pattern[idx+len(globstar):]) {
		variants = append(variants, head+globstar+tail)
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
