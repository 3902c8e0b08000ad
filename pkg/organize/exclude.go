package organize

import (
	"path"
	"path/filepath"
	"strings"
)

// excludeSet matches paths relative to the base directory against user patterns:
//   - basename globs: *.part, Thumbs.db
//   - directory patterns ending in "/": .git/, node_modules/
//   - path globs containing "/": downloads/*.tmp
//   - any-depth patterns: **/cache/*
type excludeSet struct {
	dirs  []string
	deep  []string
	paths []string
	names []string
}

func newExcludeSet(patterns []string) *excludeSet {
	s := &excludeSet{}
	for _, p := range patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		switch {
		case p == "":
		case strings.HasSuffix(p, "/"):
			s.dirs = append(s.dirs, strings.TrimSuffix(p, "/"))
		case strings.HasPrefix(p, "**/"):
			s.deep = append(s.deep, strings.TrimPrefix(p, "**/"))
		case strings.Contains(p, "/"):
			s.paths = append(s.paths, p)
		default:
			s.names = append(s.names, p)
		}
	}
	return s
}

func (s *excludeSet) empty() bool {
	return len(s.dirs)+len(s.deep)+len(s.paths)+len(s.names) == 0
}

// match reports whether rel (a path relative to the base) is excluded
func (s *excludeSet) match(rel string, isDir bool) bool {
	if s.empty() {
		return false
	}

	rel = filepath.ToSlash(rel)
	name := path.Base(rel)

	for _, d := range s.dirs {
		if isDir && globMatch(d, name) {
			return true
		}
		// Anything below a matching directory component
		parts := strings.Split(rel, "/")
		for _, part := range parts[:len(parts)-1] {
			if globMatch(d, part) {
				return true
			}
		}
	}

	for _, p := range s.names {
		if globMatch(p, name) {
			return true
		}
	}

	for _, p := range s.paths {
		if globMatch(p, rel) {
			return true
		}
	}

	for _, p := range s.deep {
		if globMatch(p, name) || globMatch(p, rel) || suffixMatch(p, rel) {
			return true
		}
	}

	return false
}

func globMatch(pattern, name string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}

// suffixMatch tries pattern against every trailing run of path components
func suffixMatch(pattern, rel string) bool {
	for i := strings.Index(rel, "/"); i >= 0; {
		rel = rel[i+1:]
		if globMatch(pattern, rel) {
			return true
		}
		i = strings.Index(rel, "/")
	}
	return false
}
