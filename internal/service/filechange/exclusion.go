package filechange

import (
	"strings"
)

// PathExcluder decides whether a path is a transient agent-runtime artifact.
// A path is excluded when it lies under any of the configured directory markers.
type PathExcluder struct {
	markers []string
}

// NewPathExcluder builds an excluder from directory markers such as ".claude/plans/".
// Blank markers are ignored.
func NewPathExcluder(markers []string) *PathExcluder {
	e := &PathExcluder{}
	for _, m := range markers {
		m = strings.Trim(normalizeSlashes(strings.TrimSpace(m)), "/")
		if m == "" {
			continue
		}
		e.markers = append(e.markers, "/"+m+"/")
	}
	return e
}

// Excluded reports whether path matches any marker
func (e *PathExcluder) Excluded(path string) bool {
	p := "/" + strings.TrimPrefix(normalizeSlashes(path), "/")
	for _, m := range e.markers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

// Markers returns the normalized markers
func (e *PathExcluder) Markers() []string {
	return append([]string(nil), e.markers...)
}

func normalizeSlashes(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
