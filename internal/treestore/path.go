package treestore

import "strings"

// Paths are slash-separated segment lists with no leading or trailing slash,
// e.g. "notifications/u1/n42". The empty path is invalid everywhere.

// ValidPath reports whether p is a well-formed tree path.
func ValidPath(p string) bool {
	if p == "" {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return false
		}
	}
	return true
}

// Join builds a path from segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}

// Root returns the first segment of a path.
func Root(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// Base returns the last segment of a path.
func Base(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Within reports whether p is base itself or a descendant of base.
func Within(base, p string) bool {
	return p == base || strings.HasPrefix(p, base+"/")
}

// overlaps reports whether a change at p affects the subtree rooted at base:
// either path lies on the other's subtree.
func overlaps(base, p string) bool {
	return Within(base, p) || Within(p, base)
}
