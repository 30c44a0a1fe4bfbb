package middleware

import "strings"

// matchPath compares a path against a pattern segment by segment: "*"
// matches exactly one path component, a trailing "**" matches any remainder.
func matchPath(pattern, path string) bool {
	pp := splitPath(pattern)
	sp := splitPath(path)

	for i, seg := range pp {
		if seg == "**" {
			return true
		}
		if i >= len(sp) {
			return false
		}
		if seg != "*" && seg != sp[i] {
			return false
		}
	}
	return len(pp) == len(sp)
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchPath(p, path) {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
