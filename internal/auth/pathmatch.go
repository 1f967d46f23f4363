package auth

import "strings"

// RequiresAuth reports whether a request path requires authentication
// given the configured exclusion list. It is a pure function.
//
// An exclusion entry ending in "*" matches any path with the remaining
// prefix. All other entries match exactly, with a missing or present
// trailing "/" treated as equivalent ("/status" excludes "/status/").
// An empty path or an empty exclusion list always requires auth.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}

	for _, entry := range excluded {
		if entry == "" {
			continue
		}
		if strings.HasSuffix(entry, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(entry, "*")) {
				return false
			}
			continue
		}
		if normalizePath(path) == normalizePath(entry) {
			return false
		}
	}

	return true
}

func normalizePath(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}
