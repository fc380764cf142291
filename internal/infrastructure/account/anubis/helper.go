package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

func isTransient(err error) bool {
	return errors.Is(err, errAnubisTransient)
}

// tokenCacheKey never stores the raw bearer token.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenCachePrefix + hex.EncodeToString(sum[:])
}

// introspectionURL joins base and path; an absolute path wins over the base.
func introspectionURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// hasRole compares role names case-insensitively.
func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), role) {
			return true
		}
	}
	return false
}
