package fetchcache

import "strings"

const keySep = ":"

// Key builds a cache key from a resource name and the identifiers that scope
// it, e.g. Key("payments", ownerID, leaseID) -> "payments:<owner>:<lease>".
// Callers must include every identifier that changes the loaded result.
func Key(resource string, parts ...string) string {
	if len(parts) == 0 {
		return resource
	}
	return resource + keySep + strings.Join(parts, keySep)
}

// Resource returns the leading resource segment of a key built by Key.
func Resource(key string) string {
	if i := strings.Index(key, keySep); i >= 0 {
		return key[:i]
	}
	return key
}

// Prefix returns the key prefix shared by every key of resource scoped to parts.
func Prefix(resource string, parts ...string) string {
	return Key(resource, parts...) + keySep
}
