package errors

import (
	"strings"
	"unicode"
)

// ValidateMapName validates a map name for safety and correctness. Map
// names become file names, cache keys, and URL path segments, so the
// rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateMapName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "map name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "map name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "map name contains control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "map name contains invalid sequence: %q", pattern)
		}
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "map name cannot start with a dot")
	}
	return nil
}

// ValidateAssetRef validates an asset reference. References are content
// hashes produced by the asset store: lowercase hex, fixed prefix.
func ValidateAssetRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "asset reference cannot be empty")
	}
	if len(ref) > 256 {
		return New(ErrCodeInvalidInput, "asset reference too long")
	}
	for _, r := range ref {
		ok := r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.'
		if !ok {
			return New(ErrCodeInvalidInput, "asset reference contains invalid character %q", r)
		}
	}
	if strings.Contains(ref, "..") {
		return New(ErrCodeInvalidInput, "asset reference contains path traversal")
	}
	return nil
}
