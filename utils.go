package testbed

import (
	"path"
	"strings"
	"unicode/utf8"
)

// CleanAssetPath resolves p against the static root and returns the cleaned,
// root-relative path. Repeated slashes and "." or ".." segments are collapsed
// with path.Clean, so "img/../hello.txt" resolves to "hello.txt".
//
// ok is false when the path:
//   - is empty or absolute (starts with "/")
//   - resolves to the root itself or to anything above it
//   - contains backslashes, which some platforms treat as separators
//   - is not valid UTF-8
//   - contains null bytes, control characters (< 0x20) or DEL (0x7f)
func CleanAssetPath(p string) (clean string, ok bool) {
	if p == "" || p[0] == '/' {
		return "", false
	}

	if strings.ContainsRune(p, '\\') {
		return "", false
	}

	if !utf8.ValidString(p) {
		return "", false
	}

	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return "", false
		}
	}

	clean = path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	return clean, true
}

// IsValidAssetPath reports whether p resolves to a path below the static root.
// Dots inside a segment ("archive..tar", ".hidden") are allowed.
func IsValidAssetPath(p string) bool {
	_, ok := CleanAssetPath(p)
	return ok
}
