// Package pathfmt formats filesystem paths for display.
package pathfmt

import (
	"path/filepath"
	"strings"
)

// Shorten keeps the last two segments of path, joined by the platform
// separator. Both '/' and '\' are treated as separators. Empty segments
// produced by repeated, leading or trailing separators still count.
func Shorten(path string) string {
	parts := strings.Split(strings.ReplaceAll(path, `\`, "/"), "/")

	n := len(parts)
	if n == 1 {
		return parts[0]
	}
	return parts[n-2] + string(filepath.Separator) + parts[n-1]
}
