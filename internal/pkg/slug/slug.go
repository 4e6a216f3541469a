// internal/pkg/slug/slug.go
package slug

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a name into a URL-safe slug
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = pattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
