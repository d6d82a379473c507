package answer

import (
	"regexp"
	"strings"
)

var trailingLinkLine = regexp.MustCompile(`^\s*\d+\.\s*https?://`)

// StripTrailingNumberedLinks removes trailing "1. https://..." lines the
// model sometimes appends; sources are rendered separately.
func StripTrailingNumberedLinks(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for len(lines) > 0 && trailingLinkLine.MatchString(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
