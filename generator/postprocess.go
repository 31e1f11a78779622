package generator

import (
	"errors"
	"regexp"
	"strings"
)

var errBlankOutput = errors.New("model returned empty markdown")

var (
	titleRe      = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	fenceRe      = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\n```$")
	referencesRe = regexp.MustCompile(`(?mi)^(?:#{1,6}\s*)?\**references\b`)
)

// PostProcess trims model output and unwraps a single surrounding code fence.
func PostProcess(raw string) (string, error) {
	md := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(md); len(m) == 2 {
		md = strings.TrimSpace(m[1])
	}
	if md == "" {
		return "", errBlankOutput
	}
	return md, nil
}

// ExtractTitle returns the first level-one heading, or "".
func ExtractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// HasReferences reports whether some line starts a References section.
func HasReferences(md string) bool {
	return referencesRe.MatchString(md)
}
