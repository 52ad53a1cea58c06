// Package assetpath normalizes and extracts image/asset references from
// markdown and HTML text. A canonical asset path is root-relative and starts
// with "assets/"; everything else is left alone so callers can ignore it.
package assetpath

import (
	"regexp"
	"strings"
)

// Canonicalize strips any number of leading "./" or "../" segments, or a
// single leading "/", from a path that resolves into the assets tree. The
// result always starts with "assets/". Paths that do not resolve into the
// assets tree are returned unchanged. Canonicalize is idempotent.
func Canonicalize(raw string) string {
	p := raw
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		default:
			p = strings.TrimPrefix(p, "/")
			if strings.HasPrefix(p, "assets/") {
				return p
			}
			return raw
		}
	}
}

// IsAsset reports whether a path canonicalizes into the assets tree.
func IsAsset(path string) bool {
	return strings.HasPrefix(Canonicalize(path), "assets/")
}

// Reference shapes recognized by Scan. Matching is textual: surrounding
// malformed markup never causes a failure, it just doesn't match.
var referencePatterns = []*regexp.Regexp{
	// Markdown image: ![alt](path). The path ends at whitespace or ')' so
	// an optional "title" part is not captured.
	regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)[^)]*\)`),
	// HTML src attributes, both quote styles.
	regexp.MustCompile(`src="([^"]+)"`),
	regexp.MustCompile(`src='([^']+)'`),
	// CSS url(...) with optional quotes.
	regexp.MustCompile(`url\(\s*['"]?([^)'"\s]+)['"]?\s*\)`),
}

// Scan extracts the set of canonical asset paths referenced by text.
// References that do not resolve into the assets tree (external URLs, page
// links) are dropped.
func Scan(text string) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, re := range referencePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			c := Canonicalize(m[1])
			if strings.HasPrefix(c, "assets/") {
				refs[c] = struct{}{}
			}
		}
	}
	return refs
}

// Rewrite replaces every recognized asset reference in text with its
// canonical spelling, leaving the surrounding markup untouched. Applying
// Rewrite twice produces the same output as applying it once.
func Rewrite(text string) string {
	for _, re := range referencePatterns {
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			idx := re.FindStringSubmatchIndex(match)
			path := match[idx[2]:idx[3]]
			c := Canonicalize(path)
			if c == path || !strings.HasPrefix(c, "assets/") {
				return match
			}
			// Splice at the capture group's offsets so identical text
			// elsewhere in the match (alt text, a title part) stays put.
			return match[:idx[2]] + c + match[idx[3]:]
		})
	}
	return text
}
