package marketplace

import (
	"regexp"
	"strconv"
	"strings"
)

// MajorMinor is the two-level numeric version identifier the compatibility
// editor works with. Comparison is ordinal per level, never lexicographic:
// 10.2 is newer than 9.9.
type MajorMinor struct {
	Major int
	Minor int
}

// ParseMajorMinor reads the leading "major.minor" pair of a version string.
// Missing or non-numeric parts count as zero, matching the forgiving
// coercion the marketplace applies to its own identifiers.
func ParseMajorMinor(s string) MajorMinor {
	parts := strings.Split(s, ".")
	v := MajorMinor{Major: lenientInt(parts[0])}
	if len(parts) > 1 {
		v.Minor = lenientInt(parts[1])
	}
	return v
}

func lenientInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Less orders by major first, then minor.
func (v MajorMinor) Less(o MajorMinor) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// AtLeast reports whether v is o or newer.
func (v MajorMinor) AtLeast(o MajorMinor) bool {
	return !v.Less(o)
}

// parseCheckboxVersion decodes the "major_minor" pair encoded in the class
// identifier of a compatibility checkbox, e.g. "8_1-selector extra".
func parseCheckboxVersion(class string) MajorMinor {
	identifier := strings.SplitN(class, "-", 2)[0]
	parts := strings.Split(identifier, "_")
	v := MajorMinor{Major: lenientInt(parts[0])}
	if len(parts) > 1 {
		v.Minor = lenientInt(parts[1])
	}
	return v
}

var markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((.+?)\)`)

// StripMarkdownLinks replaces every [text](url) span with just the text.
// The marketplace rejects embedded links in free-text fields.
func StripMarkdownLinks(s string) string {
	return markdownLinkPattern.ReplaceAllString(s, "$1")
}
