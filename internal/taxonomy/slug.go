package taxonomy

import (
	"regexp"
	"strings"
)

// slugOverrides short-circuits especially messy source strings that the
// generic rules would turn into unusable route segments. Keys are the
// lowercased raw value.
var slugOverrides = map[string]string{
	"sons/daughters of ex-servicemen and serving defence personnel": "ex-servicemen",
	"students with disabilities (divyangjan)":                       "disabled",
	"economically weaker section (ews) students only":               "ews",
	"minority communities (muslim/christian/sikh/buddhist/parsi/jain)": "minority",
	"single girl child of the family":                               "single-girl-child",
	"orphans / children without parental support":                   "orphans",
}

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	separators    = regexp.MustCompile(`[/&|,+_]+`)
	nonWord       = regexp.MustCompile(`[^a-z0-9\s-]+`)
	whitespace    = regexp.MustCompile(`\s+`)
	trailingYear  = regexp.MustCompile(`\s+(19|20)\d{2}\s*$`)
)

const maxSlugWords = 6

// Slugify turns free text into a stable, URL-safe route segment. The
// same input always yields the same output, and slugifying an already
// slugified string returns it unchanged.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	if o, ok := slugOverrides[s]; ok {
		return o
	}

	s = parenthetical.ReplaceAllString(s, " ")
	s = separators.ReplaceAllString(s, " ")
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-")

	// collapse runs of hyphens left by removed tokens
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	words := strings.Split(s, "-")
	if len(words) > maxSlugWords {
		words = words[:maxSlugWords]
	}
	return strings.Join(words, "-")
}

// SlugForTitle derives a scheme slug from its title. Trailing 4-digit
// years are stripped first so the yearly re-listing of a scheme keeps
// one stable URL.
func SlugForTitle(title string) string {
	return Slugify(trailingYear.ReplaceAllString(strings.TrimSpace(title), ""))
}
