package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimHyphens  = regexp.MustCompile(`^-+|-+$`)

	// Strips combining marks after NFD decomposition so accented characters
	// fold to their ASCII base ("Café" -> "cafe").
	slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify normalizes a name into a lowercase URL-safe base slug. Uniqueness
// is not handled here; callers disambiguate with NextSlug.
func Slugify(name string) string {
	folded, _, err := transform.String(slugFolder, name)
	if err != nil {
		folded = name
	}

	slug := strings.ToLower(strings.TrimSpace(folded))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugTrimHyphens.ReplaceAllString(slug, "")

	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}

	return slug
}

const maxSlugLength = 200

// NextSlug appends the numeric disambiguation suffix for a taken base slug.
// Suffixes start at 1 and use the smallest unused integer.
func NextSlug(base string, attempt int) string {
	if attempt <= 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
