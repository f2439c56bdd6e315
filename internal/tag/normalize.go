// AngelaMos | 2026
// normalize.go

package tag

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/circlepicks/backend/internal/core"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Normalize converts a display name into its canonical slug: diacritics
// stripped, lowercased, whitespace hyphenated, anything outside [a-z0-9-]
// dropped. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) (string, error) {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	s, _, err := transform.String(stripMarks, strings.TrimSpace(name))
	if err != nil {
		return "", core.Invalid("invalid tag name")
	}

	s = strings.ToLower(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return "", core.Invalid("invalid tag name")
	}
	return s, nil
}
