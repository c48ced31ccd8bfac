package generate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLen keeps generated file names well under filesystem limits.
const maxSlugLen = 60

// Slugify turns a free-form subject into a lowercase, hyphen-separated file
// stem. Accents are folded ("Café" -> "cafe"); anything outside [a-z0-9]
// becomes a single hyphen. An empty result becomes "page".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return "page"
	}
	return slug
}

// FileName returns the source file name for image index of a subject,
// e.g. "friendly-dinosaur-03.png".
func FileName(subject string, index int) string {
	return fmt.Sprintf("%s-%02d.png", Slugify(subject), index)
}
