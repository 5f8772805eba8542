package usecase

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var whitespace = regexp.MustCompile(`\s+`)

// Characters that are not allowed in file names on common file systems or
// that break a quoted Content-Disposition value.
const unsafeFilenameChars = `/\:*?"<>|`

// DefaultFilename builds "Full_Name_YYYY-MM-DD.pdf" from the owner's name,
// using "resume" when the name is empty.
func DefaultFilename(fullName string, now time.Time) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(fullName), "_")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(unsafeFilenameChars, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "resume"
	}
	return name + "_" + now.Format("2006-01-02") + ".pdf"
}
