package helper

import (
	"regexp"
	"strings"
)

var (
	quoteRe   = regexp.MustCompile(`['"]`)
	nonWordRe = regexp.MustCompile(`\W`)
	dashesRe  = regexp.MustCompile(`--+`)
)

// Slugify derives the repository slug Bitbucket expects from a display name.
// Quotes disappear, other non-word characters become single dashes, and one
// leading and one trailing dash are trimmed.
func Slugify(name string) string {
	s := quoteRe.ReplaceAllString(name, "")
	s = nonWordRe.ReplaceAllString(s, "-")
	s = dashesRe.ReplaceAllString(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	return strings.ToLower(s)
}
