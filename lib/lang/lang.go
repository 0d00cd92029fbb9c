// Package lang classifies the dominant language of document text by counting
// a small fixed set of high-frequency marker words. Spanish is the primary
// operating language of the domain, so a tie goes to Spanish.
package lang

import "regexp"

const (
	Spanish      = "es"
	English      = "en"
	Undetermined = "und"
)

var (
	spanishMarkers = regexp.MustCompile(`(?i)\b(el|la|de|los|para)\b`)
	englishMarkers = regexp.MustCompile(`(?i)\b(the|and|of|for|with)\b`)
)

// Detect returns "es", "en" or "und" for the given text. Deterministic and
// side-effect free.
func Detect(text string) string {
	spanishHits := len(spanishMarkers.FindAllStringIndex(text, -1))
	englishHits := len(englishMarkers.FindAllStringIndex(text, -1))

	if spanishHits == 0 && englishHits == 0 {
		return Undetermined
	}
	if spanishHits >= englishHits {
		return Spanish
	}
	return English
}
