package keywords

// Combined Spanish + English stopword list used when filtering keyword
// candidates. Kept small on purpose: these documents are short and formulaic.
var stopwords = map[string]struct{}{
	// spanish
	"de": {}, "la": {}, "el": {}, "los": {}, "las": {}, "y": {}, "en": {},
	"del": {}, "para": {}, "con": {}, "por": {}, "una": {}, "un": {},
	"es": {}, "al": {}, "lo": {}, "se": {}, "como": {}, "más": {}, "o": {},
	"su": {}, "sus": {}, "ya": {}, "sin": {}, "sobre": {}, "entre": {},
	"esta": {}, "este": {}, "son": {}, "pero": {}, "también": {},
	// english
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "from": {},
	"this": {}, "are": {}, "was": {}, "have": {}, "not": {}, "you": {},
	"your": {}, "our": {}, "about": {}, "into": {}, "after": {}, "of": {},
}

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
