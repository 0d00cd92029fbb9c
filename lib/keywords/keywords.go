// Package keywords ranks unigram and bigram keywords by frequency over the
// document text. Detected entities take priority over frequency-derived
// keywords and are emitted first with a fixed score of 1.0.
package keywords

import (
	"sort"
	"strings"
	"unicode"

	"github.com/blevesearch/segment"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/inovadocs/export-compliance/lib"
)

// DefaultMaxKeywords bounds the keyword list when the caller does not.
const DefaultMaxKeywords = 8

// Display labels for entity-derived keywords. Kinds without a label fall
// back to the upper-cased kind name.
var entityLabels = map[lib.EntityKind]string{
	lib.EntityIncoterm:  "INCOTERM",
	lib.EntityHSCode:    "HS CODE",
	lib.EntityContainer: "CONTENEDOR",
	lib.EntityBLNumber:  "BL",
	lib.EntityAmount:    "MONTO",
	lib.EntityCurrency:  "MONEDA",
}

var titleCaser = cases.Title(language.Und)

type counted struct {
	term  string
	count int
	first int // first appearance in the token stream, the tie-break
}

// Rank returns at most maxKeywords keywords: one per entity first (score
// 1.0, detection order), then bigrams by descending frequency (score
// count/max clamped to [0.4,0.95], title case), then unigrams (clamped to
// [0.3,0.9], capitalised). Dedup is case-insensitive against everything
// already emitted.
func Rank(text string, entities []lib.ExtractedEntity, maxKeywords int) []lib.Keyword {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	tokens := tokenize(text)
	unigrams := countUnigrams(tokens)
	bigrams := countBigrams(tokens)

	keywords := make([]lib.Keyword, 0, maxKeywords)
	seen := make(map[string]struct{})

	emit := func(text string, score float64) bool {
		norm := strings.ToLower(text)
		if text == "" {
			return len(keywords) < maxKeywords
		}
		if _, ok := seen[norm]; ok {
			return len(keywords) < maxKeywords
		}
		seen[norm] = struct{}{}
		keywords = append(keywords, lib.Keyword{Text: text, Score: score})
		return len(keywords) < maxKeywords
	}

	for _, entity := range entities {
		label, ok := entityLabels[entity.Type]
		if !ok {
			label = strings.ToUpper(string(entity.Type))
		}
		if !emit(strings.TrimSpace(label+" "+entity.Value), 1.0) {
			return keywords
		}
	}

	maxBigram := maxCount(bigrams)
	for _, c := range rankCounts(bigrams) {
		score := clamp(float64(c.count)/float64(maxBigram), 0.4, 0.95)
		if !emit(titleCaser.String(c.term), score) {
			return keywords
		}
	}

	maxUnigram := maxCount(unigrams)
	for _, c := range rankCounts(unigrams) {
		score := clamp(float64(c.count)/float64(maxUnigram), 0.3, 0.9)
		if !emit(titleCaser.String(c.term), score) {
			return keywords
		}
	}

	return keywords
}

const nonAlphaNumeric = 0

// tokenize splits text into lower-cased word tokens using unicode word
// segmentation. Filtering happens later so that bigram adjacency is judged
// on the raw stream.
func tokenize(text string) []string {
	segmenter := segment.NewWordSegmenterDirect([]byte(strings.ToLower(text)))
	var tokens []string
	for segmenter.Segment() {
		if segmenter.Type() == nonAlphaNumeric {
			continue
		}
		tokens = append(tokens, string(segmenter.Bytes()))
	}
	return tokens
}

// keepToken is the shared candidate filter: drops short tokens, stopwords
// and pure-digit runs.
func keepToken(token string) bool {
	if len([]rune(token)) <= 2 {
		return false
	}
	if isStopword(token) {
		return false
	}
	return !isDigits(token)
}

func isDigits(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func countUnigrams(tokens []string) map[string]counted {
	counts := make(map[string]counted)
	for i, token := range tokens {
		if !keepToken(token) {
			continue
		}
		c, ok := counts[token]
		if !ok {
			c = counted{term: token, first: i}
		}
		c.count++
		counts[token] = c
	}
	return counts
}

// countBigrams pairs adjacent tokens of the raw stream; both members must
// individually pass the candidate filter.
func countBigrams(tokens []string) map[string]counted {
	counts := make(map[string]counted)
	for i := 0; i+1 < len(tokens); i++ {
		if !keepToken(tokens[i]) || !keepToken(tokens[i+1]) {
			continue
		}
		phrase := tokens[i] + " " + tokens[i+1]
		c, ok := counts[phrase]
		if !ok {
			c = counted{term: phrase, first: i}
		}
		c.count++
		counts[phrase] = c
	}
	return counts
}

// rankCounts orders by descending count, breaking ties by first appearance
// in the token stream so the ordering is deterministic.
func rankCounts(counts map[string]counted) []counted {
	out := make([]counted, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].first < out[j].first
	})
	return out
}

func maxCount(counts map[string]counted) int {
	max := 1
	for _, c := range counts {
		if c.count > max {
			max = c.count
		}
	}
	return max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
