// Package spell flags probable misspellings of domain terms in document
// text. It is a soft heuristic: a token is only flagged when it sits very
// close to a canonical term, so legitimate unknown tokens (names, ports,
// varieties) pass through silently.
package spell

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/inovadocs/export-compliance/lib"
)

// maxIssues bounds the findings of one run.
const maxIssues = 8

// similarityCutoff is the minimum levenshtein similarity for a token to be
// treated as a misspelling of a canonical term.
const similarityCutoff = 0.86

// Alphabetic runs of length >=4, including Latin-1 accented letters so that
// words like "fumigación" are a single run.
var wordRe = regexp.MustCompile(`[a-zA-ZÀ-ÖØ-öø-ÿ]{4,}`)

// defaultTerms is the built-in canonical dictionary for the cherry export
// domain. A YAML file can extend or replace it via LoadTerms.
var defaultTerms = []string{
	"cereza", "cerezas", "exportación", "importación", "certificado",
	"fitosanitario", "fumigación", "inspección", "contenedor", "factura",
	"comercial", "temperatura", "incoterm", "embalaje", "embarque",
	"conocimiento", "consignatario", "aduana", "arancel", "puerto",
	"destino", "origen", "variedad", "calibre", "pallet", "cajas",
	"humedad", "frescas", "naviera", "flete", "seguro", "moneda",
}

type Checker struct {
	known map[string]struct{}
	terms []string // iteration order for best-match search
}

// NewChecker builds a checker over the given canonical terms. An empty or
// nil slice falls back to the built-in dictionary.
func NewChecker(terms []string) *Checker {
	if len(terms) == 0 {
		terms = defaultTerms
	}
	c := &Checker{known: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		folded := strings.ToLower(strings.TrimSpace(term))
		if folded == "" {
			continue
		}
		if _, ok := c.known[folded]; ok {
			continue
		}
		c.known[folded] = struct{}{}
		c.terms = append(c.terms, folded)
	}
	return c
}

// LoadTerms reads a YAML term file ({terms: [..]}) to extend the built-in
// dictionary. A missing or malformed file degrades to the defaults.
func LoadTerms(path string) *Checker {
	if path == "" {
		return NewChecker(nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("spell dictionary unavailable, using built-in terms")
		return NewChecker(nil)
	}
	var doc struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("spell dictionary malformed, using built-in terms")
		return NewChecker(nil)
	}
	return NewChecker(append(append([]string{}, defaultTerms...), doc.Terms...))
}

// Check scans text and returns at most 8 spelling warnings, deduplicated by
// the lower-cased offending token.
func (c *Checker) Check(text string) []lib.Issue {
	var issues []lib.Issue
	seen := map[string]struct{}{}

	for _, token := range wordRe.FindAllString(text, -1) {
		if len(issues) >= maxIssues {
			break
		}
		folded := strings.ToLower(token)
		if _, ok := seen[folded]; ok {
			continue
		}
		if _, ok := c.known[folded]; ok {
			continue
		}
		suggestion, similarity := c.closest(folded)
		if similarity < similarityCutoff {
			continue
		}
		seen[folded] = struct{}{}
		issues = append(issues, lib.Issue{
			Severity: lib.SeverityWarning,
			Title:    fmt.Sprintf("Posible error ortográfico: %s", token),
			Detail:   fmt.Sprintf("El término \"%s\" se parece a \"%s\"; revisa la ortografía.", token, suggestion),
		})
	}
	return issues
}

// closest returns the canonical term with the highest similarity to the
// folded token, searching in dictionary order so results are deterministic.
func (c *Checker) closest(folded string) (string, float64) {
	best := ""
	bestSim := 0.0
	for _, term := range c.terms {
		sim := levenshtein.Similarity(folded, term, nil)
		if sim > bestSim {
			best, bestSim = term, sim
		}
	}
	return best, bestSim
}
