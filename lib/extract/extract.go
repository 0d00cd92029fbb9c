// Package extract implements rule-based extraction of typed field entities
// from export document text. Each entity kind has an ordered chain of
// strategies; the first strategy that matches wins and at most one entity
// per kind is emitted. Extraction never fails: a kind with no match is
// simply absent from the output.
package extract

import (
	"regexp"
	"strings"

	"github.com/inovadocs/export-compliance/lib"
)

// Recognised incoterm codes (Incoterms 2010/2020 set).
var incoterms = map[string]struct{}{
	"FOB": {}, "CIF": {}, "CFR": {}, "EXW": {}, "DDP": {}, "DAP": {},
	"DPU": {}, "FCA": {}, "FAS": {}, "DAT": {}, "CIP": {},
}

// Currencies the amount fields of these documents are denominated in.
var currencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "MXN": {}, "COP": {}, "CLP": {}, "PEN": {}, "ARS": {}, "BRL": {},
}

var (
	incotermDirectRe = regexp.MustCompile(`(?i)\b(fob|cif|cfr|exw|ddp|dap|dpu|fca|fas|dat|cip)\b`)
	incotermLabelRe  = regexp.MustCompile(`(?i)\bincoterms?[:\s]+([a-z0-9]{3})\b`)
	hsLabelRe        = regexp.MustCompile(`(?i)(?:hs\s*code|c[oó]digo\s*hs)[^0-9]*([0-9]{4,10})`)
	hsDigitsRe       = regexp.MustCompile(`\b[0-9]{6,10}\b`)
	containerRe      = regexp.MustCompile(`(?i)\b([a-z]{4}[0-9]{7})\b`)
	blNumberRe       = regexp.MustCompile(`(?i)\b(?:bl|bill\s+of\s+lading)[:\-\s]*([a-z0-9][a-z0-9-]*)\b`)
	currencyRe       = regexp.MustCompile(`(?i)\b(usd|eur|mxn|cop|clp|pen|ars|brl)\b`)
	amountUSRe       = regexp.MustCompile(`\b[0-9]{1,3}(?:,[0-9]{3})*\.[0-9]{2}\b`)
	amountEURe       = regexp.MustCompile(`\b[0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2}\b`)
)

// ocrConfusions maps digits commonly misread by OCR inside incoterm codes to
// the letters they stand for.
var ocrConfusions = strings.NewReplacer("0", "O", "1", "I")

// strategy is a single extraction rule. It returns the extracted value and
// true on a match. Strategies within a chain are ordered by decreasing
// certainty and the chain stops at the first success.
type strategy struct {
	name       string
	confidence float64
	apply      func(text string) (string, bool)
}

type chain struct {
	kind       lib.EntityKind
	strategies []strategy
}

// chains is evaluated in order; the output entity order follows it.
var chains = []chain{
	{lib.EntityIncoterm, []strategy{
		{"direct", 0.92, matchGroupUpper(incotermDirectRe)},
		{"label", 0.80, incotermFromLabel},
	}},
	{lib.EntityHSCode, []strategy{
		{"label", 0.90, matchGroup(hsLabelRe)},
		{"digits", 0.65, matchWhole(hsDigitsRe)},
	}},
	{lib.EntityContainer, []strategy{
		{"iso6346", 0.88, matchGroupUpper(containerRe)},
	}},
	{lib.EntityBLNumber, []strategy{
		{"label", 0.86, matchGroupUpper(blNumberRe)},
	}},
	{lib.EntityCurrency, []strategy{
		{"direct", 0.80, matchGroupUpper(currencyRe)},
	}},
	{lib.EntityAmount, []strategy{
		// US grouping is tried unconditionally before European grouping;
		// the priority is part of the extraction contract.
		{"us-grouping", 0.78, amountUS},
		{"eu-grouping", 0.72, amountEU},
	}},
}

// Detect runs every strategy chain over the text and returns at most one
// entity per kind, in chain order. Page is always 1: the acquired text
// carries no page structure.
func Detect(text string) []lib.ExtractedEntity {
	entities := make([]lib.ExtractedEntity, 0, len(chains))
	for _, c := range chains {
		for _, s := range c.strategies {
			value, ok := s.apply(text)
			if !ok {
				continue
			}
			entities = append(entities, lib.ExtractedEntity{
				Type:       c.kind,
				Value:      value,
				Confidence: s.confidence,
				Page:       1,
			})
			break
		}
	}
	return entities
}

func matchGroup(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

func matchGroupUpper(re *regexp.Regexp) func(string) (string, bool) {
	inner := matchGroup(re)
	return func(text string) (string, bool) {
		v, ok := inner(text)
		return strings.ToUpper(v), ok
	}
}

func matchWhole(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindString(text)
		return m, m != ""
	}
}

// incotermFromLabel matches "incoterm: <token>" labels, repairs common OCR
// digit/letter confusions and accepts only recognised codes.
func incotermFromLabel(text string) (string, bool) {
	m := incotermLabelRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	code := ocrConfusions.Replace(strings.ToUpper(m[1]))
	if _, ok := incoterms[code]; !ok {
		return "", false
	}
	return code, true
}

func amountUS(text string) (string, bool) {
	m := amountUSRe.FindString(text)
	if m == "" {
		return "", false
	}
	return NormalizeAmount(m), true
}

func amountEU(text string) (string, bool) {
	m := amountEURe.FindString(text)
	if m == "" {
		return "", false
	}
	return NormalizeAmount(m), true
}

// NormalizeAmount rewrites a grouped amount to a plain decimal string with
// "." as separator and no grouping characters. The separator appearing last
// is taken as the decimal mark. Normalising an already-normalised amount
// returns it unchanged.
func NormalizeAmount(raw string) string {
	cleaned := strings.ReplaceAll(raw, " ", "")
	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	return cleaned
}

// IsIncoterm reports whether code is a recognised incoterm.
func IsIncoterm(code string) bool {
	_, ok := incoterms[strings.ToUpper(code)]
	return ok
}

// IsCurrency reports whether code is a recognised currency.
func IsCurrency(code string) bool {
	_, ok := currencies[strings.ToUpper(code)]
	return ok
}
