// Package pipeline composes the extraction and compliance stages into a
// single synchronous pass over one document's text. Process is pure over
// its inputs: the only shared state is the injected, read-only knowledge
// base, so concurrent invocations over independent documents are safe.
package pipeline

import (
	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/compliance"
	"github.com/inovadocs/export-compliance/lib/doctype"
	"github.com/inovadocs/export-compliance/lib/extract"
	"github.com/inovadocs/export-compliance/lib/keywords"
	"github.com/inovadocs/export-compliance/lib/knowledge"
	"github.com/inovadocs/export-compliance/lib/lang"
	"github.com/inovadocs/export-compliance/lib/recommend"
	"github.com/inovadocs/export-compliance/lib/spell"
)

type Pipeline struct {
	kb          *knowledge.Base
	speller     *spell.Checker
	maxKeywords int
}

// New wires a pipeline over an immutable knowledge base and spell checker.
// A nil knowledge base or spell checker falls back to the empty/built-in
// one; maxKeywords <= 0 falls back to the default cap.
func New(kb *knowledge.Base, speller *spell.Checker, maxKeywords int) *Pipeline {
	if kb == nil {
		kb = knowledge.Empty()
	}
	if speller == nil {
		speller = spell.NewChecker(nil)
	}
	if maxKeywords <= 0 {
		maxKeywords = keywords.DefaultMaxKeywords
	}
	return &Pipeline{kb: kb, speller: speller, maxKeywords: maxKeywords}
}

// Process derives the full result for one document. It never fails: empty
// or noisy input degrades to an empty-but-well-formed result. declaredType
// is the type supplied upstream; classification from text only happens when
// normalisation of the declared type yields nothing — classification never
// overrides a recognised declared type.
func (p *Pipeline) Process(text, declaredType string) lib.ProcessingResult {
	docType := doctype.Normalize(declaredType)
	if docType == "" {
		docType = doctype.Classify(text)
	}

	entities := extract.Detect(text)
	complianceIssues := compliance.Evaluate(text, docType, entities, p.kb)
	spellIssues := p.speller.Check(text)

	return lib.ProcessingResult{
		Language:        lang.Detect(text),
		DocType:         docType,
		Entities:        entities,
		Keywords:        keywords.Rank(text, entities, p.maxKeywords),
		Compliance:      complianceIssues,
		Spellcheck:      spellIssues,
		Recommendations: recommend.Generate(complianceIssues, spellIssues, entities, docType, p.kb),
	}
}
