// Package textacq turns uploaded files into plain text for the processing
// pipeline. Extraction never fails hard: unreadable or unsupported inputs
// degrade to empty text so the rest of the pipeline can still produce a
// well-formed (if empty) result.
package textacq

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
)

// Capabilities reports which inputs this build can extract text from. It is
// static for a given binary and computed once at startup.
type Capabilities struct {
	PlainText bool `json:"plain_text"`
	HTML      bool `json:"html"`
	PDF       bool `json:"pdf"`
	Images    bool `json:"images"`
}

// Detect returns the extraction capabilities of this build. Image OCR is
// not compiled in, so image uploads degrade to empty text.
func Detect() Capabilities {
	return Capabilities{PlainText: true, HTML: true, PDF: true, Images: false}
}

// Result is the outcome of one extraction attempt.
type Result struct {
	Text       string
	Confidence float64
	Method     string
}

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".tif": {}, ".tiff": {}, ".bmp": {},
}

// FromFile extracts text from the file at path, choosing the extractor by
// extension with the declared content type as a fallback hint.
func FromFile(path, contentType string) Result {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".pdf" || strings.Contains(contentType, "pdf"):
		return fromPDF(path)
	case ext == ".html" || ext == ".htm" || strings.Contains(contentType, "html"):
		return fromHTML(path)
	default:
		if _, isImage := imageExtensions[ext]; isImage || strings.HasPrefix(contentType, "image/") {
			log.Warn().Str("path", path).Msg("image upload received but OCR is not available")
			return Result{Method: "none"}
		}
		return fromPlain(path)
	}
}

func fromPlain(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("plain text read failed")
		return Result{Method: "none"}
	}
	text := norm.NFKC.String(string(raw))
	return Result{Text: text, Confidence: EstimateConfidence(text), Method: "plain"}
}

func fromHTML(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("html read failed")
		return Result{Method: "none"}
	}
	defer f.Close()

	text, err := htmlToText(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("html extraction failed")
		return Result{Method: "none"}
	}
	text = norm.NFKC.String(text)
	return Result{Text: text, Confidence: EstimateConfidence(text), Method: "html"}
}

func fromPDF(path string) Result {
	f, reader, err := pdf.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pdf open failed")
		return Result{Method: "none"}
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pdf text layer unavailable")
		return Result{Method: "none"}
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pdf text read failed")
		return Result{Method: "none"}
	}
	text := norm.NFKC.String(string(raw))
	return Result{Text: text, Confidence: EstimateConfidence(text), Method: "pdf_text"}
}

// EstimateConfidence scores how trustworthy extracted text looks. The
// heuristic rewards a high share of word-like tokens (4+ letters), mapping
// it into [0.6, 0.95]. Empty text scores zero.
func EstimateConfidence(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	var wordLike int
	for _, token := range tokens {
		if len([]rune(token)) >= 4 {
			wordLike++
		}
	}
	ratio := float64(wordLike) / float64(len(tokens))
	return 0.6 + 0.35*ratio
}
