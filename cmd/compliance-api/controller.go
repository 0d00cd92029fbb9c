package main

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/pipeline"
	"github.com/inovadocs/export-compliance/lib/store"
	"github.com/inovadocs/export-compliance/lib/textacq"
)

// demoText stands in for OCR output when an upload yields no text, so the
// demo flow still exercises the whole pipeline. Disabled via config in
// real deployments.
const demoText = "Demostración de OCR. Documento de importación/exportación con INCOTERM FOB, HS CODE 847130, " +
	"contenedor ABCD1234567 y BL BL123456789. Monto 12,345.67 USD."

const demoConfidence = 0.82

var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
	"text/html":       {},
	"text/plain":      {},
}

type controller struct {
	store        *store.Store
	pipe         *pipeline.Pipeline
	storageDir   string
	capabilities textacq.Capabilities
	demoFallback bool
}

func (ct controller) ProcessText(text, declaredType string) lib.ProcessingResult {
	return ct.pipe.Process(text, declaredType)
}

// CreateDocument stores the upload, extracts its text and runs the pipeline
// inline. Processing is synchronous so the response already reflects the
// full result.
func (ct controller) CreateDocument(ctx context.Context, file *multipart.FileHeader, declaredType string) (store.Document, error) {
	contentType := file.Header.Get("Content-Type")
	if _, ok := allowedContentTypes[contentType]; !ok {
		return store.Document{}, NewHttpError(415, errors.New("tipo de archivo no soportado"))
	}

	storedPath, err := ct.saveUpload(file)
	if err != nil {
		return store.Document{}, err
	}

	extraction := textacq.FromFile(storedPath, contentType)
	text, confidence := extraction.Text, extraction.Confidence
	if strings.TrimSpace(text) == "" && ct.demoFallback {
		log.Info().Str("filename", file.Filename).Msg("no text extracted, using demo fallback")
		text, confidence = demoText, demoConfidence
	}

	doc := store.Document{
		ID:            uuid.New().String(),
		Filename:      file.Filename,
		ContentType:   contentType,
		StoredPath:    storedPath,
		DeclaredType:  declaredType,
		OCRConfidence: confidence,
		Text:          text,
	}
	if err := ct.store.CreateDocument(ctx, doc); err != nil {
		return store.Document{}, err
	}

	result := ct.pipe.Process(text, declaredType)
	if err := ct.store.SaveResult(ctx, doc.ID, result); err != nil {
		return store.Document{}, err
	}

	doc.DocType = result.DocType
	doc.Language = result.Language
	return doc, nil
}

// Reprocess reruns the pipeline over the stored text, replacing the
// previous results.
func (ct controller) Reprocess(ctx context.Context, id string) (lib.ProcessingResult, error) {
	doc, err := ct.store.GetDocument(ctx, id)
	if err != nil {
		return lib.ProcessingResult{}, notFoundOr(err)
	}

	result := ct.pipe.Process(doc.Text, doc.DeclaredType)
	if err := ct.store.SaveResult(ctx, id, result); err != nil {
		return lib.ProcessingResult{}, err
	}
	return result, nil
}

func (ct controller) GetDocument(ctx context.Context, id string) (store.Document, error) {
	doc, err := ct.store.GetDocument(ctx, id)
	if err != nil {
		return store.Document{}, notFoundOr(err)
	}
	return doc, nil
}

func (ct controller) ListEntities(ctx context.Context, id string) ([]lib.ExtractedEntity, error) {
	if _, err := ct.store.GetDocument(ctx, id); err != nil {
		return nil, notFoundOr(err)
	}
	entities, err := ct.store.ListEntities(ctx, id)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []lib.ExtractedEntity{}
	}
	return entities, nil
}

func (ct controller) ListKeywords(ctx context.Context, id string) ([]lib.Keyword, error) {
	if _, err := ct.store.GetDocument(ctx, id); err != nil {
		return nil, notFoundOr(err)
	}
	keywords, err := ct.store.ListKeywords(ctx, id)
	if err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []lib.Keyword{}
	}
	return keywords, nil
}

// TextBlock is the /text response shape: one block per page. Extraction
// currently yields a single block covering the whole document.
type TextBlock struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (ct controller) GetText(ctx context.Context, id string) ([]TextBlock, error) {
	doc, err := ct.store.GetDocument(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return []TextBlock{{Page: 1, Text: doc.Text, Confidence: doc.OCRConfidence}}, nil
}

// Insights is the /insights response shape. Slices are always present, so
// an unprocessed document yields empty arrays rather than nulls.
type Insights struct {
	Compliance      []lib.Issue `json:"compliance"`
	Spellcheck      []lib.Issue `json:"spellcheck"`
	Recommendations []string    `json:"recommendations"`
}

func (ct controller) GetInsights(ctx context.Context, id string) (Insights, error) {
	if _, err := ct.store.GetDocument(ctx, id); err != nil {
		return Insights{}, notFoundOr(err)
	}

	insights := Insights{
		Compliance:      []lib.Issue{},
		Spellcheck:      []lib.Issue{},
		Recommendations: []string{},
	}
	result, ok, err := ct.store.LatestResult(ctx, id)
	if err != nil || !ok {
		return insights, err
	}

	if result.Compliance != nil {
		insights.Compliance = result.Compliance
	}
	if result.Spellcheck != nil {
		insights.Spellcheck = result.Spellcheck
	}
	if result.Recommendations != nil {
		insights.Recommendations = result.Recommendations
	}
	return insights, nil
}

// saveUpload writes the upload to the storage directory under a fresh uuid,
// keeping the original extension for the extractor dispatch.
func (ct controller) saveUpload(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(ct.storageDir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(ct.storageDir, uuid.New().String()+strings.ToLower(filepath.Ext(file.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NewHttpError(404, errors.New("documento no encontrado"))
	}
	return err
}
