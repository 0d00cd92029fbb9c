// Package knowledge loads the two declarative resources driving the
// compliance and recommendation stages: the extraction schema (required
// fields per document type) and the document knowledge catalog (display
// names, cross-checks, common errors). Both are read once at startup and
// the resulting Base is immutable; missing or malformed files degrade to
// empty tables and are logged, never fatal.
package knowledge

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type SchemaField struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// DocumentTypeSchema lists the fields a document type is expected to carry.
type DocumentTypeSchema struct {
	Fields []SchemaField `json:"fields"`
}

// CrossCheck declares a consistency rule against another document type of
// the same shipment.
type CrossCheck struct {
	Against string   `json:"against"`
	Fields  []string `json:"fields"`
}

type DocumentKnowledge struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CrossChecks  []CrossCheck `json:"cross_checks"`
	CommonErrors []string     `json:"common_errors"`
}

// Base is the read-only knowledge base. Safe for concurrent use: nothing is
// written after Load returns.
type Base struct {
	schemas   map[string]DocumentTypeSchema
	knowledge map[string]DocumentKnowledge
}

var titleCaser = cases.Title(language.Und)

// Empty returns a Base with no tables; every lookup misses.
func Empty() *Base {
	return &Base{
		schemas:   map[string]DocumentTypeSchema{},
		knowledge: map[string]DocumentKnowledge{},
	}
}

// Load reads both resource files. Each file degrades independently: a
// missing or invalid schema file does not prevent the knowledge catalog
// from loading, and vice versa.
func Load(schemaPath, catalogPath string) *Base {
	base := Empty()

	var schemaDoc struct {
		Schemas map[string]DocumentTypeSchema `json:"schemas"`
	}
	if readResource(schemaPath, schemaFileSchema, &schemaDoc) && schemaDoc.Schemas != nil {
		base.schemas = schemaDoc.Schemas
	}

	var catalogDoc struct {
		DocumentTypes []DocumentKnowledge `json:"document_types"`
	}
	if readResource(catalogPath, catalogFileSchema, &catalogDoc) {
		for _, item := range catalogDoc.DocumentTypes {
			if item.ID == "" {
				continue
			}
			base.knowledge[item.ID] = item
		}
	}

	log.Info().
		Int("schemas", len(base.schemas)).
		Int("document_types", len(base.knowledge)).
		Msg("knowledge base loaded")
	return base
}

// Schema returns the field schema for a document type id.
func (b *Base) Schema(docTypeID string) (DocumentTypeSchema, bool) {
	s, ok := b.schemas[docTypeID]
	return s, ok
}

// Knowledge returns the catalog entry for a document type id.
func (b *Base) Knowledge(docTypeID string) (DocumentKnowledge, bool) {
	k, ok := b.knowledge[docTypeID]
	return k, ok
}

// Label returns the display name for a document type id, falling back to
// the id with underscores replaced and title-cased.
func (b *Base) Label(docTypeID string) string {
	if k, ok := b.knowledge[docTypeID]; ok && k.Name != "" {
		return k.Name
	}
	return titleCaser.String(strings.ReplaceAll(docTypeID, "_", " "))
}

// KnownType reports whether the id appears in either table.
func (b *Base) KnownType(docTypeID string) bool {
	if _, ok := b.schemas[docTypeID]; ok {
		return true
	}
	_, ok := b.knowledge[docTypeID]
	return ok
}

// readResource reads, validates and unmarshals one resource file into out.
// Returns false (leaving out untouched) on any failure.
func readResource(path string, schemaMap map[string]interface{}, out interface{}) bool {
	if path == "" {
		return false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("knowledge resource unavailable, using empty table")
		return false
	}
	if err := validateAgainstSchema(schemaMap, raw); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("knowledge resource malformed, using empty table")
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("knowledge resource unreadable, using empty table")
		return false
	}
	return true
}

func validateAgainstSchema(schemaMap map[string]interface{}, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("resource.json", bytes.NewReader(b)); err != nil {
		return err
	}
	schema, err := compiler.Compile("resource.json")
	if err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// JSON-Schema shapes of the two resource files.
var schemaFileSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"schemas"},
	"properties": map[string]interface{}{
		"schemas": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"fields"},
				"properties": map[string]interface{}{
					"fields": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"name"},
							"properties": map[string]interface{}{
								"name":     map[string]interface{}{"type": "string", "minLength": 1},
								"required": map[string]interface{}{"type": "boolean"},
							},
						},
					},
				},
			},
		},
	},
}

var catalogFileSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"document_types"},
	"properties": map[string]interface{}{
		"document_types": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id"},
				"properties": map[string]interface{}{
					"id":   map[string]interface{}{"type": "string", "minLength": 1},
					"name": map[string]interface{}{"type": "string"},
					"cross_checks": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"against"},
							"properties": map[string]interface{}{
								"against": map[string]interface{}{"type": "string"},
								"fields": map[string]interface{}{
									"type":  "array",
									"items": map[string]interface{}{"type": "string"},
								},
							},
						},
					},
					"common_errors": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	},
}
