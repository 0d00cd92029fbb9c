// Package compliance evaluates export documents against the per-type field
// schema and against the fixed cherry-export domain rule catalog. The two
// passes are independent; Evaluate concatenates their findings with schema
// issues first.
package compliance

import (
	"fmt"
	"strings"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/knowledge"
)

// fieldHints maps schema field names to the phrases whose presence in the
// text counts as the field being present. Fields without an entry fall back
// to the field name with underscores replaced by spaces.
var fieldHints = map[string][]string{
	"numero_factura":    {"factura n", "invoice no", "n° factura", "nro factura"},
	"fecha":             {"fecha", "date"},
	"exportador":        {"exportador", "shipper", "exporter"},
	"consignee":         {"consignee", "consignatario"},
	"peso_neto":         {"peso neto", "net weight"},
	"peso_bruto":        {"peso bruto", "gross weight"},
	"hs_code":           {"hs code", "código hs", "codigo hs"},
	"valor_total":       {"valor total", "total amount", "total"},
	"variedad":          {"variedad", "variety"},
	"numero_cajas":      {"cajas", "boxes", "bultos"},
	"numero_contenedor": {"contenedor", "container"},
	"numero_bl":         {"bl", "bill of lading"},
	"puerto_origen":     {"puerto de origen", "port of loading", "puerto de embarque"},
	"puerto_destino":    {"puerto de destino", "port of discharge", "puerto de descarga"},
	"tratamiento":       {"tratamiento", "fumigación", "fumigacion", "treatment"},
	"pais_destino":      {"país de destino", "pais de destino", "country of destination"},
}

// EvaluateSchema checks every required field of the document type's schema
// for a hint-phrase occurrence in the case-folded text. Types without a
// schema produce no findings.
func EvaluateSchema(text, docTypeID string, kb *knowledge.Base) []lib.Issue {
	schema, ok := kb.Schema(docTypeID)
	if !ok {
		return nil
	}

	lowered := strings.ToLower(text)
	var issues []lib.Issue
	for _, field := range schema.Fields {
		if !field.Required {
			continue
		}
		if fieldPresent(lowered, field.Name) {
			continue
		}
		label := strings.ReplaceAll(field.Name, "_", " ")
		issues = append(issues, lib.Issue{
			Severity: lib.SeverityWarning,
			Title:    fmt.Sprintf("Campo esperado: %s", label),
			Detail:   fmt.Sprintf("No se encontró el campo \"%s\" en el texto del documento.", label),
			Field:    field.Name,
		})
	}
	return issues
}

func fieldPresent(lowered, fieldName string) bool {
	hints, ok := fieldHints[fieldName]
	if !ok {
		hints = []string{strings.ReplaceAll(fieldName, "_", " ")}
	}
	for _, hint := range hints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}

// Evaluate runs both passes and returns the concatenated, deduplicated
// issue list: schema findings first, then domain findings.
func Evaluate(text, docTypeID string, entities []lib.ExtractedEntity, kb *knowledge.Base) []lib.Issue {
	issues := EvaluateSchema(text, docTypeID, kb)
	issues = append(issues, EvaluateDomain(text, docTypeID, entities)...)
	return lib.DedupeIssues(issues)
}
