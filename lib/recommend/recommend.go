// Package recommend turns compliance findings into a short, deduplicated
// list of actionable recommendations, enriched with knowledge-base
// cross-checks and common-error reminders for the document type.
package recommend

import (
	"fmt"
	"strings"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/knowledge"
)

// maxRecommendations caps the output list.
const maxRecommendations = 8

// fieldCatalog maps issue field keys to their remediation sentence. Fields
// outside this catalog (e.g. schema field names) produce no direct
// recommendation; the issue itself already carries the remediation detail.
var fieldCatalog = map[string]string{
	"hs_code":     "Verifica que el código HS corresponda a cerezas frescas (0809.21 / 0809.29).",
	"product":     "Asegúrate de que el documento mencione el producto embarcado (cerezas).",
	"sag":         "Adjunta o referencia el certificado fitosanitario SAG del embarque.",
	"temperature": "Documenta la cadena de frío (0°C, precool) exigida para cerezas frescas.",
	"incoterm":    "Declara el incoterm de la operación; esta exportadora usa FOB, CIF o CFR.",
	"container":   "Registra el número de contenedor en formato ISO 6346 (ej. MSCU1234567).",
	"currency":    "Declara la moneda de los montos; la operación factura en USD o EUR.",
}

const (
	spellingRecommendation = "Corrige los posibles errores ortográficos detectados antes de presentar el documento."
	amountCurrencyNote     = "Etiqueta la moneda junto a los montos para evitar ambigüedades."
)

// Generate builds the recommendation list for one processing run.
func Generate(compliance, spellcheck []lib.Issue, entities []lib.ExtractedEntity, docTypeID string, kb *knowledge.Base) []string {
	var recs []string

	fields := map[string]struct{}{}
	for _, issue := range compliance {
		if issue.Field != "" {
			fields[issue.Field] = struct{}{}
		}
	}

	// catalog order is fixed so output is deterministic
	for _, field := range []string{"hs_code", "product", "sag", "temperature", "incoterm", "container", "currency"} {
		if _, flagged := fields[field]; flagged {
			recs = append(recs, fieldCatalog[field])
		}
	}

	if len(spellcheck) > 0 {
		recs = append(recs, spellingRecommendation)
	}

	if hasAmount(entities) {
		if _, currencyFlagged := fields["currency"]; !currencyFlagged {
			recs = append(recs, amountCurrencyNote)
		}
	}

	if k, ok := kb.Knowledge(docTypeID); ok {
		for _, check := range k.CrossChecks {
			recs = append(recs, fmt.Sprintf(
				"Verifica %s contra %s para asegurar consistencia.",
				strings.Join(check.Fields, ", "), kb.Label(check.Against)))
		}
		for _, commonError := range k.CommonErrors {
			recs = append(recs, fmt.Sprintf("Error frecuente en este tipo de documento: %s", commonError))
		}
	}

	if len(recs) == 0 {
		label := "documento"
		if docTypeID != "" {
			label = kb.Label(docTypeID)
		}
		recs = append(recs, fmt.Sprintf("Sin hallazgos automáticos; revisa manualmente el %s antes de presentarlo.", label))
	}

	recs = lib.DedupeStrings(recs)
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func hasAmount(entities []lib.ExtractedEntity) bool {
	for _, e := range entities {
		if e.Type == lib.EntityAmount {
			return true
		}
	}
	return false
}
