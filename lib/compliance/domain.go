package compliance

import (
	"fmt"
	"strings"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/doctype"
)

// Cherry tariff headings (08.09.21 sour / 08.09.29 other, plus the full
// eight-digit national openings).
var cherryHSPrefixes = []string{"080921", "080929", "08092100", "08092900"}

// Incoterms the cherry export operation actually ships under.
var expectedIncoterms = map[string]struct{}{"FOB": {}, "CIF": {}, "CFR": {}}

// Currencies the operation invoices in.
var expectedCurrencies = map[string]struct{}{"USD": {}, "EUR": {}}

var regulatoryTerms = []string{
	"sag",
	"certificado fitosanitario",
	"fitosanitario",
	"fumigación",
	"fumigacion",
	"inspección fitosanitaria",
	"inspeccion fitosanitaria",
}

var coldChainTerms = []string{
	"0°c",
	"frío",
	"frio",
	"temperatura",
	"cadena de frío",
	"cadena de frio",
	"precool",
	"reefer",
}

// EvaluateDomain applies the fixed cherry-export rule catalog. Every rule is
// evaluated independently; a document can accumulate any subset of findings.
func EvaluateDomain(text, docTypeID string, entities []lib.ExtractedEntity) []lib.Issue {
	lowered := strings.ToLower(text)
	byKind := make(map[lib.EntityKind]lib.ExtractedEntity, len(entities))
	for _, e := range entities {
		if _, ok := byKind[e.Type]; !ok {
			byKind[e.Type] = e
		}
	}

	var issues []lib.Issue
	add := func(severity lib.Severity, title, detail, field string) {
		issues = append(issues, lib.Issue{Severity: severity, Title: title, Detail: detail, Field: field})
	}

	hs, hasHS := byKind[lib.EntityHSCode]
	switch {
	case !hasHS:
		add(lib.SeverityWarning, "Código HS no detectado",
			"Agrega el código HS de cerezas frescas (0809.21 / 0809.29) al documento.", "hs_code")
	case !hasCherryPrefix(hs.Value):
		add(lib.SeverityError, "Código HS no corresponde a cerezas",
			fmt.Sprintf("El código HS detectado (%s) no pertenece a las partidas de cerezas frescas 0809.21 / 0809.29.", hs.Value), "hs_code")
	}

	if !strings.Contains(lowered, "cereza") && !strings.Contains(lowered, "cerezas") {
		add(lib.SeverityWarning, "Producto no mencionado",
			"El documento no menciona el producto (cerezas); verifica que corresponda al embarque.", "product")
	}

	if !containsAny(lowered, regulatoryTerms) {
		add(lib.SeverityWarning, "Sin referencia regulatoria SAG",
			"No se encontró referencia al SAG ni al certificado fitosanitario; confirma la certificación del embarque.", "sag")
	}

	if !containsAny(lowered, coldChainTerms) {
		add(lib.SeverityWarning, "Sin referencia a cadena de frío",
			"No hay menciones de temperatura ni cadena de frío (0°C, precool); las cerezas frescas la requieren.", "temperature")
	}

	if incoterm, ok := byKind[lib.EntityIncoterm]; ok {
		if _, expected := expectedIncoterms[strings.ToUpper(incoterm.Value)]; !expected {
			add(lib.SeverityWarning, "Incoterm inusual para esta operación",
				fmt.Sprintf("El incoterm detectado (%s) no es FOB, CIF ni CFR; confirma las condiciones de venta.", incoterm.Value), "incoterm")
		}
	} else {
		add(lib.SeverityWarning, "Incoterm no detectado",
			"Agrega el incoterm de la operación (FOB, CIF o CFR).", "incoterm")
	}

	if docTypeID == doctype.PackingList || docTypeID == doctype.BL {
		if _, ok := byKind[lib.EntityContainer]; !ok {
			add(lib.SeverityWarning, "Número de contenedor no detectado",
				"Este tipo de documento debe indicar el número de contenedor (formato ISO 6346, ej. MSCU1234567).", "container")
		}
	}

	if docTypeID == doctype.BL {
		if _, ok := byKind[lib.EntityBLNumber]; !ok {
			add(lib.SeverityWarning, "Número de BL no detectado",
				"El bill of lading debe indicar su número de documento.", "bl_number")
		}
	}

	if currency, ok := byKind[lib.EntityCurrency]; ok {
		if _, expected := expectedCurrencies[strings.ToUpper(currency.Value)]; !expected {
			add(lib.SeverityWarning, "Moneda inusual para esta operación",
				fmt.Sprintf("La moneda detectada (%s) no es USD ni EUR; confirma la moneda de facturación.", currency.Value), "currency")
		}
	} else {
		add(lib.SeverityWarning, "Moneda no detectada",
			"Indica la moneda de los montos del documento (USD o EUR).", "currency")
	}

	return issues
}

func hasCherryPrefix(hsCode string) bool {
	for _, prefix := range cherryHSPrefixes {
		if strings.HasPrefix(hsCode, prefix) {
			return true
		}
	}
	return false
}

func containsAny(lowered string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
