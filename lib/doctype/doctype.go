// Package doctype normalises declared document types and classifies raw text
// into one of the known export document types.
package doctype

import "strings"

// Known document type ids. These are the only values Normalize and Classify
// ever return besides the empty string.
const (
	FacturaComercial         = "factura_comercial"
	PackingList              = "packing_list"
	BL                       = "bl"
	CertificadoFitosanitario = "certificado_fitosanitario"
	CertificadoOrigen        = "certificado_origen"
	DUS                      = "dus"
)

// aliases maps common declared-type spellings to canonical ids.
var aliases = map[string]string{
	"factura":           FacturaComercial,
	"invoice":           FacturaComercial,
	"commercial invoice": FacturaComercial,
	"packing":           PackingList,
	"packing list":      PackingList,
	"bill of lading":    BL,
	"fito":              CertificadoFitosanitario,
	"fitosanitario":     CertificadoFitosanitario,
	"sag":               CertificadoFitosanitario,
	"certificado de origen": CertificadoOrigen,
	"origen":                CertificadoOrigen,
	"declaracion de salida": DUS,
}

// triggerRule associates a type id with the phrases that identify it in raw
// text. Rules are evaluated in slice order and the first match wins, so more
// specific phrases must come before generic ones (OCR output frequently
// contains triggers for several types at once).
type triggerRule struct {
	id       string
	triggers []string
}

var triggerTable = []triggerRule{
	{BL, []string{"bill of lading", "conocimiento de embarque", "b/l no"}},
	{CertificadoFitosanitario, []string{"certificado fitosanitario", "phytosanitary certificate", "servicio agricola y ganadero"}},
	{CertificadoOrigen, []string{"certificado de origen", "certificate of origin"}},
	{DUS, []string{"documento unico de salida", "documento único de salida", "dus n"}},
	{PackingList, []string{"packing list", "lista de empaque", "detalle de embalaje"}},
	{FacturaComercial, []string{"factura comercial", "commercial invoice", "factura electronica", "factura electrónica", "invoice"}},
}

var knownIDs = map[string]struct{}{
	FacturaComercial:         {},
	PackingList:              {},
	BL:                       {},
	CertificadoFitosanitario: {},
	CertificadoOrigen:        {},
	DUS:                      {},
}

// IsKnown reports whether id is a canonical document type id.
func IsKnown(id string) bool {
	_, ok := knownIDs[id]
	return ok
}

// Normalize lower-cases and trims rawType, resolves aliases and passes
// through already-canonical ids. Unrecognised values normalise to "".
func Normalize(rawType string) string {
	cleaned := strings.ToLower(strings.TrimSpace(rawType))
	if cleaned == "" {
		return ""
	}
	if IsKnown(cleaned) {
		return cleaned
	}
	if id, ok := aliases[cleaned]; ok {
		return id
	}
	return ""
}

// Classify scans text for trigger phrases and returns the first matching
// type id, or "" if none match. Classification is only meant for documents
// whose type was not supplied upstream; it never overrides a known type.
func Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range triggerTable {
		for _, trigger := range rule.triggers {
			if strings.Contains(lowered, trigger) {
				return rule.id
			}
		}
	}
	return ""
}
