package compliance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/inovadocs/export-compliance/lib/doctype"
	"github.com/inovadocs/export-compliance/lib/knowledge"
)

// cleanText carries every domain signal so no rule fires from it.
const cleanText = "Exportación de cerezas frescas. Certificado fitosanitario SAG vigente. " +
	"Cadena de frío a 0°C con precool. Venta FOB Valparaíso. Montos en USD."

var cleanEntities = []lib.ExtractedEntity{
	{Type: lib.EntityHSCode, Value: "08092900", Confidence: 0.9, Page: 1},
	{Type: lib.EntityIncoterm, Value: "FOB", Confidence: 0.92, Page: 1},
	{Type: lib.EntityCurrency, Value: "USD", Confidence: 0.8, Page: 1},
}

func issueFields(issues []lib.Issue) []string {
	var fields []string
	for _, issue := range issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func findByField(issues []lib.Issue, field string) (lib.Issue, bool) {
	for _, issue := range issues {
		if issue.Field == field {
			return issue, true
		}
	}
	return lib.Issue{}, false
}

func testKB(t *testing.T) *knowledge.Base {
	t.Helper()
	return knowledge.Load(
		filepath.Join("..", "..", "guides", "exportacion_cerezas_extraction_schema.json"),
		filepath.Join("..", "..", "guides", "exportacion_cerezas_kb.json"),
	)
}

func Test_EvaluateDomain_CleanDocument(t *testing.T) {
	issues := EvaluateDomain(cleanText, doctype.FacturaComercial, cleanEntities)

	for _, field := range []string{"hs_code", "product", "sag", "temperature", "incoterm", "currency"} {
		_, found := findByField(issues, field)
		assert.False(t, found, field)
	}
}

func Test_EvaluateDomain_MissingEverything(t *testing.T) {
	issues := EvaluateDomain("texto sin señales", "", nil)

	fields := issueFields(issues)
	for _, field := range []string{"hs_code", "product", "sag", "temperature", "incoterm", "currency"} {
		assert.Contains(t, fields, field)
	}
	for _, issue := range issues {
		assert.Equal(t, lib.SeverityWarning, issue.Severity, issue.Field)
	}
}

func Test_EvaluateDomain_WrongHSCodeIsError(t *testing.T) {
	entities := []lib.ExtractedEntity{{Type: lib.EntityHSCode, Value: "847130"}}

	issues := EvaluateDomain(cleanText, doctype.FacturaComercial, entities)

	issue, found := findByField(issues, "hs_code")
	assert.True(t, found)
	assert.Equal(t, lib.SeverityError, issue.Severity)
	assert.Contains(t, issue.Detail, "847130")
}

func Test_EvaluateDomain_CherryPrefixesAccepted(t *testing.T) {
	for _, code := range []string{"080921", "080929", "08092100", "08092900"} {
		issues := EvaluateDomain(cleanText, "", []lib.ExtractedEntity{{Type: lib.EntityHSCode, Value: code}})
		_, found := findByField(issues, "hs_code")
		assert.False(t, found, code)
	}
}

func Test_EvaluateDomain_UnusualIncotermAndCurrency(t *testing.T) {
	entities := []lib.ExtractedEntity{
		{Type: lib.EntityIncoterm, Value: "EXW"},
		{Type: lib.EntityCurrency, Value: "CLP"},
	}

	issues := EvaluateDomain(cleanText, "", entities)

	incoterm, found := findByField(issues, "incoterm")
	assert.True(t, found)
	assert.Contains(t, incoterm.Detail, "EXW")

	currency, found := findByField(issues, "currency")
	assert.True(t, found)
	assert.Contains(t, currency.Detail, "CLP")
}

func Test_EvaluateDomain_ContainerAndBLRulesAreTypeScoped(t *testing.T) {
	// container rule fires for packing lists and BLs only
	for _, docType := range []string{doctype.PackingList, doctype.BL} {
		issues := EvaluateDomain(cleanText, docType, cleanEntities)
		_, found := findByField(issues, "container")
		assert.True(t, found, docType)
	}
	issues := EvaluateDomain(cleanText, doctype.FacturaComercial, cleanEntities)
	_, found := findByField(issues, "container")
	assert.False(t, found)

	// bl_number rule fires for BLs only
	issues = EvaluateDomain(cleanText, doctype.BL, cleanEntities)
	blIssue, found := findByField(issues, "bl_number")
	assert.True(t, found)
	assert.Equal(t, lib.SeverityWarning, blIssue.Severity)

	issues = EvaluateDomain(cleanText, doctype.PackingList, cleanEntities)
	_, found = findByField(issues, "bl_number")
	assert.False(t, found)
}

func Test_EvaluateSchema_MissingRequiredFields(t *testing.T) {
	kb := testKB(t)

	text := "BILL OF LADING. Consignee: Importadora XYZ. Peso bruto 25.400 kg."
	issues := EvaluateSchema(text, doctype.BL, kb)

	fields := issueFields(issues)
	assert.Contains(t, fields, "puerto_origen")
	assert.Contains(t, fields, "puerto_destino")
	assert.NotContains(t, fields, "consignee")
	assert.NotContains(t, fields, "peso_bruto")
	assert.NotContains(t, fields, "numero_bl", "the bl hint matches the heading")

	for _, issue := range issues {
		assert.Equal(t, lib.SeverityWarning, issue.Severity)
		assert.True(t, strings.HasPrefix(issue.Title, "Campo esperado: "), issue.Title)
	}
}

func Test_EvaluateSchema_UnknownTypeProducesNothing(t *testing.T) {
	kb := testKB(t)
	assert.Empty(t, EvaluateSchema("cualquier texto", "", kb))
	assert.Empty(t, EvaluateSchema("cualquier texto", "tipo_desconocido", kb))
}

func Test_EvaluateSchema_OptionalFieldsNeverFlagged(t *testing.T) {
	kb := testKB(t)
	issues := EvaluateSchema("", doctype.PackingList, kb)
	fields := issueFields(issues)
	assert.NotContains(t, fields, "variedad")
}

func Test_Evaluate_SchemaIssuesComeFirst(t *testing.T) {
	kb := testKB(t)

	issues := Evaluate("", doctype.BL, nil, kb)
	assert.NotEmpty(t, issues)
	assert.True(t, strings.HasPrefix(issues[0].Title, "Campo esperado: "))

	var sawDomain bool
	for _, issue := range issues {
		if !strings.HasPrefix(issue.Title, "Campo esperado: ") {
			sawDomain = true
		} else {
			assert.False(t, sawDomain, "schema issue after a domain issue")
		}
	}
}

func Test_Evaluate_SurvivesEmptyKnowledgeBase(t *testing.T) {
	issues := Evaluate("", "", nil, knowledge.Empty())
	assert.NotEmpty(t, issues, "domain rules still fire")
}

func Test_FieldHintFallback(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	assert.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"schemas": {"bl": {"fields": [{"name": "sello_naviera", "required": true}]}}
	}`), 0o644))
	kb := knowledge.Load(schemaPath, "")

	assert.Empty(t, EvaluateSchema("el sello naviera aparece", "bl", kb))
	assert.Len(t, EvaluateSchema("sin el dato", "bl", kb), 1)
}
