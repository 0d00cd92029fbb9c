package extract

import (
	"testing"

	"github.com/inovadocs/export-compliance/lib"
	"github.com/stretchr/testify/assert"
)

const sampleText = "Demostración de OCR. Documento de importación/exportación con INCOTERM FOB, " +
	"HS CODE 847130, contenedor ABCD1234567 y BL BL123456789. Monto 12,345.67 USD."

func entityByKind(entities []lib.ExtractedEntity, kind lib.EntityKind) (lib.ExtractedEntity, bool) {
	for _, e := range entities {
		if e.Type == kind {
			return e, true
		}
	}
	return lib.ExtractedEntity{}, false
}

func Test_Detect_SampleDocument(t *testing.T) {
	entities := Detect(sampleText)

	expected := map[lib.EntityKind]string{
		lib.EntityIncoterm:  "FOB",
		lib.EntityHSCode:    "847130",
		lib.EntityContainer: "ABCD1234567",
		lib.EntityBLNumber:  "BL123456789",
		lib.EntityCurrency:  "USD",
		lib.EntityAmount:    "12345.67",
	}
	for kind, value := range expected {
		e, ok := entityByKind(entities, kind)
		assert.True(t, ok, string(kind))
		assert.Equal(t, value, e.Value, string(kind))
		assert.GreaterOrEqual(t, e.Confidence, 0.6, string(kind))
		assert.LessOrEqual(t, e.Confidence, 0.95, string(kind))
		assert.Equal(t, 1, e.Page, string(kind))
	}
}

func Test_Detect_OnePerKind(t *testing.T) {
	text := "INCOTERM FOB y tambien CIF. HS CODE 847130 HS CODE 080929"
	entities := Detect(text)

	seen := map[lib.EntityKind]int{}
	for _, e := range entities {
		seen[e.Type]++
	}
	for kind, count := range seen {
		assert.Equal(t, 1, count, string(kind))
	}

	incoterm, _ := entityByKind(entities, lib.EntityIncoterm)
	assert.Equal(t, "FOB", incoterm.Value)
}

func Test_Detect_EmptyText(t *testing.T) {
	assert.Empty(t, Detect(""))
}

func Test_Incoterm_LabelFallbackRepairsOCR(t *testing.T) {
	for _, test := range []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{
			name:     "zero misread as O",
			text:     "INCOTERM: F0B puerto de embarque",
			expected: "FOB",
			found:    true,
		},
		{
			name:     "one misread as I",
			text:     "Incoterms: C1F Shanghai",
			expected: "CIF",
			found:    true,
		},
		{
			name:  "label with unknown code is rejected",
			text:  "INCOTERM: XYZ",
			found: false,
		},
	} {
		e, ok := entityByKind(Detect(test.text), lib.EntityIncoterm)
		assert.Equal(t, test.found, ok, test.name)
		if test.found {
			assert.Equal(t, test.expected, e.Value, test.name)
		}
	}
}

func Test_Incoterm_DirectOutranksLabel(t *testing.T) {
	e, ok := entityByKind(Detect("Condiciones CIF. INCOTERM: F0B"), lib.EntityIncoterm)
	assert.True(t, ok)
	assert.Equal(t, "CIF", e.Value)
	assert.Equal(t, 0.92, e.Confidence)
}

func Test_HSCode_DigitsFallbackHasLowerConfidence(t *testing.T) {
	labelled, ok := entityByKind(Detect("HS CODE 08092900"), lib.EntityHSCode)
	assert.True(t, ok)

	bare, ok2 := entityByKind(Detect("partida 08092900 del arancel"), lib.EntityHSCode)
	assert.True(t, ok2)

	assert.Equal(t, labelled.Value, bare.Value)
	assert.Greater(t, labelled.Confidence, bare.Confidence)
}

func Test_HSCode_SpanishLabel(t *testing.T) {
	e, ok := entityByKind(Detect("Código HS: 080929"), lib.EntityHSCode)
	assert.True(t, ok)
	assert.Equal(t, "080929", e.Value)
}

func Test_Container_RequiresISOShape(t *testing.T) {
	_, ok := entityByKind(Detect("referencia AB1234567"), lib.EntityContainer)
	assert.False(t, ok, "two letters + seven digits is not a container")

	e, ok := entityByKind(Detect("contenedor MSCU1234567 sellado"), lib.EntityContainer)
	assert.True(t, ok)
	assert.Equal(t, "MSCU1234567", e.Value)
}

func Test_Amount_USPatternTriedFirst(t *testing.T) {
	for _, test := range []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{
			name:     "us grouping",
			text:     "TOTAL 12,345.67",
			expected: "12345.67",
			found:    true,
		},
		{
			name:     "european grouping",
			text:     "TOTAL 12.345,67",
			expected: "12345.67",
			found:    true,
		},
		{
			name:     "us wins when both shapes occur",
			text:     "1,234.56 o bien 7.654,32",
			expected: "1234.56",
			found:    true,
		},
		{
			name:  "bare integers are not amounts",
			text:  "TOTAL 1234567",
			found: false,
		},
	} {
		e, ok := entityByKind(Detect(test.text), lib.EntityAmount)
		assert.Equal(t, test.found, ok, test.name)
		if test.found {
			assert.Equal(t, test.expected, e.Value, test.name)
		}
	}
}

func Test_NormalizeAmount_Idempotent(t *testing.T) {
	for _, raw := range []string{"12,345.67", "12.345,67", "1.234.567,89", "99.50"} {
		once := NormalizeAmount(raw)
		assert.Equal(t, once, NormalizeAmount(once), raw)
	}
}

func Test_IsIncoterm_IsCurrency(t *testing.T) {
	assert.True(t, IsIncoterm("fob"))
	assert.False(t, IsIncoterm("XXX"))
	assert.True(t, IsCurrency("usd"))
	assert.False(t, IsCurrency("GBP"))
}
