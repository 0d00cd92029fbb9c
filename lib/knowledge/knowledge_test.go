package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validSchemaJSON = `{
  "schemas": {
    "bl": {
      "fields": [
        {"name": "numero_bl", "required": true},
        {"name": "variedad", "required": false}
      ]
    }
  }
}`

const validCatalogJSON = `{
  "document_types": [
    {
      "id": "bl",
      "name": "Bill of Lading",
      "cross_checks": [{"against": "packing_list", "fields": ["peso_bruto"]}],
      "common_errors": ["El contenedor difiere entre BL y packing list."]
    }
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Load(t *testing.T) {
	base := Load(
		writeTemp(t, "schema.json", validSchemaJSON),
		writeTemp(t, "kb.json", validCatalogJSON),
	)

	schema, ok := base.Schema("bl")
	assert.True(t, ok)
	assert.Len(t, schema.Fields, 2)
	assert.True(t, schema.Fields[0].Required)

	k, ok := base.Knowledge("bl")
	assert.True(t, ok)
	assert.Equal(t, "Bill of Lading", k.Name)
	assert.Len(t, k.CrossChecks, 1)
	assert.Equal(t, "packing_list", k.CrossChecks[0].Against)

	assert.True(t, base.KnownType("bl"))
	assert.False(t, base.KnownType("factura_comercial"))
}

func Test_Load_MissingFilesDegradeToEmpty(t *testing.T) {
	base := Load("/nonexistent/schema.json", "/nonexistent/kb.json")

	_, ok := base.Schema("bl")
	assert.False(t, ok)
	_, ok = base.Knowledge("bl")
	assert.False(t, ok)
}

func Test_Load_MalformedFilesDegradeToEmpty(t *testing.T) {
	base := Load(
		writeTemp(t, "schema.json", `{"schemas": "not-an-object"}`),
		writeTemp(t, "kb.json", `{not json`),
	)

	_, ok := base.Schema("bl")
	assert.False(t, ok)
	_, ok = base.Knowledge("bl")
	assert.False(t, ok)
}

func Test_Load_FilesDegradeIndependently(t *testing.T) {
	base := Load(
		"/nonexistent/schema.json",
		writeTemp(t, "kb.json", validCatalogJSON),
	)

	_, ok := base.Schema("bl")
	assert.False(t, ok)
	_, ok = base.Knowledge("bl")
	assert.True(t, ok)
}

func Test_Label(t *testing.T) {
	base := Load(
		writeTemp(t, "schema.json", validSchemaJSON),
		writeTemp(t, "kb.json", validCatalogJSON),
	)

	assert.Equal(t, "Bill of Lading", base.Label("bl"))
	assert.Equal(t, "Factura Comercial", base.Label("factura_comercial"), "fallback title-cases the id")
}

func Test_Load_CatalogEntriesWithoutIDAreSkipped(t *testing.T) {
	base := Load("", writeTemp(t, "kb.json", `{"document_types": [{"id": "", "name": "X"}]}`))
	_, ok := base.Knowledge("")
	assert.False(t, ok)
}

func Test_RepositoryGuides(t *testing.T) {
	// the resources shipped in guides/ must load cleanly
	base := Load(
		filepath.Join("..", "..", "guides", "exportacion_cerezas_extraction_schema.json"),
		filepath.Join("..", "..", "guides", "exportacion_cerezas_kb.json"),
	)

	for _, id := range []string{"factura_comercial", "packing_list", "bl", "certificado_fitosanitario", "dus"} {
		_, ok := base.Schema(id)
		assert.True(t, ok, id)
	}
	_, ok := base.Knowledge("certificado_origen")
	assert.True(t, ok)
}
