package textacq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Detect_Capabilities(t *testing.T) {
	caps := Detect()
	assert.True(t, caps.PlainText)
	assert.True(t, caps.HTML)
	assert.True(t, caps.PDF)
	assert.False(t, caps.Images, "no OCR in this build")
}

func Test_FromFile_PlainText(t *testing.T) {
	path := writeFile(t, "factura.txt", "FACTURA COMERCIAL\nExportación de cerezas frescas")

	result := FromFile(path, "text/plain")

	assert.Equal(t, "plain", result.Method)
	assert.Contains(t, result.Text, "cerezas frescas")
	assert.Greater(t, result.Confidence, 0.6)
}

func Test_FromFile_PlainTextNFKCNormalised(t *testing.T) {
	// "ﬁtosanitario" with the U+FB01 ligature folds to plain "fi"
	path := writeFile(t, "cert.txt", "certificado ﬁtosanitario")

	result := FromFile(path, "text/plain")
	assert.Contains(t, result.Text, "fitosanitario")
}

func Test_FromFile_HTML(t *testing.T) {
	doc := `<html><head><title>skip me</title><style>p{color:red}</style></head>
<body><h1>PACKING LIST</h1><table><tr><td>Contenedor</td><td>MSCU1234567</td></tr></table></body></html>`
	path := writeFile(t, "packing.html", doc)

	result := FromFile(path, "text/html")

	assert.Equal(t, "html", result.Method)
	assert.Contains(t, result.Text, "PACKING LIST")
	assert.Contains(t, result.Text, "MSCU1234567")
	assert.NotContains(t, result.Text, "skip me")
	assert.NotContains(t, result.Text, "color:red")
}

func Test_FromFile_HTMLTableRowsKeepStructure(t *testing.T) {
	doc := `<table><tr><td>Peso neto</td></tr><tr><td>Peso bruto</td></tr></table>`
	path := writeFile(t, "t.html", doc)

	result := FromFile(path, "")
	lines := strings.Split(strings.TrimSpace(result.Text), "\n")
	assert.GreaterOrEqual(t, len(lines), 2, "rows split onto lines")
}

func Test_FromFile_ImageDegradesToEmpty(t *testing.T) {
	path := writeFile(t, "scan.png", "not really a png")

	result := FromFile(path, "image/png")
	assert.Equal(t, "none", result.Method)
	assert.Empty(t, result.Text)
	assert.Zero(t, result.Confidence)
}

func Test_FromFile_MissingFileDegradesToEmpty(t *testing.T) {
	for _, name := range []string{"gone.txt", "gone.html", "gone.pdf"} {
		result := FromFile(filepath.Join(t.TempDir(), name), "")
		assert.Equal(t, "none", result.Method, name)
		assert.Empty(t, result.Text, name)
	}
}

func Test_FromFile_CorruptPDFDegradesToEmpty(t *testing.T) {
	path := writeFile(t, "broken.pdf", "%PDF-1.4 garbage")

	result := FromFile(path, "application/pdf")
	assert.Equal(t, "none", result.Method)
	assert.Empty(t, result.Text)
}

func Test_EstimateConfidence(t *testing.T) {
	assert.Zero(t, EstimateConfidence(""))
	assert.Zero(t, EstimateConfidence("   "))

	wordy := EstimateConfidence("certificado fitosanitario exportación cerezas")
	noisy := EstimateConfidence("a b c xy certificado")
	assert.Greater(t, wordy, noisy)
	assert.LessOrEqual(t, wordy, 0.95)
	assert.GreaterOrEqual(t, noisy, 0.6)
}
