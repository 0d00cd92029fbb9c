package spell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Check_FlagsNearMisses(t *testing.T) {
	checker := NewChecker(nil)

	issues := checker.Check("certificado fitosanitaria para exportasión de cerezzas")

	var titles []string
	for _, issue := range issues {
		assert.Equal(t, "warning", string(issue.Severity))
		titles = append(titles, issue.Title)
	}
	assert.Contains(t, strings.Join(titles, "\n"), "cerezzas")
}

func Test_Check_IgnoresDictionaryTerms(t *testing.T) {
	checker := NewChecker(nil)
	assert.Empty(t, checker.Check("cerezas frescas variedad calibre contenedor"))
}

func Test_Check_IgnoresLegitimateUnknownTokens(t *testing.T) {
	checker := NewChecker(nil)
	// proper nouns with no close dictionary neighbour must not be flagged
	assert.Empty(t, checker.Check("Valparaiso Shanghai Santina ONEY"))
}

func Test_Check_IgnoresShortAndNumericTokens(t *testing.T) {
	checker := NewChecker(nil)
	assert.Empty(t, checker.Check("BL 123456 08092900 y el de"))
}

func Test_Check_DedupAndCap(t *testing.T) {
	checker := NewChecker(nil)

	repeated := strings.Repeat("cerezzas ", 20)
	issues := checker.Check(repeated)
	assert.Len(t, issues, 1, "same offending token reported once")

	many := "cerezzas fitosanitaria facturra temperatur incotern embalage embarqe varieda"
	assert.LessOrEqual(t, len(checker.Check(many)), 8)
}

func Test_NewChecker_CustomTerms(t *testing.T) {
	checker := NewChecker([]string{"precooling"})
	issues := checker.Check("precoling completado")
	assert.Len(t, issues, 1)
	assert.Contains(t, issues[0].Detail, "precooling")
}

func Test_LoadTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.yml")
	assert.NoError(t, os.WriteFile(path, []byte("terms:\n  - precooling\n"), 0o644))

	checker := LoadTerms(path)
	assert.NotEmpty(t, checker.Check("precoling"))
	assert.Empty(t, checker.Check("cerezas"), "built-in terms are kept")
}

func Test_LoadTerms_MissingFileFallsBack(t *testing.T) {
	checker := LoadTerms("/nonexistent/terms.yml")
	assert.Empty(t, checker.Check("cerezas frescas"))
}
