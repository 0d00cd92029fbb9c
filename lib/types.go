package lib

import "strings"

// EntityKind enumerates the field types the extractor can produce.
type EntityKind string

const (
	EntityIncoterm  EntityKind = "incoterm"
	EntityHSCode    EntityKind = "hs_code"
	EntityContainer EntityKind = "container"
	EntityBLNumber  EntityKind = "bl_number"
	EntityCurrency  EntityKind = "currency"
	EntityAmount    EntityKind = "amount"
)

// ExtractedEntity is a single typed field detected in the document text.
// At most one entity per kind is produced in a processing run.
type ExtractedEntity struct {
	Type       EntityKind `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	Page       int        `json:"page"`
}

// Keyword is a ranked keyword. Entities contribute synthetic keywords with
// score 1.0 ahead of frequency-derived ones.
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a compliance or spellcheck finding. Field is empty when the
// finding is not tied to a specific field.
type Issue struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Field    string   `json:"field"`
}

// ProcessingResult is the aggregate pipeline output for one document.
type ProcessingResult struct {
	Language        string            `json:"language"`
	DocType         string            `json:"doc_type"`
	Entities        []ExtractedEntity `json:"entities"`
	Keywords        []Keyword         `json:"keywords"`
	Compliance      []Issue           `json:"compliance"`
	Spellcheck      []Issue           `json:"spellcheck"`
	Recommendations []string          `json:"recommendations"`
}

// DedupeStrings removes case-insensitive, whitespace-trimmed duplicates,
// keeping first occurrences and their original spelling.
func DedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// DedupeIssues removes issues whose trimmed, case-folded title duplicates an
// earlier one.
func DedupeIssues(in []Issue) []Issue {
	seen := make(map[string]struct{}, len(in))
	out := make([]Issue, 0, len(in))
	for _, issue := range in {
		key := strings.ToLower(strings.TrimSpace(issue.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, issue)
	}
	return out
}
