// Package extract implements the adaptive contact extraction engine for
// crewcall.
//
// The engine turns unstructured or semi-structured production documents
// ("call sheets") into normalized contact records without requiring a schema
// or an external service:
//   - Structure detection (tabular, slash-delimited, key-value, sectioned, freeform)
//   - Multi-strategy field extraction (name, email, phone, role, company, department)
//   - Confidence scoring with document/production context multipliers
//   - Per-field validation with blocking reasons and non-blocking warnings
//   - Fuzzy deduplication that merges candidates denoting the same person
//
// Every contact links back to the line indices that produced it for full
// traceability. The pipeline is deterministic: the same input and options
// always yield the same output.
package extract

import (
	"sort"
	"strings"
)

// ConfidenceLevel buckets a confidence score for callers that want a coarse
// quality signal instead of a float.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"     // >= 0.8
	ConfidenceMedium  ConfidenceLevel = "medium"   // >= 0.6
	ConfidenceLow     ConfidenceLevel = "low"      // >= 0.4
	ConfidenceVeryLow ConfidenceLevel = "very_low" // < 0.4
)

// LevelFor buckets a 0.0–1.0 confidence score.
func LevelFor(score float64) ConfidenceLevel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	case score >= 0.4:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// DocumentType is light metadata produced by an upstream classifier.
// Unknown is always a safe default.
type DocumentType string

const (
	DocCallSheet   DocumentType = "call_sheet"
	DocContactList DocumentType = "contact_list"
	DocCrewList    DocumentType = "crew_list"
	DocUnknown     DocumentType = "unknown"
)

// ProductionType is light metadata describing the production the document
// belongs to.
type ProductionType string

const (
	ProdCommercial ProductionType = "commercial"
	ProdEditorial  ProductionType = "editorial"
	ProdFilm       ProductionType = "film"
	ProdTelevision ProductionType = "television"
	ProdMusicVideo ProductionType = "music_video"
	ProdUnknown    ProductionType = "unknown"
)

// Line is one unit of input: the text content and its 0-based index into the
// document. Lines are created once at ingestion and never mutated; context
// lookups walk the shared line slice.
type Line struct {
	Text  string
	Index int
}

// SplitLines normalizes line endings and builds the immutable line array the
// rest of the pipeline operates on.
func SplitLines(text string) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, t := range raw {
		lines[i] = Line{Text: t, Index: i}
	}
	return lines
}

// CandidateContact is a provisional extraction. Many candidates may describe
// the same real person; the merger collapses them later.
type CandidateContact struct {
	Name       string
	Email      string
	Phone      string
	Role       string
	Company    string
	Department string

	// SourceLines records which line indices produced which field.
	SourceLines map[string][]int

	// Strategy names the extractor that produced this candidate.
	Strategy string
}

// SetField assigns a field value and records its provenance. Empty values are
// ignored so partial extractors can call it unconditionally.
func (c *CandidateContact) SetField(field, value string, lineIdx int) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch field {
	case "name":
		c.Name = value
	case "email":
		c.Email = value
	case "phone":
		c.Phone = value
	case "role":
		c.Role = value
	case "company":
		c.Company = value
	case "department":
		c.Department = value
	default:
		return
	}
	if c.SourceLines == nil {
		c.SourceLines = make(map[string][]int)
	}
	c.SourceLines[field] = appendLineIndex(c.SourceLines[field], lineIdx)
}

// FieldCount returns how many of the five scored fields are populated.
// Department is positional metadata, not a scored field.
func (c *CandidateContact) FieldCount() int {
	n := 0
	for _, v := range []string{c.Name, c.Email, c.Phone, c.Role, c.Company} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// AllSourceLines returns the sorted union of every line index that
// contributed a field to this candidate.
func (c *CandidateContact) AllSourceLines() []int {
	seen := make(map[int]struct{})
	for _, idxs := range c.SourceLines {
		for _, i := range idxs {
			seen[i] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func appendLineIndex(idxs []int, idx int) []int {
	if idx < 0 {
		return idxs
	}
	for _, existing := range idxs {
		if existing == idx {
			return idxs
		}
	}
	return append(idxs, idx)
}

// ScoredContact pairs a candidate with its computed confidence. Confidence is
// a pure function of the contact fields and the document context — it is
// recomputed whenever fields change, never cached stale.
type ScoredContact struct {
	CandidateContact
	Confidence float64
	Level      ConfidenceLevel
}

// Validation carries the validator's verdict for one contact. Reasons block;
// warnings are soft quality signals.
type Validation struct {
	IsValid      bool
	Reasons      []string
	Warnings     []string
	QualityScore float64
}

// ValidatedContact is a scored contact annotated with validation results.
type ValidatedContact struct {
	ScoredContact
	Validation Validation
}

// Contact is the merged, deduplicated output record — the only type exposed
// across the engine boundary. One Contact per real-world person.
type Contact struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role,omitempty"`
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`

	// ReportsTo is a lightweight relationship hint attached by the linking
	// pass (e.g. a "1st Assistant" pointing at the preceding department head).
	ReportsTo string `json:"reports_to,omitempty"`

	Confidence float64         `json:"confidence"`
	Level      ConfidenceLevel `json:"confidence_level"`

	// SourceLines is the union of all line indices that contributed to this
	// contact, across every merged candidate.
	SourceLines []int `json:"source_lines"`

	// Strategies lists the extractors whose candidates were merged in.
	Strategies []string `json:"strategies,omitempty"`
}

// Metadata summarizes one extraction run.
type Metadata struct {
	StructureType      string   `json:"structure_type"`
	SectionsFound      int      `json:"sections_found"`
	TotalRawCandidates int      `json:"total_raw_candidates"`
	DuplicatesRemoved  int      `json:"duplicates_removed"`
	AverageConfidence  float64  `json:"average_confidence"`
	Notes              []string `json:"notes,omitempty"`
}

// Result is the engine's output contract.
type Result struct {
	Contacts []Contact `json:"contacts"`
	Metadata Metadata  `json:"metadata"`
}

// Options are the per-call tunables. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// ConfidenceThreshold drops merged contacts scoring below it.
	ConfidenceThreshold float64

	// MinQualityScore is the validator's weighted-field-score gate.
	MinQualityScore float64

	// UseMultiPass enables the linking pass that joins facts split across
	// adjacent lines and attaches reportsTo hints.
	UseMultiPass bool

	// RolePreferences up-weights contacts whose role matches one of the
	// given strings (case-insensitive substring match).
	RolePreferences []string

	// NameSimilarity is the fuzzy-name merge threshold. The default is a
	// deliberately high bar so distinct people with similar names stay
	// separate. Tuned empirically; treat as policy, not spec.
	NameSimilarity float64

	// GarbageMarkerLimit is how many binary/PDF artifact markers the input
	// may contain before the engine refuses to guess and returns an empty
	// freeform result. Tuned empirically; treat as policy.
	GarbageMarkerLimit int

	DocumentType   DocumentType
	ProductionType ProductionType
}

// DefaultOptions returns the recommended defaults.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: 0.3,
		MinQualityScore:     0.3,
		UseMultiPass:        false,
		NameSimilarity:      0.95,
		GarbageMarkerLimit:  3,
		DocumentType:        DocUnknown,
		ProductionType:      ProdUnknown,
	}
}

// normalize fills unset numeric options with defaults so callers can set
// only the knobs they care about.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if o.MinQualityScore <= 0 {
		o.MinQualityScore = def.MinQualityScore
	}
	if o.NameSimilarity <= 0 || o.NameSimilarity > 1 {
		o.NameSimilarity = def.NameSimilarity
	}
	if o.GarbageMarkerLimit <= 0 {
		o.GarbageMarkerLimit = def.GarbageMarkerLimit
	}
	if o.DocumentType == "" {
		o.DocumentType = DocUnknown
	}
	if o.ProductionType == "" {
		o.ProductionType = ProdUnknown
	}
	return o
}

// garbageMarkers are byte sequences that indicate the "text" is really an
// undecoded binary document (raw PDF/OLE bytes pasted through). The engine
// consumes plain extracted text only; when these pile up the right move is
// to return nothing rather than hallucinate contacts from stream garbage.
var garbageMarkers = []string{
	"%PDF-",
	"endobj",
	"endstream",
	"xref",
	"/FlateDecode",
	"startxref",
	"\x00",
	"�",
}

// countGarbageMarkers counts artifact marker occurrences, capped per marker
// so one repeated token can't dominate.
func countGarbageMarkers(text string) int {
	total := 0
	for _, m := range garbageMarkers {
		n := strings.Count(text, m)
		if n > 3 {
			n = 3
		}
		total += n
	}
	return total
}
