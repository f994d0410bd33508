package extract

import (
	"regexp"
	"sort"
	"strings"
)

// StructureType classifies the overall layout of a document.
type StructureType string

const (
	StructureTabular        StructureType = "tabular"
	StructureSlashDelimited StructureType = "slash_delimited"
	StructureKeyValue       StructureType = "key_value"
	StructureSectioned      StructureType = "sectioned"
	StructureFreeform       StructureType = "freeform"
	StructureMixed          StructureType = "mixed"
)

// Section is a contiguous run of lines under a recognized header.
type Section struct {
	Header     string
	Department string
	StartLine  int
	Lines      []int
}

// StructureProfile is the detector's read-only classification of a document.
type StructureProfile struct {
	Type       StructureType
	Sections   []Section
	Confidence float64

	// Scores holds the raw per-type indicator scores, kept for strategy
	// applicability checks and diagnostics.
	Scores map[StructureType]float64
}

// mixedMargin declares "mixed" when the top two type scores land within this
// distance of each other.
const mixedMargin = 0.12

// slashContactLineRE matches the `Role: Name / Phone` family of lines common
// on photo-production call sheets.
var slashContactLineRE = regexp.MustCompile(`^[^:/]{2,40}:\s*[^/]+/\s*\S`)

// keyValueLineRE matches simple `Label: value` lines with a short label.
var keyValueLineRE = regexp.MustCompile(`^[A-Za-z][A-Za-z .&-]{0,24}:\s*\S`)

// multiSpaceRunRE detects column alignment via runs of 3+ spaces.
var multiSpaceRunRE = regexp.MustCompile(`\S {3,}\S`)

// DetectStructure runs a fixed battery of structural indicators over the
// document and classifies its layout. Detection never fails: empty or
// unrecognizable input degrades to a zero-confidence freeform profile.
func DetectStructure(lines []Line) StructureProfile {
	nonEmpty := 0
	var (
		tabLines        int
		pipeLines       int
		multiSpaceLines int
		commaLines      int
		slashLines      int
		kvLines         int
		headerLines     int
	)

	sections := detectSections(lines)

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		nonEmpty++

		if strings.Contains(text, "\t") {
			tabLines++
		}
		if strings.Count(text, "|") >= 2 {
			pipeLines++
		}
		if multiSpaceRunRE.MatchString(text) {
			multiSpaceLines++
		}
		if strings.Count(text, ",") >= 2 {
			commaLines++
		}
		if slashContactLineRE.MatchString(text) || strings.Count(text, "/") >= 2 {
			slashLines++
		}
		if keyValueLineRE.MatchString(text) && !strings.Contains(text, "/") {
			kvLines++
		}
		if _, ok := lookupSectionHeader(text); ok {
			headerLines++
		}
	}

	if nonEmpty == 0 {
		return StructureProfile{
			Type:       StructureFreeform,
			Confidence: 0,
			Scores:     map[StructureType]float64{},
		}
	}

	n := float64(nonEmpty)
	scores := map[StructureType]float64{
		// Tabs and pipes are near-certain column markers; aligned space runs
		// and comma rows are weaker evidence.
		StructureTabular: float64(tabLines)/n*1.2 +
			float64(pipeLines)/n*1.2 +
			float64(multiSpaceLines)/n*0.6 +
			float64(commaLines)/n*0.3,
		StructureSlashDelimited: float64(slashLines) / n * 1.1,
		StructureKeyValue:       float64(kvLines) / n * 0.9,
		StructureSectioned:      float64(headerLines) * 0.25,
		StructureFreeform:       0.15,
	}

	// A document with several recognized headers is sectioned even when the
	// body lines look like another type; the sectioned strategy wraps the
	// inner type per section.
	if len(sections) >= 2 {
		scores[StructureSectioned] += 0.5
	}

	best, second := topTwoScores(scores)
	profile := StructureProfile{
		Sections: sections,
		Scores:   scores,
	}

	switch {
	case scores[best] <= scores[StructureFreeform] && best != StructureFreeform:
		profile.Type = StructureFreeform
		profile.Confidence = clamp01(scores[StructureFreeform])
	case second != "" && best != StructureFreeform && second != StructureFreeform &&
		scores[best]-scores[second] < mixedMargin:
		profile.Type = StructureMixed
		profile.Confidence = clamp01(scores[best])
	default:
		profile.Type = best
		profile.Confidence = clamp01(scores[best])
	}

	return profile
}

// topTwoScores returns the two highest-scoring types, ties broken by a fixed
// type order so detection stays deterministic.
func topTwoScores(scores map[StructureType]float64) (best, second StructureType) {
	order := []StructureType{
		StructureTabular,
		StructureSlashDelimited,
		StructureKeyValue,
		StructureSectioned,
		StructureFreeform,
	}
	sorted := append([]StructureType(nil), order...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return scores[sorted[i]] > scores[sorted[j]]
	})
	best = sorted[0]
	if len(sorted) > 1 {
		second = sorted[1]
	}
	return best, second
}

// detectSections matches lines against the curated header vocabulary and
// collects following lines until the next header or end of document.
func detectSections(lines []Line) []Section {
	var sections []Section
	var current *Section

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if dept, ok := lookupSectionHeader(text); ok {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{
				Header:     strings.Trim(strings.TrimSpace(text), "-=*: "),
				Department: dept,
				StartLine:  line.Index,
			}
			continue
		}
		if current != nil && text != "" {
			current.Lines = append(current.Lines, line.Index)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
