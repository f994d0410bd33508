package extract

import "strings"

// SectionedStrategy wraps the other strategies per detected section,
// attaching the section's department to every candidate found inside it.
type SectionedStrategy struct {
	inner []Strategy
}

func (s *SectionedStrategy) Name() string { return "sectioned" }

func (s *SectionedStrategy) Detect(profile *StructureProfile) float64 {
	if len(profile.Sections) == 0 {
		return 0
	}
	score := profile.Scores[StructureSectioned]
	if profile.Type == StructureSectioned && score < 0.6 {
		score = 0.6
	}
	return score
}

func (s *SectionedStrategy) Extract(lines []Line, profile *StructureProfile) []CandidateContact {
	var candidates []CandidateContact

	for _, section := range profile.Sections {
		sectionLines := linesForIndices(lines, section.Lines)
		if len(sectionLines) == 0 {
			continue
		}

		// Each section is reclassified independently: a CREW section may be
		// slash-delimited while the TALENT section below it is tabular.
		subProfile := DetectStructure(sectionLines)
		inner := s.pickInner(&subProfile)
		extracted := inner.Extract(sectionLines, &subProfile)

		for i := range extracted {
			if extracted[i].Department == "" && section.Department != "" {
				extracted[i].SetField("department", section.Department, section.StartLine)
			}
			extracted[i].Strategy = s.Name() + "/" + extracted[i].Strategy
		}
		candidates = append(candidates, extracted...)
	}

	return candidates
}

// pickInner chooses the best applicable inner strategy for one section.
func (s *SectionedStrategy) pickInner(subProfile *StructureProfile) Strategy {
	var (
		best      Strategy
		bestScore float64
	)
	for _, inner := range s.inner {
		if score := inner.Detect(subProfile); best == nil || score > bestScore {
			best, bestScore = inner, score
		}
	}
	if best == nil || bestScore <= 0 {
		return &FreeformStrategy{}
	}
	return best
}

// FreeformStrategy runs the field extractors against raw lines with no
// structural assumptions. It anchors on contact tokens (email/phone) and
// pulls the remaining fields from the proximity window.
type FreeformStrategy struct{}

func (s *FreeformStrategy) Name() string { return "freeform" }

func (s *FreeformStrategy) Detect(profile *StructureProfile) float64 {
	if profile.Type == StructureFreeform {
		return 0.6
	}
	return 0.25
}

func (s *FreeformStrategy) Extract(lines []Line, profile *StructureProfile) []CandidateContact {
	var candidates []CandidateContact

	for pos, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if _, isHeader := lookupSectionHeader(text); isHeader {
			continue
		}

		email := ExtractEmail(text)
		phone := ExtractPhone(text)
		name := ExtractName(text)

		// Anchor on something identifying; prose lines with neither a
		// contact token nor a name yield nothing.
		if email == "" && phone == "" && name == "" {
			continue
		}

		c := CandidateContact{Strategy: s.Name()}
		c.SetField("email", email, line.Index)
		c.SetField("phone", phone, line.Index)
		c.SetField("name", name, line.Index)

		// Proximity searches walk slice positions; lines may be a section
		// subset whose .Index values are document-global.
		if c.Name == "" {
			if v, p := findNearby(lines, pos, nameOnlyLine); v != "" {
				c.SetField("name", v, lines[p].Index)
			}
		}
		if role := ExtractRole(text); role != "" {
			c.SetField("role", role, line.Index)
		} else if v, p := findNearby(lines, pos, roleOnlyLine); v != "" {
			c.SetField("role", v, lines[p].Index)
		}
		if c.Company == "" && c.Email != "" {
			c.SetField("company", CompanyFromEmail(c.Email), line.Index)
		}
		if c.Company == "" {
			c.SetField("company", ExtractCompanySpan(text, c.Name, c.Role), line.Index)
		}

		if hasAnyContactSignal(c) {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// nameOnlyLine returns a name when the entire line is one capitalized run,
// the usual shape of a name sitting on its own line above contact details.
func nameOnlyLine(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if run := capitalizedRunRE.FindString(text); run == text && looksLikeName(text) {
		return normalizeName(text)
	}
	if isAllCapsName(text) {
		return titleCase(text)
	}
	return ""
}

// roleOnlyLine returns a role when the entire line is a vocabulary title.
func roleOnlyLine(text string) string {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	for _, role := range roleVocabulary {
		if lower == role {
			return titleCase(role)
		}
	}
	return ""
}
