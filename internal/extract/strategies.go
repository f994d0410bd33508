package extract

import (
	"regexp"
	"strings"
)

// --- Tabular ---

// TabularStrategy handles documents laid out as columns: tab-separated,
// pipe tables, or space-aligned sheets. Columns are mapped by header match
// when a header row exists, by content sniffing otherwise.
type TabularStrategy struct{}

func (s *TabularStrategy) Name() string { return "tabular" }

func (s *TabularStrategy) Detect(profile *StructureProfile) float64 {
	score := profile.Scores[StructureTabular]
	if profile.Type == StructureTabular && score < 0.6 {
		score = 0.6
	}
	return score
}

var spaceColumnSplitRE = regexp.MustCompile(` {3,}`)

// tableSeparatorRE matches markdown-style separator rows (|---|---|).
var tableSeparatorRE = regexp.MustCompile(`^[|:\-\s+=]+$`)

func (s *TabularStrategy) Extract(lines []Line, profile *StructureProfile) []CandidateContact {
	delim := detectColumnDelimiter(lines)
	if delim == "" {
		return nil
	}

	var (
		candidates []CandidateContact
		columnMap  map[int]string
	)

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" || tableSeparatorRE.MatchString(text) {
			continue
		}

		cells := splitColumns(text, delim)
		if len(cells) < 2 {
			continue
		}

		if columnMap == nil {
			if m := mapHeaderRow(cells); m != nil {
				columnMap = m
				continue // header row itself holds no contact
			}
		}

		c := CandidateContact{Strategy: s.Name()}
		if columnMap != nil {
			for i, cell := range cells {
				field, ok := columnMap[i]
				if !ok {
					continue
				}
				c.SetField(field, normalizeCellValue(field, cell), line.Index)
			}
		} else {
			fillFromSniffedCells(&c, cells, line.Index)
		}

		if hasAnyContactSignal(c) {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// detectColumnDelimiter picks the dominant column marker for the document.
func detectColumnDelimiter(lines []Line) string {
	tabs, pipes, spaces := 0, 0, 0
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, "\t") {
			tabs++
		}
		if strings.Count(text, "|") >= 2 {
			pipes++
		}
		if spaceColumnSplitRE.MatchString(text) {
			spaces++
		}
	}
	switch {
	case tabs >= pipes && tabs >= spaces && tabs > 0:
		return "\t"
	case pipes >= spaces && pipes > 0:
		return "|"
	case spaces > 0:
		return "space"
	}
	return ""
}

func splitColumns(text, delim string) []string {
	var parts []string
	switch delim {
	case "\t":
		parts = strings.Split(text, "\t")
	case "|":
		parts = strings.Split(strings.Trim(text, "|"), "|")
	default:
		parts = spaceColumnSplitRE.Split(text, -1)
	}
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// mapHeaderRow returns a column→field map when at least two cells look like
// recognized column headers.
func mapHeaderRow(cells []string) map[int]string {
	m := make(map[int]string)
	for i, cell := range cells {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := tableHeaderFields[key]; ok {
			m[i] = field
		}
	}
	if len(m) < 2 {
		return nil
	}
	return m
}

// normalizeCellValue applies per-field normalization to a mapped cell.
func normalizeCellValue(field, cell string) string {
	cell = strings.TrimSpace(cell)
	switch field {
	case "phone":
		return NormalizePhone(cell)
	case "name":
		return normalizeName(cell)
	default:
		return cell
	}
}

// fillFromSniffedCells assigns headerless columns by content.
func fillFromSniffedCells(c *CandidateContact, cells []string, lineIdx int) {
	for _, cell := range cells {
		switch {
		case c.Email == "" && ExtractEmail(cell) != "":
			c.SetField("email", ExtractEmail(cell), lineIdx)
		case c.Phone == "" && ExtractPhone(cell) != "":
			c.SetField("phone", ExtractPhone(cell), lineIdx)
		case c.Role == "" && roleCellMatch(cell) != "":
			c.SetField("role", roleCellMatch(cell), lineIdx)
		case c.Name == "" && nameCellMatch(cell) != "":
			c.SetField("name", nameCellMatch(cell), lineIdx)
		case c.Company == "" && hasCompanyMarker(cell):
			c.SetField("company", normalizeName(cell), lineIdx)
		}
	}
}

func roleCellMatch(cell string) string {
	lower := strings.ToLower(strings.TrimSpace(cell))
	for _, role := range roleVocabulary {
		if lower == role {
			return titleCase(role)
		}
	}
	return ""
}

func nameCellMatch(cell string) string {
	cell = strings.TrimSpace(cell)
	if run := capitalizedRunRE.FindString(cell); run == cell && looksLikeName(cell) {
		return normalizeName(cell)
	}
	if isAllCapsName(cell) {
		return titleCase(cell)
	}
	return ""
}

// --- Slash-delimited ---

// SlashDelimitedStrategy handles `Role: Name / Company / Phone` lines, the
// dominant layout on photo-production call sheets. Each matching line yields
// one candidate.
type SlashDelimitedStrategy struct{}

func (s *SlashDelimitedStrategy) Name() string { return "slash_delimited" }

func (s *SlashDelimitedStrategy) Detect(profile *StructureProfile) float64 {
	score := profile.Scores[StructureSlashDelimited]
	if profile.Type == StructureSlashDelimited && score < 0.6 {
		score = 0.6
	}
	return score
}

func (s *SlashDelimitedStrategy) Extract(lines []Line, profile *StructureProfile) []CandidateContact {
	var candidates []CandidateContact

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if _, isHeader := lookupSectionHeader(text); isHeader {
			continue
		}

		rolePart, rest, hasPrefix := rolePrefixParts(text)
		if !hasPrefix && !strings.Contains(text, "/") {
			continue
		}
		if !hasPrefix {
			rest = text
		}

		c := CandidateContact{Strategy: s.Name()}
		if hasPrefix {
			if _, isKVLabel := keyValueFieldLabels[strings.ToLower(rolePart)]; isKVLabel {
				// "Email: x@y.com" is a key-value line, not a role prefix.
			} else if role, ok := matchRoleVocabulary(rolePart); ok {
				c.SetField("role", role, line.Index)
			} else if !looksLikeName(rolePart) || len(strings.Fields(rolePart)) == 1 {
				c.SetField("role", titleCase(rolePart), line.Index)
			}
		}

		segments := strings.Split(rest, "/")
		for i, seg := range segments {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			if email := ExtractEmail(seg); email != "" && c.Email == "" {
				c.SetField("email", email, line.Index)
				continue
			}
			if phone := ExtractPhone(seg); phone != "" && c.Phone == "" {
				c.SetField("phone", phone, line.Index)
				continue
			}
			if i == 0 && c.Name == "" {
				if name := nameFromSegment(seg); name != "" {
					c.SetField("name", name, line.Index)
					continue
				}
			}
			if c.Company == "" && hasAgencyMarker(seg) {
				c.SetField("company", agencyCompanyName(seg), line.Index)
				continue
			}
			if c.Name == "" {
				if name := nameFromSegment(seg); name != "" {
					c.SetField("name", name, line.Index)
				}
			}
		}

		if c.Name != "" && c.Role == "" {
			c.SetField("role", GenericRole, line.Index)
		}
		if hasAnyContactSignal(c) {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// agencyCompanyName trims a talent line's agency segment down to the agency
// name: "Ford Models Karen" → "Ford Models" (trailing agent first names are
// dropped after the marker word).
func agencyCompanyName(segment string) string {
	words := strings.Fields(segment)
	markerIdx := -1
	for i, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,"))
		for _, marker := range agencyMarkers {
			if lw == marker {
				markerIdx = i
				break
			}
		}
	}
	if markerIdx >= 0 && markerIdx < len(words)-1 {
		words = words[:markerIdx+1]
	}
	return normalizeName(strings.Join(words, " "))
}

// --- Key-value ---

// KeyValueStrategy accumulates multi-line `Label: value` blocks into one
// candidate per block. A block flushes on a blank line or when a new Name
// label starts while one is already set.
type KeyValueStrategy struct{}

func (s *KeyValueStrategy) Name() string { return "key_value" }

func (s *KeyValueStrategy) Detect(profile *StructureProfile) float64 {
	score := profile.Scores[StructureKeyValue]
	if profile.Type == StructureKeyValue && score < 0.6 {
		score = 0.6
	}
	return score
}

func (s *KeyValueStrategy) Extract(lines []Line, profile *StructureProfile) []CandidateContact {
	var candidates []CandidateContact
	current := CandidateContact{Strategy: s.Name()}

	flush := func() {
		if hasAnyContactSignal(current) {
			candidates = append(candidates, current)
		}
		current = CandidateContact{Strategy: s.Name()}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			flush()
			continue
		}
		if _, isHeader := lookupSectionHeader(text); isHeader {
			flush()
			continue
		}

		label, value, ok := rolePrefixParts(text)
		if !ok {
			continue
		}
		field, known := keyValueFieldLabels[strings.ToLower(label)]
		if !known {
			// Unknown label: salvage an email or phone from the value, which
			// covers labels like "Contact Info: jane@x.com".
			if email := ExtractEmail(value); email != "" && current.Email == "" {
				current.SetField("email", email, line.Index)
			} else if phone := ExtractPhone(value); phone != "" && current.Phone == "" {
				current.SetField("phone", phone, line.Index)
			}
			continue
		}

		// A second Name label starts the next person's block.
		if field == "name" && current.Name != "" {
			flush()
		}

		switch field {
		case "phone":
			current.SetField("phone", NormalizePhone(value), line.Index)
		case "name":
			if name := nameFromSegment(value); name != "" {
				current.SetField("name", name, line.Index)
			} else {
				current.SetField("name", normalizeName(value), line.Index)
			}
		case "role":
			if role, okRole := matchRoleVocabulary(value); okRole {
				current.SetField("role", role, line.Index)
			} else {
				current.SetField("role", titleCase(value), line.Index)
			}
		default:
			current.SetField(field, value, line.Index)
		}
	}
	flush()

	return candidates
}
