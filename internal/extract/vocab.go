package extract

import "strings"

// Heuristic vocabularies. All tables here are built once at package init and
// never mutated afterward, so they are safe to share across concurrent
// engine instances.

// roleVocabulary lists production-industry role titles, longest-first so
// multi-word titles win over their substrings ("1st assistant camera" before
// "camera"). Matching is case-insensitive.
var roleVocabulary = []string{
	"1st assistant director",
	"2nd assistant director",
	"1st assistant camera",
	"2nd assistant camera",
	"first assistant director",
	"second assistant director",
	"director of photography",
	"executive producer",
	"associate producer",
	"production coordinator",
	"production designer",
	"production assistant",
	"production manager",
	"unit production manager",
	"key makeup artist",
	"makeup artist",
	"hair stylist",
	"wardrobe stylist",
	"fashion stylist",
	"stylist assistant",
	"photo assistant",
	"digital tech",
	"digitech",
	"retoucher",
	"art director",
	"creative director",
	"casting director",
	"location manager",
	"location scout",
	"script supervisor",
	"sound mixer",
	"boom operator",
	"gaffer",
	"best boy",
	"key grip",
	"grip",
	"electrician",
	"photographer",
	"videographer",
	"cinematographer",
	"director",
	"producer",
	"editor",
	"colorist",
	"stylist",
	"makeup",
	"hair",
	"wardrobe",
	"model",
	"talent",
	"actor",
	"actress",
	"agent",
	"manager",
	"assistant",
	"driver",
	"caterer",
	"medic",
	"client",
	"intern",
}

// assistantRolePrefixes mark numbered-assistant variants for the linking
// pass ("1st Assistant Camera" reports to the camera department head).
var assistantRolePrefixes = []string{
	"1st assistant",
	"2nd assistant",
	"3rd assistant",
	"first assistant",
	"second assistant",
	"third assistant",
	"assistant",
}

// GenericRole is the placeholder used when no vocabulary match or prefix
// text is available for a contact's role.
const GenericRole = "Crew"

// sectionHeaderVocabulary maps recognized section headers to the department
// attached to contacts found inside that section.
var sectionHeaderVocabulary = map[string]string{
	"crew":              "Production",
	"production":        "Production",
	"production team":   "Production",
	"production crew":   "Production",
	"talent":            "Talent",
	"models":            "Talent",
	"cast":              "Talent",
	"styling":           "Styling",
	"wardrobe":          "Styling",
	"hair & makeup":     "Hair & Makeup",
	"hair and makeup":   "Hair & Makeup",
	"hair/makeup":       "Hair & Makeup",
	"hmu":               "Hair & Makeup",
	"glam":              "Hair & Makeup",
	"camera":            "Camera",
	"camera team":       "Camera",
	"photo team":        "Camera",
	"photography":       "Camera",
	"video":             "Camera",
	"grip & electric":   "Grip & Electric",
	"grip and electric": "Grip & Electric",
	"g&e":               "Grip & Electric",
	"lighting":          "Grip & Electric",
	"sound":             "Sound",
	"audio":             "Sound",
	"art":               "Art",
	"art department":    "Art",
	"set design":        "Art",
	"locations":         "Locations",
	"location":          "Locations",
	"clients":           "Client",
	"client":            "Client",
	"agency":            "Agency",
	"contacts":          "",
	"contact list":      "",
	"key contacts":      "",
	"vendors":           "Vendors",
	"transport":         "Transport",
	"transportation":    "Transport",
	"catering":          "Catering",
}

// lookupSectionHeader returns (department, true) when a trimmed line is a
// recognized section header. Trailing colons and decorative dashes are
// tolerated.
func lookupSectionHeader(line string) (string, bool) {
	s := strings.TrimSpace(line)
	s = strings.Trim(s, "-=* ")
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	dept, ok := sectionHeaderVocabulary[strings.ToLower(s)]
	return dept, ok
}

// freeEmailProviders are consumer domains that carry no company signal.
var freeEmailProviders = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"icloud.com":     {},
	"aol.com":        {},
	"me.com":         {},
	"live.com":       {},
	"protonmail.com": {},
	"proton.me":      {},
	"mail.com":       {},
	"msn.com":        {},
	"ymail.com":      {},
}

// suspiciousEmailTokens mark throwaway or placeholder addresses that should
// be scored down, not trusted as real contact data.
var suspiciousEmailTokens = []string{
	"test",
	"example",
	"noreply",
	"no-reply",
	"donotreply",
	"sample",
	"fake",
	"asdf",
}

// agencyMarkers flag a text span as a talent agency or representation
// company in slash-delimited talent lines.
var agencyMarkers = []string{
	"agency",
	"agents",
	"artists",
	"models",
	"management",
	"mgmt",
	"talent",
	"casting",
}

// companyMarkers flag a capitalized span as an organization name rather
// than a person. Includes the agency markers plus general company suffixes.
var companyMarkers = append([]string{
	"studio",
	"studios",
	"productions",
	"production co",
	"films",
	"pictures",
	"media",
	"group",
	"creative",
	"photography",
	"rentals",
	"inc",
	"llc",
	"ltd",
	"co",
}, agencyMarkers...)

// documentTypeFactor scales confidence by how contact-dense the document
// class tends to be. Values hover near 1.0 so the field weights stay the
// dominant signal.
var documentTypeFactor = map[DocumentType]float64{
	DocCallSheet:   1.10,
	DocContactList: 1.15,
	DocCrewList:    1.05,
	DocUnknown:     1.00,
}

// productionTypeFactor is the second context multiplier.
var productionTypeFactor = map[ProductionType]float64{
	ProdCommercial: 1.05,
	ProdEditorial:  1.00,
	ProdFilm:       1.05,
	ProdTelevision: 1.05,
	ProdMusicVideo: 0.95,
	ProdUnknown:    1.00,
}

// tableHeaderFields maps column header spellings to contact fields for the
// tabular strategy.
var tableHeaderFields = map[string]string{
	"name":          "name",
	"full name":     "name",
	"contact":       "name",
	"contact name":  "name",
	"crew":          "name",
	"email":         "email",
	"e-mail":        "email",
	"email address": "email",
	"phone":         "phone",
	"phone number":  "phone",
	"cell":          "phone",
	"cell phone":    "phone",
	"mobile":        "phone",
	"tel":           "phone",
	"telephone":     "phone",
	"number":        "phone",
	"role":          "role",
	"title":         "role",
	"position":      "role",
	"job":           "role",
	"job title":     "role",
	"company":       "company",
	"agency":        "company",
	"organization":  "company",
	"org":           "company",
	"vendor":        "company",
	"department":    "department",
	"dept":          "department",
	"team":          "department",
}

// keyValueFieldLabels maps `Label:` spellings to contact fields for the
// key-value strategy.
var keyValueFieldLabels = map[string]string{
	"name":       "name",
	"full name":  "name",
	"contact":    "name",
	"email":      "email",
	"e-mail":     "email",
	"mail":       "email",
	"phone":      "phone",
	"cell":       "phone",
	"mobile":     "phone",
	"tel":        "phone",
	"telephone":  "phone",
	"number":     "phone",
	"role":       "role",
	"title":      "role",
	"position":   "role",
	"company":    "company",
	"agency":     "company",
	"org":        "company",
	"employer":   "company",
	"department": "department",
	"dept":       "department",
	"team":       "department",
}

// matchRoleVocabulary returns the canonical Title-Case role when the text
// contains a known role title, preferring longer titles.
func matchRoleVocabulary(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, role := range roleVocabulary {
		if containsWord(lower, role) {
			return titleCase(role), true
		}
	}
	return "", false
}

// containsWord reports whether sub occurs in s on word boundaries.
func containsWord(s, sub string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], sub)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(sub)
		startOK := start == 0 || !isWordByte(s[start-1])
		endOK := end == len(s) || !isWordByte(s[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
		if idx >= len(s) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// isAssistantRole reports whether a role string is a numbered-assistant
// variant, returning the text after the assistant prefix ("camera" for
// "1st Assistant Camera").
func isAssistantRole(role string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(role))
	for _, prefix := range assistantRolePrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(lower[len(prefix):])
			return rest, true
		}
	}
	return "", false
}
