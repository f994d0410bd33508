package extract

import "strings"

// Confidence scoring. The score is a weighted sum of per-field base weights
// and quality factors, shaped by two context multipliers and two global
// adjustments, then clamped to [0, 1]. Scoring is a pure function of the
// contact and options: the same inputs always score the same.

// fieldWeights are the per-field base scores. They sum to 1.0.
var fieldWeights = map[string]float64{
	"email":   0.30,
	"name":    0.25,
	"phone":   0.20,
	"role":    0.15,
	"company": 0.10,
}

const (
	// multiFieldBonus rewards contacts with three or more populated fields.
	multiFieldBonus = 0.10

	// veryLowCutoff halves scores that land below it; a contact this weak
	// should sink well under any sensible threshold.
	veryLowCutoff = 0.20

	// rolePreferenceBonus up-weights contacts whose role the caller asked
	// to prioritize.
	rolePreferenceBonus = 0.05
)

// Quality factors stay within [0.5, 1.2] so a populated field always
// contributes positively: adding a valid field can never lower the total.

func emailQuality(email string) float64 {
	lower := strings.ToLower(email)
	for _, tok := range suspiciousEmailTokens {
		if strings.Contains(lower, tok) {
			return 0.6
		}
	}
	at := strings.LastIndex(lower, "@")
	if at < 0 {
		return 0.5
	}
	domain := lower[at+1:]
	if _, free := freeEmailProviders[domain]; free {
		return 0.9
	}
	return 1.15
}

func phoneQuality(phone string) float64 {
	n := len(digitsOnly(phone))
	switch {
	case n == 10 || n == 11:
		return 1.15
	case n >= 7 && n <= 15:
		return 1.0
	default:
		return 0.7
	}
}

func nameQuality(name string) float64 {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 60 {
		return 0.6
	}
	words := strings.Fields(name)
	if len(words) < 1 || len(words) > 4 {
		return 0.7
	}
	consistent := true
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 || !isUpperRune(r[0]) {
			consistent = false
			break
		}
	}
	if consistent && len(words) >= 2 && len(name) >= 5 && len(name) <= 40 {
		return 1.15
	}
	if consistent {
		return 1.0
	}
	return 0.7
}

func isUpperRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r > 127 && strings.ToUpper(string(r)) == string(r))
}

func roleQuality(role string) float64 {
	lower := strings.ToLower(strings.TrimSpace(role))
	if lower == strings.ToLower(GenericRole) {
		return 0.7
	}
	for _, known := range roleVocabulary {
		if lower == known {
			return 1.15
		}
	}
	return 1.0
}

func companyQuality(company string) float64 {
	if hasCompanyMarker(company) {
		return 1.1
	}
	return 1.0
}

// Score computes the 0.0–1.0 confidence for a candidate under the given
// document context, plus its bucket.
func Score(c CandidateContact, opts Options) (float64, ConfidenceLevel) {
	opts = opts.normalize()

	score := 0.0
	if c.Email != "" {
		score += fieldWeights["email"] * emailQuality(c.Email)
	}
	if c.Name != "" {
		score += fieldWeights["name"] * nameQuality(c.Name)
	}
	if c.Phone != "" {
		score += fieldWeights["phone"] * phoneQuality(c.Phone)
	}
	if c.Role != "" {
		score += fieldWeights["role"] * roleQuality(c.Role)
	}
	if c.Company != "" {
		score += fieldWeights["company"] * companyQuality(c.Company)
	}

	score *= contextFactor(documentTypeFactor, opts.DocumentType)
	score *= prodContextFactor(productionTypeFactor, opts.ProductionType)

	if c.FieldCount() >= 3 {
		score += multiFieldBonus
	}
	if matchesRolePreference(c.Role, opts.RolePreferences) {
		score += rolePreferenceBonus
	}
	if score < veryLowCutoff {
		score /= 2
	}

	score = clamp01(score)
	return score, LevelFor(score)
}

func contextFactor(table map[DocumentType]float64, dt DocumentType) float64 {
	if f, ok := table[dt]; ok {
		return f
	}
	return 1.0
}

func prodContextFactor(table map[ProductionType]float64, pt ProductionType) float64 {
	if f, ok := table[pt]; ok {
		return f
	}
	return 1.0
}

func matchesRolePreference(role string, prefs []string) bool {
	if role == "" || len(prefs) == 0 {
		return false
	}
	lower := strings.ToLower(role)
	for _, p := range prefs {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// scoreCandidates attaches confidence to a batch of candidates.
func scoreCandidates(candidates []CandidateContact, opts Options) []ScoredContact {
	scored := make([]ScoredContact, 0, len(candidates))
	for _, c := range candidates {
		conf, level := Score(c, opts)
		scored = append(scored, ScoredContact{
			CandidateContact: c,
			Confidence:       conf,
			Level:            level,
		})
	}
	return scored
}
