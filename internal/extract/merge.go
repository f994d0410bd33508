package extract

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Deduplication and merging. Candidates that denote the same person are
// collapsed into one Contact, merging non-conflicting fields instead of
// discarding data.
//
// Merge keys, in order: lower-cased email, normalized phone digits, then
// fuzzy name similarity above opts.NameSimilarity. Candidates are put into
// a canonical order before grouping, which makes the merge associative and
// order-independent: shuffling the input produces the same final set.

type mergeGroup struct {
	members []ValidatedContact
	emails  map[string]struct{}
	phones  map[string]struct{}
	names   map[string]struct{}
}

func newMergeGroup() *mergeGroup {
	return &mergeGroup{
		emails: make(map[string]struct{}),
		phones: make(map[string]struct{}),
		names:  make(map[string]struct{}),
	}
}

func (g *mergeGroup) add(vc ValidatedContact) {
	g.members = append(g.members, vc)
	if k := emailKey(vc.Email); k != "" {
		g.emails[k] = struct{}{}
	}
	if k := PhoneDigits(vc.Phone); k != "" {
		g.phones[k] = struct{}{}
	}
	if k := nameKey(vc.Name); k != "" {
		g.names[k] = struct{}{}
	}
}

func (g *mergeGroup) absorb(other *mergeGroup) {
	g.members = append(g.members, other.members...)
	for k := range other.emails {
		g.emails[k] = struct{}{}
	}
	for k := range other.phones {
		g.phones[k] = struct{}{}
	}
	for k := range other.names {
		g.names[k] = struct{}{}
	}
}

func (g *mergeGroup) matches(vc ValidatedContact, nameSimilarity float64) bool {
	if k := emailKey(vc.Email); k != "" {
		if _, ok := g.emails[k]; ok {
			return true
		}
	}
	if k := PhoneDigits(vc.Phone); k != "" {
		if _, ok := g.phones[k]; ok {
			return true
		}
	}
	if k := nameKey(vc.Name); k != "" {
		for existing := range g.names {
			if NameSimilarity(k, existing) >= nameSimilarity {
				return true
			}
		}
	}
	return false
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NameSimilarity is the edit-distance ratio 1 − lev(a,b)/max(len(a),len(b)).
func NameSimilarity(a, b string) float64 {
	a, b = nameKey(a), nameKey(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	ar, br := []rune(a), []rune(b)
	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(maxLen)
}

// MergeCandidates collapses valid candidates into final contacts and reports
// how many duplicates were removed. Confidence on the merged contact is
// recomputed from the merged field values, never carried over stale.
func MergeCandidates(validated []ValidatedContact, opts Options) ([]Contact, int) {
	opts = opts.normalize()

	valid := make([]ValidatedContact, 0, len(validated))
	for _, vc := range validated {
		if vc.Validation.IsValid {
			valid = append(valid, vc)
		}
	}
	if len(valid) == 0 {
		return nil, 0
	}

	// Canonical processing order: grouping below is greedy, so a fixed
	// order is what makes the result independent of caller ordering.
	sort.SliceStable(valid, func(i, j int) bool {
		return lessCanonical(valid[i], valid[j])
	})

	var groups []*mergeGroup
	for _, vc := range valid {
		var matched []*mergeGroup
		for _, g := range groups {
			if g.matches(vc, opts.NameSimilarity) {
				matched = append(matched, g)
			}
		}
		switch len(matched) {
		case 0:
			g := newMergeGroup()
			g.add(vc)
			groups = append(groups, g)
		case 1:
			matched[0].add(vc)
		default:
			// The candidate links several existing groups (e.g. shares an
			// email with one and a phone with another): fold them together.
			primary := matched[0]
			primary.add(vc)
			for _, other := range matched[1:] {
				primary.absorb(other)
			}
			kept := groups[:0]
			for _, g := range groups {
				drop := false
				for _, other := range matched[1:] {
					if g == other {
						drop = true
						break
					}
				}
				if !drop {
					kept = append(kept, g)
				}
			}
			groups = kept
		}
	}

	contacts := make([]Contact, 0, len(groups))
	for _, g := range groups {
		contacts = append(contacts, mergeGroupToContact(g, opts))
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		li, lj := firstSourceLine(contacts[i]), firstSourceLine(contacts[j])
		if li != lj {
			return li < lj
		}
		return contacts[i].Name < contacts[j].Name
	})

	return contacts, len(valid) - len(contacts)
}

// lessCanonical orders candidates by confidence (desc) with full
// deterministic tie-breaking.
func lessCanonical(a, b ValidatedContact) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Email != b.Email {
		return a.Email < b.Email
	}
	if a.Phone != b.Phone {
		return a.Phone < b.Phone
	}
	if a.Strategy != b.Strategy {
		return a.Strategy < b.Strategy
	}
	return firstLineOf(a) < firstLineOf(b)
}

func firstLineOf(vc ValidatedContact) int {
	lines := vc.AllSourceLines()
	if len(lines) == 0 {
		return int(^uint(0) >> 1)
	}
	return lines[0]
}

func firstSourceLine(c Contact) int {
	if len(c.SourceLines) == 0 {
		return int(^uint(0) >> 1)
	}
	return c.SourceLines[0]
}

// mergeGroupToContact builds the final record for one group: each field
// takes the non-empty value from the highest-confidence member (ties broken
// lexicographically), provenance and strategies are unioned, and confidence
// is recomputed from the merged fields.
func mergeGroupToContact(g *mergeGroup, opts Options) Contact {
	merged := CandidateContact{SourceLines: make(map[string][]int)}

	pick := func(get func(ValidatedContact) string) string {
		best := ""
		bestConf := -1.0
		for _, m := range g.members {
			v := strings.TrimSpace(get(m))
			if v == "" {
				continue
			}
			if m.Confidence > bestConf || (m.Confidence == bestConf && v < best) {
				best = v
				bestConf = m.Confidence
			}
		}
		return best
	}

	merged.Name = pick(func(v ValidatedContact) string { return v.Name })
	merged.Email = pick(func(v ValidatedContact) string { return v.Email })
	merged.Phone = pick(func(v ValidatedContact) string { return v.Phone })
	// The generic placeholder role loses to any real title regardless of
	// which member scored higher.
	merged.Role = pick(func(v ValidatedContact) string {
		if v.Role == GenericRole {
			return ""
		}
		return v.Role
	})
	if merged.Role == "" {
		merged.Role = pick(func(v ValidatedContact) string { return v.Role })
	}
	merged.Company = pick(func(v ValidatedContact) string { return v.Company })
	merged.Department = pick(func(v ValidatedContact) string { return v.Department })

	lineSet := make(map[int]struct{})
	stratSet := make(map[string]struct{})
	for _, m := range g.members {
		for _, idx := range m.AllSourceLines() {
			lineSet[idx] = struct{}{}
		}
		if m.Strategy != "" {
			stratSet[m.Strategy] = struct{}{}
		}
	}
	sourceLines := make([]int, 0, len(lineSet))
	for idx := range lineSet {
		sourceLines = append(sourceLines, idx)
	}
	sort.Ints(sourceLines)
	strategies := make([]string, 0, len(stratSet))
	for s := range stratSet {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)

	conf, level := Score(merged, opts)
	return Contact{
		Name:        merged.Name,
		Email:       merged.Email,
		Phone:       merged.Phone,
		Role:        merged.Role,
		Company:     merged.Company,
		Department:  merged.Department,
		Confidence:  conf,
		Level:       level,
		SourceLines: sourceLines,
		Strategies:  strategies,
	}
}
