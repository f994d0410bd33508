package extract

import "sort"

// Strategy is one way of walking a document and generating candidate
// contacts. Detect returns an applicability score for a structure profile;
// Extract generates candidates. Strategies are stateless and safe to share.
type Strategy interface {
	Name() string
	Detect(profile *StructureProfile) float64
	Extract(lines []Line, profile *StructureProfile) []CandidateContact
}

// minApplicability is the Detect score a strategy needs before the router
// will run it on a mixed-structure document.
const minApplicability = 0.2

// defaultStrategies builds the full strategy set in a fixed order. The
// sectioned strategy wraps the others, so it gets its own instances.
func defaultStrategies() []Strategy {
	return []Strategy{
		&TabularStrategy{},
		&SlashDelimitedStrategy{},
		&KeyValueStrategy{},
		&SectionedStrategy{inner: []Strategy{
			&TabularStrategy{},
			&SlashDelimitedStrategy{},
			&KeyValueStrategy{},
			&FreeformStrategy{},
		}},
		&FreeformStrategy{},
	}
}

// selectStrategies picks the strategies to run for a profile. A clean
// classification runs the single best-matching strategy; mixed profiles
// ensemble every applicable strategy and let scoring and dedup sort out the
// false positives downstream.
func selectStrategies(strategies []Strategy, profile *StructureProfile) []Strategy {
	if profile.Type == StructureMixed {
		var picked []Strategy
		for _, s := range strategies {
			if s.Detect(profile) >= minApplicability {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			picked = append(picked, &FreeformStrategy{})
		}
		return picked
	}

	type scored struct {
		s     Strategy
		score float64
		order int
	}
	ranked := make([]scored, 0, len(strategies))
	for i, s := range strategies {
		ranked = append(ranked, scored{s: s, score: s.Detect(profile), order: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	best := ranked[0]
	if best.score <= 0 {
		return []Strategy{&FreeformStrategy{}}
	}
	picked := []Strategy{best.s}

	// A sectioned document still benefits from a whole-document pass when
	// contacts appear outside any recognized section.
	if profile.Type == StructureSectioned {
		for _, r := range ranked[1:] {
			if r.score >= minApplicability {
				if _, isSectioned := r.s.(*SectionedStrategy); !isSectioned {
					picked = append(picked, r.s)
					break
				}
			}
		}
	}
	return picked
}

// hasAnyContactSignal reports whether a candidate carries at least one
// identifying field; empty shells are dropped at the source.
func hasAnyContactSignal(c CandidateContact) bool {
	return c.Name != "" || c.Email != "" || c.Phone != ""
}

// linesForIndices materializes a subset of the line array, preserving the
// original indices so provenance survives per-section extraction.
func linesForIndices(lines []Line, indices []int) []Line {
	out := make([]Line, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(lines) {
			out = append(out, lines[i])
		}
	}
	return out
}
