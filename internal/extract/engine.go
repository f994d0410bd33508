package extract

import (
	"strings"

	"github.com/rs/zerolog"
)

// Engine is the public entry point: it owns the pipeline order
// Detecting → Extracting → Scoring → Validating → Merging → Linking → Done.
//
// An Engine holds no per-document state and is safe for concurrent use;
// run one Extract per document from as many goroutines as you like.
type Engine struct {
	strategies []Strategy
	logger     zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger attaches a logger for pipeline diagnostics. Rejected contacts
// and stage degradations are reported at debug level; the engine is silent
// without one.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an extraction engine with the full strategy set.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		strategies: defaultStrategies(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the full pipeline over one document. It never returns an
// error: malformed, empty, or garbage input degrades to an empty result
// whose metadata explains why. A stage failure falls back to the best
// results produced by the stages that completed.
func (e *Engine) Extract(text string, opts Options) Result {
	opts = opts.normalize()
	result := Result{
		Contacts: []Contact{},
		Metadata: Metadata{StructureType: string(StructureFreeform)},
	}

	if strings.TrimSpace(text) == "" {
		result.Metadata.Notes = append(result.Metadata.Notes, "empty input")
		return result
	}
	if n := countGarbageMarkers(text); n >= opts.GarbageMarkerLimit {
		result.Metadata.Notes = append(result.Metadata.Notes,
			"input looks like undecoded binary content; refusing to extract")
		e.logger.Debug().Int("markers", n).Msg("garbage gate tripped")
		return result
	}

	lines := SplitLines(text)

	// Detecting
	profile := StructureProfile{Type: StructureFreeform, Scores: map[StructureType]float64{}}
	e.runStage("detecting", func() {
		profile = DetectStructure(lines)
	})
	result.Metadata.StructureType = string(profile.Type)
	result.Metadata.SectionsFound = len(profile.Sections)

	// Extracting
	var candidates []CandidateContact
	if !e.runStage("extracting", func() {
		for _, s := range selectStrategies(e.strategies, &profile) {
			candidates = append(candidates, s.Extract(lines, &profile)...)
		}
	}) {
		return result
	}
	result.Metadata.TotalRawCandidates = len(candidates)
	if len(candidates) == 0 {
		return result
	}

	// Scoring
	var scored []ScoredContact
	if !e.runStage("scoring", func() {
		scored = scoreCandidates(candidates, opts)
	}) {
		return result
	}

	// Validating
	var validated []ValidatedContact
	if !e.runStage("validating", func() {
		validated = validateContacts(scored, opts)
		for _, vc := range validated {
			if !vc.Validation.IsValid {
				e.logger.Debug().
					Str("name", vc.Name).
					Str("strategy", vc.Strategy).
					Strs("reasons", vc.Validation.Reasons).
					Msg("contact rejected")
			}
		}
	}) {
		return result
	}

	// Merging
	var contacts []Contact
	removed := 0
	if !e.runStage("merging", func() {
		contacts, removed = MergeCandidates(validated, opts)
	}) {
		return result
	}
	result.Metadata.DuplicatesRemoved = removed

	// Linking (optional second pass)
	if opts.UseMultiPass {
		e.runStage("linking", func() {
			linked, alsoRemoved := LinkContacts(contacts, lines, opts)
			contacts = linked
			result.Metadata.DuplicatesRemoved += alsoRemoved
		})
	}

	// Threshold filter and summary
	final := make([]Contact, 0, len(contacts))
	sum := 0.0
	for _, c := range contacts {
		if c.Confidence < opts.ConfidenceThreshold {
			e.logger.Debug().
				Str("name", c.Name).
				Float64("confidence", c.Confidence).
				Msg("contact below confidence threshold")
			continue
		}
		final = append(final, c)
		sum += c.Confidence
	}
	result.Contacts = final
	if len(final) > 0 {
		result.Metadata.AverageConfidence = round3(sum / float64(len(final)))
	}

	return result
}

// runStage executes one pipeline stage, converting a panic into a degraded
// (but never partially applied) pipeline: the caller keeps whatever the
// completed stages produced.
func (e *Engine) runStage(name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.logger.Debug().
				Str("stage", name).
				Interface("panic", r).
				Msg("pipeline stage failed; returning results from completed stages")
		}
	}()
	fn()
	return true
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
