package extract

import (
	"reflect"
	"testing"
)

func validatedWith(fields map[string]string, line int) ValidatedContact {
	c := CandidateContact{Strategy: "test"}
	for field, value := range fields {
		c.SetField(field, value, line)
	}
	conf, level := Score(c, DefaultOptions())
	sc := ScoredContact{CandidateContact: c, Confidence: conf, Level: level}
	return ValidatedContact{ScoredContact: sc, Validation: Validate(sc, DefaultOptions())}
}

func TestMergeCandidates_SamePersonThreeWays(t *testing.T) {
	validated := []ValidatedContact{
		validatedWith(map[string]string{
			"name": "John Smith", "phone": "555-123-4567", "role": "Photographer",
		}, 0),
		validatedWith(map[string]string{
			"name": "John Smith", "email": "john@acmephoto.com",
		}, 1),
		validatedWith(map[string]string{
			"name": "J Smith", "phone": "(555) 123-4567",
		}, 2),
	}

	contacts, removed := MergeCandidates(validated, DefaultOptions())
	if len(contacts) != 1 {
		t.Fatalf("expected 1 merged contact, got %d: %+v", len(contacts), contacts)
	}
	if removed != 2 {
		t.Errorf("duplicates removed = %d, want 2", removed)
	}

	c := contacts[0]
	if c.Name != "John Smith" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Email != "john@acmephoto.com" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Phone == "" {
		t.Errorf("merged contact lost the phone")
	}
	if c.Role != "Photographer" {
		t.Errorf("role = %q", c.Role)
	}
	if !reflect.DeepEqual(c.SourceLines, []int{0, 1, 2}) {
		t.Errorf("source lines = %v", c.SourceLines)
	}
}

func TestMergeCandidates_OrderIndependent(t *testing.T) {
	build := func() []ValidatedContact {
		return []ValidatedContact{
			validatedWith(map[string]string{"name": "John Smith", "phone": "555-123-4567"}, 0),
			validatedWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"}, 1),
			validatedWith(map[string]string{"name": "Maria Lopez", "phone": "555-222-3344"}, 2),
			validatedWith(map[string]string{"name": "Maria Lopez", "email": "maria@stylehouse.com"}, 3),
		}
	}

	forward := build()
	backward := build()
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}

	a, _ := MergeCandidates(forward, DefaultOptions())
	b, _ := MergeCandidates(backward, DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("merge is order-dependent:\nforward:  %+v\nbackward: %+v", a, b)
	}
}

func TestMergeCandidates_Idempotent(t *testing.T) {
	validated := []ValidatedContact{
		validatedWith(map[string]string{"name": "John Smith", "phone": "555-123-4567"}, 0),
		validatedWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"}, 1),
		validatedWith(map[string]string{"name": "Maria Lopez", "phone": "555-222-3344"}, 2),
	}

	once, _ := MergeCandidates(validated, DefaultOptions())
	twice, removed := remerge(once, DefaultOptions())
	if removed != 0 {
		t.Errorf("re-merging merged output removed %d contacts", removed)
	}
	if len(twice) != len(once) {
		t.Fatalf("re-merge changed contact count: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Name != twice[i].Name || once[i].Email != twice[i].Email || once[i].Phone != twice[i].Phone {
			t.Errorf("contact %d changed on re-merge:\nonce:  %+v\ntwice: %+v", i, once[i], twice[i])
		}
	}
}

func TestMergeCandidates_SimilarNamesStaySeparateByDefault(t *testing.T) {
	// "Jon Smith" vs "John Smith" is 0.9 similar, under the 0.95 default.
	validated := []ValidatedContact{
		validatedWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"}, 0),
		validatedWith(map[string]string{"name": "Jon Smith", "email": "jon@otherplace.com"}, 1),
	}

	contacts, _ := MergeCandidates(validated, DefaultOptions())
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d: %+v", len(contacts), contacts)
	}

	loose := DefaultOptions()
	loose.NameSimilarity = 0.85
	contacts, _ = MergeCandidates(validated, loose)
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact under the loose threshold, got %d", len(contacts))
	}
}

func TestMergeCandidates_PlaceholderRoleLosesToRealTitle(t *testing.T) {
	validated := []ValidatedContact{
		validatedWith(map[string]string{"name": "John Smith", "phone": "555-123-4567", "role": "Photographer"}, 0),
		validatedWith(map[string]string{
			"name": "John Smith", "email": "john@acmephoto.com",
			"phone": "555-123-4567", "role": GenericRole,
		}, 1),
	}

	contacts, _ := MergeCandidates(validated, DefaultOptions())
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].Role != "Photographer" {
		t.Errorf("role = %q, want the real title", contacts[0].Role)
	}
}

func TestMergeCandidates_SkipsInvalid(t *testing.T) {
	invalid := validatedWith(map[string]string{"role": "Photographer"}, 0)
	if invalid.Validation.IsValid {
		t.Fatal("fixture should be invalid")
	}
	valid := validatedWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"}, 1)

	contacts, removed := MergeCandidates([]ValidatedContact{invalid, valid}, DefaultOptions())
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if removed != 0 {
		t.Errorf("invalid candidates must not count as duplicates, removed = %d", removed)
	}
}

func TestMergeCandidates_ConfidenceRecomputed(t *testing.T) {
	nameOnly := validatedWith(map[string]string{"name": "John Smith", "phone": "555-123-4567"}, 0)
	withEmail := validatedWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"}, 1)

	contacts, _ := MergeCandidates([]ValidatedContact{nameOnly, withEmail}, DefaultOptions())
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].Confidence <= nameOnly.Confidence || contacts[0].Confidence <= withEmail.Confidence {
		t.Errorf("merged confidence %f should exceed both members (%f, %f)",
			contacts[0].Confidence, nameOnly.Confidence, withEmail.Confidence)
	}
}

func TestNameSimilarity(t *testing.T) {
	if s := NameSimilarity("John Smith", "john smith"); s != 1 {
		t.Errorf("case-insensitive identity = %f", s)
	}
	if s := NameSimilarity("John Smith", "Jon Smith"); s < 0.89 || s > 0.91 {
		t.Errorf("one-edit similarity = %f, want ~0.9", s)
	}
	if s := NameSimilarity("John Smith", ""); s != 0 {
		t.Errorf("empty operand = %f", s)
	}
}
