package extract

import "testing"

func candidateWith(fields map[string]string) CandidateContact {
	c := CandidateContact{Strategy: "test"}
	for field, value := range fields {
		c.SetField(field, value, 0)
	}
	return c
}

func TestScore_MoreFieldsNeverLower(t *testing.T) {
	opts := DefaultOptions()

	base := candidateWith(map[string]string{"name": "John Smith"})
	withPhone := candidateWith(map[string]string{
		"name": "John Smith", "phone": "(555) 123-4567",
	})
	withEmail := candidateWith(map[string]string{
		"name": "John Smith", "phone": "(555) 123-4567", "email": "john@acmephoto.com",
	})
	full := candidateWith(map[string]string{
		"name": "John Smith", "phone": "(555) 123-4567", "email": "john@acmephoto.com",
		"role": "Photographer", "company": "Acme Photo Studio",
	})

	prev := -1.0
	for _, c := range []CandidateContact{base, withPhone, withEmail, full} {
		score, _ := Score(c, opts)
		if score < prev {
			t.Errorf("adding a field lowered the score: %+v scored %f after %f", c, score, prev)
		}
		prev = score
	}
}

func TestScore_FullContactIsHigh(t *testing.T) {
	c := candidateWith(map[string]string{
		"name": "John Smith", "phone": "(555) 123-4567", "email": "john@acmephoto.com",
		"role": "Photographer",
	})
	score, level := Score(c, DefaultOptions())
	if level != ConfidenceHigh {
		t.Errorf("expected high confidence, got %s (%f)", level, score)
	}
}

func TestScore_SuspiciousEmailScoresLower(t *testing.T) {
	opts := DefaultOptions()
	clean := candidateWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"})
	sus := candidateWith(map[string]string{"name": "John Smith", "email": "noreply@acmephoto.com"})

	cleanScore, _ := Score(clean, opts)
	susScore, _ := Score(sus, opts)
	if susScore >= cleanScore {
		t.Errorf("suspicious email scored %f, clean scored %f", susScore, cleanScore)
	}
}

func TestScore_FreeProviderEmailScoresLower(t *testing.T) {
	opts := DefaultOptions()
	pro := candidateWith(map[string]string{"email": "john@acmephoto.com"})
	free := candidateWith(map[string]string{"email": "john@gmail.com"})

	proScore, _ := Score(pro, opts)
	freeScore, _ := Score(free, opts)
	if freeScore >= proScore {
		t.Errorf("free-provider email scored %f, professional scored %f", freeScore, proScore)
	}
}

func TestScore_DocumentContextMultiplier(t *testing.T) {
	c := candidateWith(map[string]string{"name": "John Smith", "phone": "(555) 123-4567"})

	unknown := DefaultOptions()
	contactList := DefaultOptions()
	contactList.DocumentType = DocContactList

	base, _ := Score(c, unknown)
	boosted, _ := Score(c, contactList)
	if boosted <= base {
		t.Errorf("contact_list context did not boost: %f vs %f", boosted, base)
	}
}

func TestScore_RolePreferenceBonus(t *testing.T) {
	c := candidateWith(map[string]string{"name": "John Smith", "role": "Photographer"})

	plain := DefaultOptions()
	preferred := DefaultOptions()
	preferred.RolePreferences = []string{"photographer"}

	base, _ := Score(c, plain)
	boosted, _ := Score(c, preferred)
	if boosted <= base {
		t.Errorf("role preference did not boost: %f vs %f", boosted, base)
	}
}

func TestScore_ClampedToOne(t *testing.T) {
	c := candidateWith(map[string]string{
		"name": "John Smith", "phone": "(555) 123-4567", "email": "john@acmephoto.com",
		"role": "Photographer", "company": "Acme Photo Studio",
	})
	opts := DefaultOptions()
	opts.DocumentType = DocContactList
	opts.ProductionType = ProdCommercial
	opts.RolePreferences = []string{"photographer"}

	score, _ := Score(c, opts)
	if score > 1.0 {
		t.Errorf("score %f exceeds 1.0", score)
	}
}

func TestScore_Deterministic(t *testing.T) {
	c := candidateWith(map[string]string{"name": "John Smith", "email": "john@acmephoto.com"})
	opts := DefaultOptions()

	first, _ := Score(c, opts)
	for i := 0; i < 10; i++ {
		if s, _ := Score(c, opts); s != first {
			t.Fatalf("score changed between identical calls: %f then %f", first, s)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  ConfidenceLevel
	}{
		{0.85, ConfidenceHigh},
		{0.8, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.5, ConfidenceLow},
		{0.1, ConfidenceVeryLow},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.score); got != tc.want {
			t.Errorf("LevelFor(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
