package extract

import "testing"

func TestExtractEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Contact john.smith@acmephoto.com for access", "john.smith@acmephoto.com"},
		{"Jane Doe <jane+booking@studioworks.co.uk>", "jane+booking@studioworks.co.uk"},
		{"no address here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractEmail(tc.in); got != tc.want {
			t.Errorf("ExtractEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"call 555-123-4567", "(555) 123-4567"},
		{"call 555.123.4567", "(555) 123-4567"},
		{"call (555) 123-4567 x2", "(555) 123-4567"},
		{"call +1 555 123 4567", "(555) 123-4567"},
		{"call +44 20 7946 0958", "+44 20 7946 0958"},
		{"no number", ""},
	}
	for _, tc := range cases {
		if got := ExtractPhone(tc.in); got != tc.want {
			t.Errorf("ExtractPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractPhone_IgnoresEmailDigits(t *testing.T) {
	if got := ExtractPhone("write to jane@studio5551234567.com"); got != "" {
		t.Errorf("expected no phone from an email-only line, got %q", got)
	}
}

func TestPhoneDigits(t *testing.T) {
	if got := PhoneDigits("(555) 123-4567"); got != "5551234567" {
		t.Errorf("PhoneDigits = %q", got)
	}
	// Leading country code 1 folds into the same key.
	if PhoneDigits("+1 555 123 4567") != PhoneDigits("555-123-4567") {
		t.Error("expected +1 and bare forms to share a dedup key")
	}
}

func TestExtractName_RolePrefix(t *testing.T) {
	if got := ExtractName("Photographer: John Smith / 555-123-4567"); got != "John Smith" {
		t.Errorf("got %q", got)
	}
}

func TestExtractName_AllCapsNormalized(t *testing.T) {
	if got := ExtractName("Model: BIANCA FELICIANO / Ford Models / 555-987-6543"); got != "Bianca Feliciano" {
		t.Errorf("got %q", got)
	}
}

func TestExtractName_PreservesMixedCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gaffer: John McDonald / 555-123-4567", "John McDonald"},
		{"Producer: Liam O'Brien / 555-222-3344", "Liam O'Brien"},
		{"Mary DiCarlo mary@apexmedia.com", "Mary DiCarlo"},
	}
	for _, tc := range cases {
		if got := ExtractName(tc.in); got != tc.want {
			t.Errorf("ExtractName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractName_BeforeContactToken(t *testing.T) {
	if got := ExtractName("Jane Doe jane@studioworks.com"); got != "Jane Doe" {
		t.Errorf("got %q", got)
	}
}

func TestExtractName_RejectsRoleTitles(t *testing.T) {
	if got := ExtractName("Key Grip"); got != "" {
		t.Errorf("expected no name from a bare role title, got %q", got)
	}
}

func TestExtractName_NoCandidate(t *testing.T) {
	if got := ExtractName("call time is 7am sharp"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestExtractRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Photographer: John Smith", "Photographer"},
		{"Best Boy: Tim Hall", "Best Boy"},
		{"Joe is the 1st assistant camera today", "1st Assistant Camera"},
		{"lunch at noon", ""},
	}
	for _, tc := range cases {
		if got := ExtractRole(tc.in); got != tc.want {
			t.Errorf("ExtractRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"BIANCA FELICIANO", "Bianca Feliciano"},
		{"john smith", "John Smith"},
		{"1st assistant director", "1st Assistant Director"},
	}
	for _, tc := range cases {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompanyFromEmail(t *testing.T) {
	if got := CompanyFromEmail("john@acmephoto.com"); got != "Acmephoto" {
		t.Errorf("got %q", got)
	}
	if got := CompanyFromEmail("jane@gmail.com"); got != "" {
		t.Errorf("expected no company from a consumer domain, got %q", got)
	}
	if got := CompanyFromEmail("not-an-email"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCompanySpan(t *testing.T) {
	got := ExtractCompanySpan("Maria Lopez / Silver Lake Studios / 555-222-3344", "Maria Lopez")
	if got != "Silver Lake Studios" {
		t.Errorf("got %q", got)
	}
}

func TestExtractCompanySpan_SkipsClaimedText(t *testing.T) {
	got := ExtractCompanySpan("Ford Models / 555-987-6543", "Ford Models")
	if got != "" {
		t.Errorf("expected claimed span to be skipped, got %q", got)
	}
}

func TestFindNearby(t *testing.T) {
	lines := SplitLines("Jane Doe\n\njane@studioworks.com")

	v, idx := findNearby(lines, 2, func(s string) string {
		return ExtractName(s)
	})
	if v != "Jane Doe" || idx != 0 {
		t.Errorf("got %q at line %d", v, idx)
	}

	v, idx = findNearby(lines, 0, func(s string) string {
		return ExtractEmail(s)
	})
	if v != "jane@studioworks.com" || idx != 2 {
		t.Errorf("got %q at line %d", v, idx)
	}
}
