package extract

import "testing"

func TestLinkContacts_AttachesNearbyEmail(t *testing.T) {
	lines := SplitLines("Jane Doe\nProducer\njane@studioworks.com")
	contacts := []Contact{{
		Name:        "Jane Doe",
		Role:        "Producer",
		Confidence:  0.5,
		Level:       ConfidenceLow,
		SourceLines: []int{0, 1},
	}}

	linked, _ := LinkContacts(contacts, lines, DefaultOptions())
	if len(linked) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(linked))
	}
	c := linked[0]
	if c.Email != "jane@studioworks.com" {
		t.Errorf("email = %q", c.Email)
	}
	if c.SourceLines[len(c.SourceLines)-1] != 2 {
		t.Errorf("linked line missing from provenance: %v", c.SourceLines)
	}
	if c.Confidence <= 0.5 {
		t.Errorf("confidence not recomputed after linking: %f", c.Confidence)
	}
}

func TestLinkContacts_ClaimedValuesNotRelinked(t *testing.T) {
	lines := SplitLines("Jane Doe jane@studioworks.com\nMike Ross")
	contacts := []Contact{
		{Name: "Jane Doe", Email: "jane@studioworks.com", Confidence: 0.6, SourceLines: []int{0}},
		{Name: "Mike Ross", Phone: "(555) 333-4444", Confidence: 0.5, SourceLines: []int{1}},
	}

	linked, _ := LinkContacts(contacts, lines, DefaultOptions())
	for _, c := range linked {
		if c.Name == "Mike Ross" && c.Email != "" {
			t.Errorf("claimed email leaked onto the wrong contact: %q", c.Email)
		}
	}
}

func TestLinkContacts_RemergesDuplicates(t *testing.T) {
	// The pass ends with a second merge, so duplicate contacts handed in
	// (or created by linking) collapse before returning.
	lines := SplitLines("Jane Doe\n555-111-2222 (cell)")
	contacts := []Contact{
		{Name: "Jane Doe", Role: "Producer", Confidence: 0.5, SourceLines: []int{0}},
		{Name: "Jane Doe", Phone: "(555) 111-2222", Confidence: 0.45, SourceLines: []int{1}},
	}

	linked, removed := LinkContacts(contacts, lines, DefaultOptions())
	if len(linked) != 1 {
		t.Fatalf("expected remerge down to 1 contact, got %d: %+v", len(linked), linked)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestAttachReportsTo(t *testing.T) {
	contacts := []Contact{
		{Name: "Ana Ruiz", Role: "Director Of Photography", Department: "Camera", SourceLines: []int{0}},
		{Name: "Bo Chen", Role: "1st Assistant Camera", Department: "Camera", SourceLines: []int{1}},
		{Name: "Cam Diaz", Role: "Gaffer", Department: "Grip & Electric", SourceLines: []int{2}},
		{Name: "Dee Park", Role: "2nd Assistant Camera", Department: "Camera", SourceLines: []int{3}},
	}

	attachReportsTo(contacts)

	if contacts[1].ReportsTo != "Ana Ruiz" {
		t.Errorf("Bo Chen reports to %q, want Ana Ruiz", contacts[1].ReportsTo)
	}
	if contacts[3].ReportsTo != "Ana Ruiz" {
		t.Errorf("Dee Park reports to %q, want Ana Ruiz (same department)", contacts[3].ReportsTo)
	}
	if contacts[0].ReportsTo != "" {
		t.Errorf("department head should not report to anyone, got %q", contacts[0].ReportsTo)
	}
	if contacts[2].ReportsTo != "" {
		t.Errorf("non-assistant should not report to anyone, got %q", contacts[2].ReportsTo)
	}
}

func TestAttachReportsTo_NoHeadAvailable(t *testing.T) {
	contacts := []Contact{
		{Name: "Bo Chen", Role: "1st Assistant Camera", SourceLines: []int{0}},
	}
	attachReportsTo(contacts)
	if contacts[0].ReportsTo != "" {
		t.Errorf("got %q with no head in the document", contacts[0].ReportsTo)
	}
}
