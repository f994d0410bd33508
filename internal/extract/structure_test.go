package extract

import (
	"strings"
	"testing"
)

func TestDetectStructure_Empty(t *testing.T) {
	profile := DetectStructure(SplitLines(""))

	if profile.Type != StructureFreeform {
		t.Errorf("expected freeform for empty input, got %s", profile.Type)
	}
	if profile.Confidence != 0 {
		t.Errorf("expected zero confidence, got %f", profile.Confidence)
	}
	if len(profile.Sections) != 0 {
		t.Errorf("expected zero sections, got %d", len(profile.Sections))
	}
}

func TestDetectStructure_PipeTable(t *testing.T) {
	text := "Name | Email | Phone | Role\n" +
		"John Smith | john@acmephoto.com | 555-123-4567 | Photographer\n" +
		"Jane Doe | jane@acmephoto.com | 555-765-4321 | Producer"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureTabular {
		t.Fatalf("expected tabular, got %s (scores: %v)", profile.Type, profile.Scores)
	}
	if profile.Confidence <= 0.5 {
		t.Errorf("expected strong confidence, got %f", profile.Confidence)
	}
}

func TestDetectStructure_TabTable(t *testing.T) {
	text := "Name\tEmail\tPhone\n" +
		"John Smith\tjohn@acmephoto.com\t555-123-4567\n" +
		"Jane Doe\tjane@acmephoto.com\t555-765-4321"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureTabular {
		t.Errorf("expected tabular, got %s", profile.Type)
	}
}

func TestDetectStructure_SlashDelimited(t *testing.T) {
	text := "Photographer: John Smith / 555-123-4567\n" +
		"Stylist: Maria Lopez / 555-222-3344\n" +
		"Digitech: Sam Katz / 555-999-8877"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureSlashDelimited {
		t.Fatalf("expected slash_delimited, got %s (scores: %v)", profile.Type, profile.Scores)
	}
}

func TestDetectStructure_KeyValue(t *testing.T) {
	text := "Name: Jane Doe\n" +
		"Email: jane@studioworks.com\n" +
		"Phone: 555-111-2222\n" +
		"\n" +
		"Name: Mike Ross\n" +
		"Email: mike@studioworks.com"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureKeyValue {
		t.Fatalf("expected key_value, got %s (scores: %v)", profile.Type, profile.Scores)
	}
}

func TestDetectStructure_Sectioned(t *testing.T) {
	text := "CREW\n" +
		"Photographer: John Smith / 555-123-4567\n" +
		"Digitech: Sam Katz / 555-999-8877\n" +
		"\n" +
		"TALENT\n" +
		"Model: BIANCA FELICIANO / Ford Models / 555-987-6543\n" +
		"\n" +
		"STYLING\n" +
		"Stylist: Maria Lopez / 555-222-3344"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureSectioned {
		t.Fatalf("expected sectioned, got %s (scores: %v)", profile.Type, profile.Scores)
	}
	if len(profile.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(profile.Sections))
	}

	wantDepts := map[string]string{
		"CREW":    "Production",
		"TALENT":  "Talent",
		"STYLING": "Styling",
	}
	for _, sec := range profile.Sections {
		if dept := wantDepts[sec.Header]; dept != sec.Department {
			t.Errorf("section %q: expected department %q, got %q", sec.Header, dept, sec.Department)
		}
		if len(sec.Lines) == 0 {
			t.Errorf("section %q has no member lines", sec.Header)
		}
	}
}

func TestDetectStructure_SectionHeaderVariants(t *testing.T) {
	cases := []struct {
		line string
		dept string
	}{
		{"CREW:", "Production"},
		{"  Talent  ", "Talent"},
		{"--- HAIR & MAKEUP ---", "Hair & Makeup"},
		{"G&E", "Grip & Electric"},
	}
	for _, tc := range cases {
		dept, ok := lookupSectionHeader(tc.line)
		if !ok {
			t.Errorf("lookupSectionHeader(%q): expected match", tc.line)
			continue
		}
		if dept != tc.dept {
			t.Errorf("lookupSectionHeader(%q): expected %q, got %q", tc.line, tc.dept, dept)
		}
	}
}

func TestDetectStructure_NotASectionHeader(t *testing.T) {
	for _, line := range []string{
		"",
		"Call time is 7am at the crew entrance",
		strings.Repeat("CREW ", 20),
	} {
		if _, ok := lookupSectionHeader(line); ok {
			t.Errorf("lookupSectionHeader(%q): expected no match", line)
		}
	}
}

func TestDetectStructure_Mixed(t *testing.T) {
	// Half the lines are slash-delimited, half tab-delimited: the two type
	// scores land close together and the profile should say so.
	text := "Photographer: John Smith / 555-123-4567\n" +
		"Stylist: Maria Lopez / 555-222-3344\n" +
		"Jane Doe\tjane@studioworks.com\t555-111-2222\n" +
		"Mike Ross\tmike@studioworks.com\t555-333-4444"

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureMixed {
		t.Fatalf("expected mixed, got %s (scores: %v)", profile.Type, profile.Scores)
	}
}

func TestDetectStructure_Prose(t *testing.T) {
	text := "The shoot wrapped early because of weather. Everyone should\n" +
		"check the updated schedule before tomorrow."

	profile := DetectStructure(SplitLines(text))

	if profile.Type != StructureFreeform {
		t.Errorf("expected freeform for prose, got %s", profile.Type)
	}
}
