package extract

import (
	"sort"
	"strings"
)

// Multi-pass linking. Single-pass strategies treat a name on one line and an
// email two lines later as separate partial contacts when no delimiter ties
// them together. The linking pass fixes that in two phases: phase 1 builds a
// line-indexed fact table, phase 2 resolves links by windowed lookups
// against it. It also attaches reportsTo hints for numbered-assistant roles
// without mutating any base field.

// lineFacts is the phase-1 fact table: contact tokens found per line.
type lineFacts struct {
	emails map[int]string
	phones map[int]string
	names  map[int]string
}

// buildLineFacts indexes every contact token in the document, skipping
// values already owned by a merged contact.
func buildLineFacts(lines []Line, contacts []Contact) *lineFacts {
	claimedEmails := make(map[string]struct{})
	claimedPhones := make(map[string]struct{})
	claimedNames := make(map[string]struct{})
	for _, c := range contacts {
		if c.Email != "" {
			claimedEmails[emailKey(c.Email)] = struct{}{}
		}
		if c.Phone != "" {
			claimedPhones[PhoneDigits(c.Phone)] = struct{}{}
		}
		if c.Name != "" {
			claimedNames[nameKey(c.Name)] = struct{}{}
		}
	}

	facts := &lineFacts{
		emails: make(map[int]string),
		phones: make(map[int]string),
		names:  make(map[int]string),
	}
	for _, line := range lines {
		if email := ExtractEmail(line.Text); email != "" {
			if _, claimed := claimedEmails[emailKey(email)]; !claimed {
				facts.emails[line.Index] = email
			}
		}
		if phone := ExtractPhone(line.Text); phone != "" {
			if _, claimed := claimedPhones[PhoneDigits(phone)]; !claimed {
				facts.phones[line.Index] = phone
			}
		}
		if name := nameOnlyLine(line.Text); name != "" {
			if _, claimed := claimedNames[nameKey(name)]; !claimed {
				facts.names[line.Index] = name
			}
		}
	}
	return facts
}

// LinkContacts runs the second pass: joins facts split across adjacent
// lines into the contacts missing them, then re-merges in case a newly
// attached key connects two previously separate contacts.
func LinkContacts(contacts []Contact, lines []Line, opts Options) ([]Contact, int) {
	if len(contacts) == 0 {
		return contacts, 0
	}
	opts = opts.normalize()
	facts := buildLineFacts(lines, contacts)

	for i := range contacts {
		c := &contacts[i]
		changed := false

		if c.Email == "" {
			if email, line := lookupWindow(facts.emails, c.SourceLines); email != "" {
				c.Email = email
				c.SourceLines = appendLineIndex(c.SourceLines, line)
				delete(facts.emails, line)
				changed = true
			}
		}
		if c.Phone == "" {
			if phone, line := lookupWindow(facts.phones, c.SourceLines); phone != "" {
				c.Phone = phone
				c.SourceLines = appendLineIndex(c.SourceLines, line)
				delete(facts.phones, line)
				changed = true
			}
		}
		if c.Name == "" {
			if name, line := lookupWindow(facts.names, c.SourceLines); name != "" {
				c.Name = name
				c.SourceLines = appendLineIndex(c.SourceLines, line)
				delete(facts.names, line)
				changed = true
			}
		}

		if changed {
			sort.Ints(c.SourceLines)
			c.Confidence, c.Level = Score(contactToCandidate(*c), opts)
		}
	}

	// A linked email or phone may now join contacts that single-pass
	// extraction kept apart; run the merge again so keys stay stable.
	merged, removed := remerge(contacts, opts)
	attachReportsTo(merged)
	return merged, removed
}

// lookupWindow finds the nearest fact within the proximity window of any of
// the contact's source lines, preferring smaller distances.
func lookupWindow(factTable map[int]string, sourceLines []int) (string, int) {
	for dist := 0; dist <= proximityWindow; dist++ {
		for _, src := range sourceLines {
			for _, line := range []int{src - dist, src + dist} {
				if v, ok := factTable[line]; ok {
					return v, line
				}
			}
		}
	}
	return "", -1
}

func contactToCandidate(c Contact) CandidateContact {
	cand := CandidateContact{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Role:       c.Role,
		Company:    c.Company,
		Department: c.Department,
		Strategy:   strings.Join(c.Strategies, "+"),
	}
	if len(c.SourceLines) > 0 {
		cand.SourceLines = map[string][]int{"merged": append([]int(nil), c.SourceLines...)}
	}
	return cand
}

// remerge runs the deduplicator over already-built contacts. Because the
// merge is idempotent this is a no-op unless linking attached a new key.
func remerge(contacts []Contact, opts Options) ([]Contact, int) {
	validated := make([]ValidatedContact, 0, len(contacts))
	for _, c := range contacts {
		sc := ScoredContact{
			CandidateContact: contactToCandidate(c),
			Confidence:       c.Confidence,
			Level:            c.Level,
		}
		validated = append(validated, ValidatedContact{
			ScoredContact: sc,
			Validation:    Validate(sc, opts),
		})
	}
	merged, removed := MergeCandidates(validated, opts)

	// Re-attach reportsTo hints that survived the merge by name.
	hints := make(map[string]string)
	for _, c := range contacts {
		if c.ReportsTo != "" && c.Name != "" {
			hints[nameKey(c.Name)] = c.ReportsTo
		}
	}
	for i := range merged {
		if hint, ok := hints[nameKey(merged[i].Name)]; ok && merged[i].ReportsTo == "" {
			merged[i].ReportsTo = hint
		}
	}
	return merged, removed
}

// attachReportsTo tags numbered-assistant contacts with the nearest
// preceding non-assistant contact in the same department. The hint is
// metadata only; no base field changes.
func attachReportsTo(contacts []Contact) {
	ordered := make([]*Contact, 0, len(contacts))
	for i := range contacts {
		ordered = append(ordered, &contacts[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return firstSourceLine(*ordered[i]) < firstSourceLine(*ordered[j])
	})

	lastHead := make(map[string]*Contact)
	for _, c := range ordered {
		dept := strings.ToLower(c.Department)
		if _, assistant := isAssistantRole(c.Role); assistant {
			head := lastHead[dept]
			if head == nil && dept != "" {
				head = lastHead[""]
			}
			if head != nil && head.Name != "" && head.Name != c.Name {
				c.ReportsTo = head.Name
			}
			continue
		}
		if c.Role != "" {
			lastHead[dept] = c
			lastHead[""] = c
		}
	}
}
