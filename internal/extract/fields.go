package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field extractors are stateless functions over a line and its surrounding
// context window. Each returns the empty string when no candidate is found;
// they never fail.

// proximityWindow is how far (in lines, both directions) a strategy looks
// for a missing field before giving up.
const proximityWindow = 2

var emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// usPhoneRE tolerates the common separator soup: spaces, dots, dashes,
// parentheses, optional +1 country code.
var usPhoneRE = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)

// intlPhoneRE matches explicit +CC numbers that are not US-shaped.
var intlPhoneRE = regexp.MustCompile(`\+\d{1,3}(?:[-.\s]?\(?\d{1,4}\)?){2,5}`)

// capitalizedRunRE matches runs of two or more capitalized word tokens.
// Hyphens, apostrophes, and non-ASCII letters are part of a name token.
var capitalizedRunRE = regexp.MustCompile(`\p{Lu}[\p{L}'’\-]*(?:\s+\p{Lu}[\p{L}'’\-]*)+`)

// singleCapWordRE matches one capitalized word, used only in contexts where
// a bare first name is plausible (role-prefix lines).
var singleCapWordRE = regexp.MustCompile(`\p{Lu}[\p{L}'’\-]+`)

// rolePrefixRE splits a `Role: rest` line. The role side deliberately
// excludes slashes and long spans so URLs and prose don't qualify.
var rolePrefixRE = regexp.MustCompile(`^([^:/\t|]{1,40}):\s*(.+)$`)

// ExtractEmail returns the first email address on the line.
func ExtractEmail(text string) string {
	return emailRE.FindString(text)
}

// ExtractPhone returns the first phone-number-shaped token on the line,
// normalized for display. US numbers win over international when both match.
func ExtractPhone(text string) string {
	// Avoid reading digit runs inside email addresses as phone fragments.
	text = emailRE.ReplaceAllString(text, " ")
	if m := usPhoneRE.FindString(text); m != "" {
		return NormalizePhone(m)
	}
	if m := intlPhoneRE.FindString(text); m != "" {
		return NormalizePhone(m)
	}
	return ""
}

// NormalizePhone canonicalizes a raw phone token. US numbers become
// `(NNN) NNN-NNNN`; non-US numbers keep their leading + and grouping.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	digits := digitsOnly(raw)
	switch {
	case len(digits) == 10:
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:10]
	case len(digits) == 11 && digits[0] == '1':
		return "(" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:11]
	}

	// Non-US: preserve the + and the author's grouping, collapsing runs of
	// whitespace so output stays single-line.
	cleaned := strings.Join(strings.Fields(raw), " ")
	if !strings.HasPrefix(cleaned, "+") && len(digits) > 10 {
		cleaned = "+" + cleaned
	}
	return cleaned
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneDigits returns the bare digit string used as a dedup merge key.
func PhoneDigits(phone string) string {
	d := digitsOnly(phone)
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	return d
}

// ExtractName pulls a person name from a line, in preference order:
// the name after a `Role:` prefix, a capitalized run immediately preceding
// an email or phone token, then any capitalized run in the line.
func ExtractName(text string) string {
	if m := rolePrefixRE.FindStringSubmatch(text); m != nil {
		if name := nameFromSegment(m[2]); name != "" {
			return name
		}
	}
	if name := nameBeforeContactToken(text); name != "" {
		return name
	}
	return nameAnywhere(text)
}

// normalizeName cleans an extracted name run. ALL-CAPS runs fold to Title
// Case; mixed-case runs keep their original capitalization so interior
// capitals and apostrophes survive (McDonald, O'Brien).
func normalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if isAllCapsSpan(s) {
		return titleCase(s)
	}
	return s
}

// nameFromSegment extracts the leading name from text that is expected to
// start with one, stopping at the first delimiter.
func nameFromSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	for _, delim := range []string{"/", "|", ",", "\t", " - ", " – ", " — "} {
		if idx := strings.Index(segment, delim); idx > 0 {
			segment = segment[:idx]
		}
	}
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}
	if run := capitalizedRunRE.FindString(segment); run != "" && looksLikeName(run) {
		return normalizeName(run)
	}
	if allCapsRun := strings.TrimSpace(segment); isAllCapsName(allCapsRun) {
		return titleCase(allCapsRun)
	}
	// A lone capitalized word right after a role prefix is plausibly a
	// first name or mononym.
	if word := singleCapWordRE.FindString(segment); word != "" && word == segment && looksLikeName(word) {
		return normalizeName(word)
	}
	return ""
}

// nameBeforeContactToken finds a capitalized run that ends just before an
// email or phone token on the same line.
func nameBeforeContactToken(text string) string {
	contactIdx := -1
	if loc := emailRE.FindStringIndex(text); loc != nil {
		contactIdx = loc[0]
	}
	if loc := usPhoneRE.FindStringIndex(text); loc != nil && (contactIdx < 0 || loc[0] < contactIdx) {
		contactIdx = loc[0]
	}
	if contactIdx <= 0 {
		return ""
	}

	prefix := text[:contactIdx]
	best := ""
	for _, run := range capitalizedRunRE.FindAllString(prefix, -1) {
		if looksLikeName(run) {
			best = run // keep the run closest to the token
		}
	}
	if best == "" {
		return ""
	}
	return normalizeName(best)
}

// nameAnywhere falls back to the first plausible capitalized run in the line.
func nameAnywhere(text string) string {
	for _, run := range capitalizedRunRE.FindAllString(text, -1) {
		if looksLikeName(run) {
			return normalizeName(run)
		}
	}
	return ""
}

// looksLikeName filters capitalized runs that are really role titles,
// section headers, or shouting prose.
func looksLikeName(run string) bool {
	run = strings.TrimSpace(run)
	if run == "" {
		return false
	}
	words := strings.Fields(run)
	if len(words) > 4 {
		return false
	}
	if len(run) < 2 || len(run) > 60 {
		return false
	}
	lower := strings.ToLower(run)
	for _, role := range roleVocabulary {
		if lower == role {
			return false
		}
	}
	if _, ok := sectionHeaderVocabulary[lower]; ok {
		return false
	}
	return true
}

// isAllCapsName reports whether the text is an ALL-CAPS name run
// ("BIANCA FELICIANO"). Accepted and Title-Cased downstream.
func isAllCapsName(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		for _, r := range w {
			if r >= 'a' && r <= 'z' {
				return false
			}
			if !isNameRune(r) {
				return false
			}
		}
	}
	return looksLikeName(s)
}

func isNameRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return false
	}
	return r == '\'' || r == '’' || r == '-' || r == '.' || r == ' ' || isLetterRune(r)
}

func isLetterRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127
}

// titleCase normalizes a name or title to Title Case. ALL-CAPS input is
// lowered first so "BIANCA FELICIANO" becomes "Bianca Feliciano". Words
// starting with a digit keep their case ("1st assistant camera" stays
// "1st Assistant Camera").
func titleCase(s string) string {
	caser := cases.Title(language.English)
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		if w[0] >= '0' && w[0] <= '9' {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// ExtractRole matches the line against the role vocabulary, falling back to
// the `Role:` prefix text. Returns "" when neither applies; strategies fill
// in GenericRole at candidate build time if they want a placeholder.
func ExtractRole(text string) string {
	if role, ok := matchRoleVocabulary(text); ok {
		return role
	}
	if m := rolePrefixRE.FindStringSubmatch(text); m != nil {
		prefix := strings.TrimSpace(m[1])
		if prefix != "" && len(prefix) <= 40 && !looksLikeName(prefix) {
			return titleCase(prefix)
		}
	}
	return ""
}

// rolePrefixParts splits a `Role: rest` line, returning ok only when the
// prefix side is short enough to be a role label.
func rolePrefixParts(text string) (role, rest string, ok bool) {
	m := rolePrefixRE.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// CompanyFromEmail derives a company name from an email domain. Consumer
// providers carry no signal and return "".
func CompanyFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	if _, free := freeEmailProviders[domain]; free {
		return ""
	}
	label := domain
	if dot := strings.Index(label, "."); dot > 0 {
		label = label[:dot]
	}
	if label == "" {
		return ""
	}
	return titleCase(label)
}

// companySpanRE matches a multi-word Title-Case or ALL-CAPS span that could
// be an organization name ("Silver Lake Studios", "APEX MEDIA GROUP").
var companySpanRE = regexp.MustCompile(`(?:\p{Lu}[\p{L}&.'’\-]*\s+){1,4}\p{Lu}[\p{L}&.'’\-]*`)

// ExtractCompanySpan finds an organization-looking span not already claimed
// by the name or role.
func ExtractCompanySpan(text string, claimed ...string) string {
	for _, span := range companySpanRE.FindAllString(text, -1) {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		lower := strings.ToLower(span)
		if _, isRole := matchRoleVocabulary(span); isRole && len(strings.Fields(span)) <= 3 {
			continue
		}
		skip := false
		for _, c := range claimed {
			if c == "" {
				continue
			}
			cl := strings.ToLower(c)
			if strings.Contains(lower, cl) || strings.Contains(cl, lower) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if hasCompanyMarker(span) || isAllCapsSpan(span) {
			return normalizeName(span)
		}
	}
	return ""
}

func hasAgencyMarker(span string) bool {
	lower := strings.ToLower(span)
	for _, marker := range agencyMarkers {
		if containsWord(lower, marker) {
			return true
		}
	}
	return false
}

func hasCompanyMarker(span string) bool {
	lower := strings.ToLower(span)
	for _, marker := range companyMarkers {
		if containsWord(lower, marker) {
			return true
		}
	}
	return false
}

func isAllCapsSpan(span string) bool {
	hasUpper := false
	for _, r := range span {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}

// findNearby searches the candidate's own line first, then outward in both
// directions up to proximityWindow lines, and returns the first hit plus the
// line index it came from.
func findNearby(lines []Line, idx int, fn func(string) string) (string, int) {
	if idx < 0 || idx >= len(lines) {
		return "", -1
	}
	if v := fn(lines[idx].Text); v != "" {
		return v, idx
	}
	for dist := 1; dist <= proximityWindow; dist++ {
		if before := idx - dist; before >= 0 {
			if v := fn(lines[before].Text); v != "" {
				return v, before
			}
		}
		if after := idx + dist; after < len(lines) {
			if v := fn(lines[after].Text); v != "" {
				return v, after
			}
		}
	}
	return "", -1
}
