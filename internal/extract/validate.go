package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation applies per-field format rules and a minimum-quality gate.
// Failures on identity fields (name, email) block; failures on optional
// fields (phone, role, company) only warn, so callers can distinguish hard
// failures from soft quality signals.

var (
	validNameRE    = regexp.MustCompile(`^\p{L}[\p{L}'’.\- ]{0,79}$`)
	validEmailRE   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	validRoleRE    = regexp.MustCompile(`^[\p{L}0-9][\p{L}0-9&/.'’\- ]{0,59}$`)
	validCompanyRE = regexp.MustCompile(`^.{1,100}$`)
)

// Validate checks one scored contact against the format rules and the
// weighted-quality gate from opts.MinQualityScore.
func Validate(sc ScoredContact, opts Options) Validation {
	opts = opts.normalize()

	v := Validation{IsValid: true}
	quality := 0.0

	// A contact with no name and no way to reach the person is not a
	// contact at all.
	if sc.Name == "" && sc.Email == "" && sc.Phone == "" {
		v.IsValid = false
		v.Reasons = append(v.Reasons, "no name, email, or phone extracted")
	}

	if sc.Name != "" {
		if validNameRE.MatchString(sc.Name) {
			quality += fieldWeights["name"]
		} else {
			v.IsValid = false
			v.Reasons = append(v.Reasons, fmt.Sprintf("name %q fails format check", sc.Name))
		}
	}

	if sc.Email != "" {
		if validEmailRE.MatchString(sc.Email) {
			quality += fieldWeights["email"]
		} else {
			v.IsValid = false
			v.Reasons = append(v.Reasons, fmt.Sprintf("email %q fails format check", sc.Email))
		}
	}

	if sc.Phone != "" {
		if n := len(digitsOnly(sc.Phone)); n >= 7 && n <= 15 {
			quality += fieldWeights["phone"]
		} else {
			v.Warnings = append(v.Warnings, fmt.Sprintf("phone %q has implausible digit count", sc.Phone))
		}
	}

	if sc.Role != "" {
		if validRoleRE.MatchString(sc.Role) {
			quality += fieldWeights["role"]
		} else {
			v.Warnings = append(v.Warnings, fmt.Sprintf("role %q fails format check", sc.Role))
		}
	}

	if sc.Company != "" {
		if validCompanyRE.MatchString(sc.Company) && strings.TrimSpace(sc.Company) != "" {
			quality += fieldWeights["company"]
		} else {
			v.Warnings = append(v.Warnings, fmt.Sprintf("company %q fails format check", sc.Company))
		}
	}

	v.QualityScore = quality
	if quality < opts.MinQualityScore {
		v.IsValid = false
		v.Reasons = append(v.Reasons,
			fmt.Sprintf("quality score %.2f below minimum %.2f", quality, opts.MinQualityScore))
	}

	return v
}

// validateContacts annotates every scored contact. Nothing is dropped here;
// the orchestrator filters on IsValid so rejection reasons stay available
// for diagnostics.
func validateContacts(scored []ScoredContact, opts Options) []ValidatedContact {
	out := make([]ValidatedContact, 0, len(scored))
	for _, sc := range scored {
		out = append(out, ValidatedContact{
			ScoredContact: sc,
			Validation:    Validate(sc, opts),
		})
	}
	return out
}
