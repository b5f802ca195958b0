package extraction

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate checks and coerces a merged extraction record in place.
// Missing required fields (doc_type, sender, summary) return
// ErrMissingRequired and the record must not be persisted. All other
// problems coerce to defaults and are reported as warnings.
func Validate(r *Record) ([]string, error) {
	var warnings []string
	var missing []string

	if r.DocType == "" {
		missing = append(missing, "doc_type")
	}
	if r.Sender == "" {
		missing = append(missing, "sender")
	}
	if r.Summary == "" {
		missing = append(missing, "summary_en")
	}
	if len(missing) > 0 {
		return warnings, fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	if !slices.Contains(ValidDocTypes, r.DocType) {
		warnings = append(warnings, fmt.Sprintf("unknown doc_type %q, defaulting to 'other'", r.DocType))
		r.DocType = "other"
	}

	if r.Urgency == "" {
		r.Urgency = "normal"
	} else if !slices.Contains(ValidUrgencies, r.Urgency) {
		warnings = append(warnings, fmt.Sprintf("unknown urgency %q, defaulting to 'normal'", r.Urgency))
		r.Urgency = "normal"
	}

	if r.LetterType != "" && !slices.Contains(ValidLetterTypes, r.LetterType) {
		warnings = append(warnings, fmt.Sprintf("unknown letter_type %q, defaulting to 'other'", r.LetterType))
		r.LetterType = "other"
	}

	if r.Amount != nil && math.IsNaN(float64(*r.Amount)) {
		warnings = append(warnings, "non-numeric amount, setting to null")
		r.Amount = nil
	}

	if r.DocDate != nil && !dateRE.MatchString(*r.DocDate) {
		warnings = append(warnings, fmt.Sprintf("invalid date format for doc_date: %q", *r.DocDate))
		r.DocDate = nil
	}
	if r.Deadline != nil && !dateRE.MatchString(*r.Deadline) {
		warnings = append(warnings, fmt.Sprintf("invalid date format for deadline: %q", *r.Deadline))
		r.Deadline = nil
	}

	if r.LetterType == "" || r.LetterType == "other" {
		if lt := letterTypeFromText(r.FullText); lt != "" {
			r.LetterType = lt
		} else if r.LetterType == "" {
			r.LetterType = "other"
		}
	}

	return warnings, nil
}

// letterTypeFromText infers a letter type from German keywords in the
// transcribed text. Final-notice keywords are checked before the weaker
// reminder keywords because "letzte Mahnung" contains "Mahnung".
func letterTypeFromText(text string) string {
	lower := strings.ToLower(text)

	for _, kw := range []string{"letzte mahnung", "androhung", "zwangsvollstreckung"} {
		if strings.Contains(lower, kw) {
			return "final_notice"
		}
	}
	for _, kw := range []string{"mahnung", "erinnerung", "zahlungserinnerung"} {
		if strings.Contains(lower, kw) {
			return "reminder"
		}
	}
	for _, kw := range []string{"quittung", "zahlungsbestätigung"} {
		if strings.Contains(lower, kw) {
			return "receipt"
		}
	}
	for _, kw := range []string{"bestätigung", "bescheinigung", "zusage"} {
		if strings.Contains(lower, kw) {
			return "confirmation"
		}
	}
	return ""
}
