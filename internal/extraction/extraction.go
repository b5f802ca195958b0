// Package extraction implements the vision extraction boundary. It turns
// rendered page images into structured document records, merges multi-page
// results, and validates the merged record before persistence.
package extraction

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Document type values the extraction model may return.
var ValidDocTypes = []string{
	"pflegeheim_invoice", "tax_notice", "tax_return", "health_insurance",
	"care_insurance", "medical_report", "government_notice", "pension",
	"bank_statement", "utility_bill", "legal_notice", "correspondence",
	"pharmacy", "other",
}

// Urgency values, ordered from most to least urgent.
var ValidUrgencies = []string{"critical", "high", "normal", "low"}

// Letter type values used for timeline grouping.
var ValidLetterTypes = []string{
	"original", "reminder", "final_notice", "receipt",
	"confirmation", "information", "other",
}

// UrgencyRank returns the sort rank of an urgency value (0 = most urgent).
// Unknown values rank below every valid urgency.
func UrgencyRank(urgency string) int {
	switch urgency {
	case "critical":
		return 0
	case "high":
		return 1
	case "normal":
		return 2
	case "low":
		return 3
	default:
		return 9
	}
}

// MaxUrgency returns the more urgent of two urgency values.
func MaxUrgency(a, b string) string {
	if UrgencyRank(b) < UrgencyRank(a) {
		return b
	}
	return a
}

// Amount is a monetary value that tolerates JSON numbers and numeric
// strings. Unparseable values decode to NaN so validation can null them
// out with a warning instead of failing the whole record.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*a = Amount(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(v)
	return nil
}

// StringList tolerates non-array JSON by decoding to an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		*l = nil
		return nil
	}
	*l = values
	return nil
}

// AmountLine is a single labeled amount from the document's line items.
type AmountLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// AmountLines tolerates non-array JSON by decoding to an empty list.
type AmountLines []AmountLine

func (l *AmountLines) UnmarshalJSON(data []byte) error {
	var values []AmountLine
	if err := json.Unmarshal(data, &values); err != nil {
		*l = nil
		return nil
	}
	*l = values
	return nil
}

// ActionItem is a single extracted action with an optional deadline.
type ActionItem struct {
	Action   string  `json:"action"`
	Deadline *string `json:"deadline"`
}

// ActionItems tolerates non-array JSON by decoding to an empty list.
type ActionItems []ActionItem

func (l *ActionItems) UnmarshalJSON(data []byte) error {
	var values []ActionItem
	if err := json.Unmarshal(data, &values); err != nil {
		*l = nil
		return nil
	}
	*l = values
	return nil
}

// Record is the structured extraction result for one page, and after
// merging, for a whole document. Dates are YYYY-MM-DD strings; nil means
// the model could not determine the value.
type Record struct {
	DocType          string      `json:"doc_type"`
	DocDate          *string     `json:"doc_date"`
	Sender           string      `json:"sender"`
	Subject          string      `json:"subject"`
	ReferenceNumbers StringList  `json:"reference_numbers"`
	Amount           *Amount     `json:"amount"`
	AmountsDetail    AmountLines `json:"amounts_detail"`
	Deadline         *string     `json:"deadline"`
	Urgency          string      `json:"urgency"`
	Summary          string      `json:"summary_en"`
	Recommendation   string      `json:"recommendation_en"`
	ActionItems      ActionItems `json:"action_items"`
	FullText         string      `json:"full_text_de"`
	KeyTerms         StringList  `json:"key_terms_de"`
	LetterType       string      `json:"letter_type"`
}

// AmountValue returns the record's amount as a plain float, or nil when
// absent or unparseable.
func (r *Record) AmountValue() *float64 {
	if r.Amount == nil || math.IsNaN(float64(*r.Amount)) {
		return nil
	}
	v := float64(*r.Amount)
	return &v
}
