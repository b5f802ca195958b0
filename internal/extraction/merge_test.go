package extraction_test

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/capraCoder/mamadoc/internal/extraction"
)

func TestMergeSinglePage(t *testing.T) {
	page := extraction.Record{DocType: "pension", Sender: "DRV", FullText: "Seite 1"}
	got := extraction.Merge([]extraction.Record{page})
	if !reflect.DeepEqual(got, page) {
		t.Errorf("Merge() = %+v, want the page unchanged", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	got := extraction.Merge(nil)
	if got.DocType != "" || got.FullText != "" {
		t.Errorf("Merge(nil) = %+v, want zero record", got)
	}
}

func TestMergeMultiPage(t *testing.T) {
	pages := []extraction.Record{
		{
			DocType:          "pflegeheim_invoice",
			Sender:           "Seniorenheim Rosengarten",
			Subject:          "Rechnung März",
			Urgency:          "normal",
			FullText:         "Seite 1",
			ReferenceNumbers: []string{"RG-100", "KD-7"},
			KeyTerms:         []string{"pflege"},
			ActionItems:      []extraction.ActionItem{{Action: "Überweisen"}},
		},
		{
			DocType:          "other",
			Sender:           "ignored on later pages",
			Urgency:          "high",
			FullText:         "Seite 2",
			ReferenceNumbers: []string{"KD-7", "RG-100", "AZ-3"},
			KeyTerms:         []string{"pflege", "eigenanteil"},
			ActionItems:      []extraction.ActionItem{{Action: "Anrufen"}},
		},
		{
			Urgency:  "low",
			FullText: "Seite 3",
		},
	}

	got := extraction.Merge(pages)

	if got.DocType != "pflegeheim_invoice" || got.Sender != "Seniorenheim Rosengarten" {
		t.Errorf("scalar fields = %q/%q, want page 1 values", got.DocType, got.Sender)
	}
	wantText := "Seite 1" + extraction.PageBreakMarker + "Seite 2" + extraction.PageBreakMarker + "Seite 3"
	if got.FullText != wantText {
		t.Errorf("FullText = %q, want %q", got.FullText, wantText)
	}
	if got.Urgency != "high" {
		t.Errorf("Urgency = %q, want %q", got.Urgency, "high")
	}
	wantRefs := extraction.StringList{"RG-100", "KD-7", "AZ-3"}
	if !reflect.DeepEqual(got.ReferenceNumbers, wantRefs) {
		t.Errorf("ReferenceNumbers = %v, want %v", got.ReferenceNumbers, wantRefs)
	}
	wantTerms := extraction.StringList{"pflege", "eigenanteil"}
	if !reflect.DeepEqual(got.KeyTerms, wantTerms) {
		t.Errorf("KeyTerms = %v, want %v", got.KeyTerms, wantTerms)
	}
	if len(got.ActionItems) != 2 {
		t.Errorf("ActionItems length = %d, want 2", len(got.ActionItems))
	}
}

func TestMergeAmountFallsBackToDetailSum(t *testing.T) {
	pages := []extraction.Record{
		{
			DocType: "utility_bill",
			AmountsDetail: []extraction.AmountLine{
				{Label: "Strom", Amount: 80.5},
			},
		},
		{
			AmountsDetail: []extraction.AmountLine{
				{Label: "Gas", Amount: 19.5},
			},
		},
	}

	got := extraction.Merge(pages)
	if got.AmountValue() == nil || *got.AmountValue() != 100.0 {
		t.Errorf("AmountValue() = %v, want 100.0", got.AmountValue())
	}
}

func TestMergeKeepsPageOneAmount(t *testing.T) {
	total := extraction.Amount(42.0)
	pages := []extraction.Record{
		{Amount: &total},
		{AmountsDetail: []extraction.AmountLine{{Label: "Extra", Amount: 9.0}}},
	}

	got := extraction.Merge(pages)
	if got.AmountValue() == nil || *got.AmountValue() != 42.0 {
		t.Errorf("AmountValue() = %v, want 42.0", got.AmountValue())
	}
}

func TestAmountDecodeLeniency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantNaN bool
	}{
		{"number", `123.45`, 123.45, false},
		{"numeric string", `"67.8"`, 67.8, false},
		{"empty string", `""`, 0, true},
		{"garbage string", `"1.234,56 EUR"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a extraction.Amount
			if err := json.Unmarshal([]byte(tt.input), &a); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if tt.wantNaN {
				if !math.IsNaN(float64(a)) {
					t.Errorf("Unmarshal(%s) = %v, want NaN", tt.input, a)
				}
			} else if float64(a) != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, a, tt.want)
			}
		})
	}
}

func TestStringListDecodeLeniency(t *testing.T) {
	var l extraction.StringList
	if err := json.Unmarshal([]byte(`"not a list"`), &l); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if l != nil {
		t.Errorf("Unmarshal() = %v, want nil", l)
	}

	if err := json.Unmarshal([]byte(`["a", "b"]`), &l); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(l, extraction.StringList{"a", "b"}) {
		t.Errorf("Unmarshal() = %v, want [a b]", l)
	}
}

func TestRecordDecode(t *testing.T) {
	raw := `{
		"doc_type": "tax_notice",
		"doc_date": "2026-02-14",
		"sender": "Finanzamt München",
		"subject": "Einkommensteuerbescheid 2025",
		"reference_numbers": ["123/456/78901"],
		"amount": "412.30",
		"urgency": "high",
		"summary_en": "Tax assessment with payment due.",
		"full_text_de": "Bescheid",
		"letter_type": "original"
	}`

	var rec extraction.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rec.DocType != "tax_notice" {
		t.Errorf("DocType = %q, want %q", rec.DocType, "tax_notice")
	}
	if rec.AmountValue() == nil || *rec.AmountValue() != 412.30 {
		t.Errorf("AmountValue() = %v, want 412.30", rec.AmountValue())
	}
	if !strings.Contains(rec.Subject, "2025") {
		t.Errorf("Subject = %q, want the assessment year retained", rec.Subject)
	}
}
