package documents_test

import (
	"net/url"
	"testing"

	"github.com/capraCoder/mamadoc/internal/documents"
)

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("status", "open")
	values.Set("urgency", "high")
	values.Set("sender", "Finanzamt")
	values.Set("issueId", "1f0a7e52-3c2e-4a40-9f6d-59f2a9f0c111")

	f := documents.FiltersFromQuery(values)

	if f.Status == nil || *f.Status != "open" {
		t.Errorf("Status = %v, want open", f.Status)
	}
	if f.Urgency == nil || *f.Urgency != "high" {
		t.Errorf("Urgency = %v, want high", f.Urgency)
	}
	if f.Sender == nil || *f.Sender != "Finanzamt" {
		t.Errorf("Sender = %v, want Finanzamt", f.Sender)
	}
	if f.IssueID == nil {
		t.Error("IssueID = nil, want set")
	}
	if f.DocType != nil || f.LetterType != nil {
		t.Errorf("unset filters should stay nil: %+v", f)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := documents.FiltersFromQuery(url.Values{})
	if f != (documents.Filters{}) {
		t.Errorf("FiltersFromQuery(empty) = %+v, want zero filters", f)
	}
}
