package documents

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

var projection = query.NewProjectionMap("documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_hash", "ContentHash").
	Project("processed_at", "ProcessedAt").
	Project("doc_type", "DocType").
	Project("doc_date", "DocDate").
	Project("sender", "Sender").
	Project("subject", "Subject").
	Project("amount", "Amount").
	Project("deadline", "Deadline").
	Project("urgency", "Urgency").
	Project("letter_type", "LetterType").
	Project("reference_numbers", "ReferenceNumbers").
	Project("summary", "Summary").
	Project("recommendation", "Recommendation").
	Project("artifact_key", "ArtifactKey").
	Project("page_count", "PageCount").
	Project("status", "Status").
	Project("issue_id", "IssueID")

var defaultSort = query.SortField{
	Field:      "ProcessedAt",
	Descending: true,
}

// Filters narrow document list and search queries.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	Urgency    *string `json:"urgency,omitempty"`
	DocType    *string `json:"docType,omitempty"`
	LetterType *string `json:"letterType,omitempty"`
	Sender     *string `json:"sender,omitempty"`
	IssueID    *string `json:"issueId,omitempty"`
}

func (f Filters) Apply(b *query.Builder) {
	b.WhereEquals("Status", f.Status)
	b.WhereEquals("Urgency", f.Urgency)
	b.WhereEquals("DocType", f.DocType)
	b.WhereEquals("LetterType", f.LetterType)
	b.WhereContains("Sender", f.Sender)
	b.WhereEquals("IssueID", f.IssueID)
}

func FiltersFromQuery(values url.Values) Filters {
	f := Filters{}
	if v := values.Get("status"); v != "" {
		f.Status = &v
	}
	if v := values.Get("urgency"); v != "" {
		f.Urgency = &v
	}
	if v := values.Get("docType"); v != "" {
		f.DocType = &v
	}
	if v := values.Get("letterType"); v != "" {
		f.LetterType = &v
	}
	if v := values.Get("sender"); v != "" {
		f.Sender = &v
	}
	if v := values.Get("issueId"); v != "" {
		f.IssueID = &v
	}
	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d        Document
		refsJSON string
		issueID  uuid.NullUUID
	)

	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentHash,
		&d.ProcessedAt,
		&d.DocType,
		&d.DocDate,
		&d.Sender,
		&d.Subject,
		&d.Amount,
		&d.Deadline,
		&d.Urgency,
		&d.LetterType,
		&refsJSON,
		&d.Summary,
		&d.Recommendation,
		&d.ArtifactKey,
		&d.PageCount,
		&d.Status,
		&issueID,
	)
	if err != nil {
		return Document{}, err
	}

	if err := json.Unmarshal([]byte(refsJSON), &d.ReferenceNumbers); err != nil {
		d.ReferenceNumbers = nil
	}
	if issueID.Valid {
		d.IssueID = &issueID.UUID
	}

	return d, nil
}

func encodeRefs(refs []string) string {
	if refs == nil {
		refs = []string{}
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "[]"
	}
	return string(data)
}
