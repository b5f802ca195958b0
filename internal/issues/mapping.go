package issues

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("issues", "i").
	Project("id", "ID").
	Project("title", "Title").
	Project("sender", "Sender").
	Project("sender_norm", "SenderNorm").
	Project("ref_numbers", "RefNumbers").
	Project("category", "Category").
	Project("status", "Status").
	Project("urgency", "Urgency").
	Project("first_seen", "FirstSeen").
	Project("latest_date", "LatestDate").
	Project("latest_deadline", "LatestDeadline").
	Project("latest_document_id", "LatestDocumentID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for issue queries.
// Nil fields are ignored. Sender uses case-insensitive contains matching.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Urgency  *string `json:"urgency,omitempty"`
	Category *string `json:"category,omitempty"`
	Sender   *string `json:"sender,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Urgency", f.Urgency).
		WhereEquals("Category", f.Category).
		WhereContains("Sender", f.Sender)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if u := values.Get("urgency"); u != "" {
		f.Urgency = &u
	}
	if c := values.Get("category"); c != "" {
		f.Category = &c
	}
	if s := values.Get("sender"); s != "" {
		f.Sender = &s
	}

	return f
}

func scanIssue(s repository.Scanner) (Issue, error) {
	var (
		i        Issue
		refsJSON string
		latest   uuid.NullUUID
	)

	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.Sender,
		&i.SenderNorm,
		&refsJSON,
		&i.Category,
		&i.Status,
		&i.Urgency,
		&i.FirstSeen,
		&i.LatestDate,
		&i.LatestDeadline,
		&latest,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return i, err
	}

	if latest.Valid {
		id := latest.UUID
		i.LatestDocumentID = &id
	}
	if err := json.Unmarshal([]byte(refsJSON), &i.RefNumbers); err != nil {
		i.RefNumbers = nil
	}

	return i, nil
}

func encodeRefs(refs []string) string {
	if refs == nil {
		refs = []string{}
	}
	data, _ := json.Marshal(refs)
	return string(data)
}
