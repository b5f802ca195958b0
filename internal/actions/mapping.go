package actions

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

var projection = query.NewProjectionMap("action_items", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("description", "Description").
	Project("deadline", "Deadline").
	Project("done", "Done").
	Project("done_at", "DoneAt").
	Project("source", "Source").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrow action item list and search queries.
type Filters struct {
	Done       *bool   `json:"done,omitempty"`
	Source     *string `json:"source,omitempty"`
	DocumentID *string `json:"documentId,omitempty"`
	Overdue    *bool   `json:"overdue,omitempty"`
}

func (f Filters) Apply(b *query.Builder) {
	b.WhereEquals("Done", f.Done)
	b.WhereEquals("Source", f.Source)
	b.WhereEquals("DocumentID", f.DocumentID)

	if f.Overdue != nil && *f.Overdue {
		today := time.Now().UTC().Format("2006-01-02")
		done := false
		b.WhereBefore("Deadline", today)
		b.WhereEquals("Done", &done)
	}
}

func FiltersFromQuery(values url.Values) Filters {
	f := Filters{}
	if v := values.Get("done"); v != "" {
		if done, err := strconv.ParseBool(v); err == nil {
			f.Done = &done
		}
	}
	if v := values.Get("source"); v != "" {
		f.Source = &v
	}
	if v := values.Get("documentId"); v != "" {
		f.DocumentID = &v
	}
	if v := values.Get("overdue"); v != "" {
		if overdue, err := strconv.ParseBool(v); err == nil {
			f.Overdue = &overdue
		}
	}
	return f
}

func scanAction(s repository.Scanner) (Action, error) {
	var (
		a          Action
		documentID uuid.NullUUID
	)

	err := s.Scan(
		&a.ID,
		&documentID,
		&a.Description,
		&a.Deadline,
		&a.Done,
		&a.DoneAt,
		&a.Source,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		return Action{}, err
	}

	if documentID.Valid {
		a.DocumentID = &documentID.UUID
	}
	return a, nil
}
