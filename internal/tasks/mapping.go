package tasks

import (
	"net/url"
	"strconv"
	"time"

	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

var projection = query.NewProjectionMap("tasks", "t").
	Project("id", "ID").
	Project("description", "Description").
	Project("deadline", "Deadline").
	Project("done", "Done").
	Project("done_at", "DoneAt").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrow task list and search queries.
type Filters struct {
	Done    *bool `json:"done,omitempty"`
	Overdue *bool `json:"overdue,omitempty"`
}

func (f Filters) Apply(b *query.Builder) {
	b.WhereEquals("Done", f.Done)

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
	if v := values.Get("overdue"); v != "" {
		if overdue, err := strconv.ParseBool(v); err == nil {
			f.Overdue = &overdue
		}
	}
	return f
}

func scanTask(s repository.Scanner) (Task, error) {
	var t Task
	err := s.Scan(
		&t.ID,
		&t.Description,
		&t.Deadline,
		&t.Done,
		&t.DoneAt,
		&t.Notes,
		&t.CreatedAt,
	)
	return t, err
}
