package actions_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/capraCoder/mamadoc/internal/actions"
	"github.com/capraCoder/mamadoc/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("done", "false")
	values.Set("source", "manual")
	values.Set("overdue", "true")
	values.Set("documentId", "not checked here")

	f := actions.FiltersFromQuery(values)

	if f.Done == nil || *f.Done != false {
		t.Errorf("Done = %v, want false", f.Done)
	}
	if f.Source == nil || *f.Source != "manual" {
		t.Errorf("Source = %v, want manual", f.Source)
	}
	if f.Overdue == nil || !*f.Overdue {
		t.Errorf("Overdue = %v, want true", f.Overdue)
	}
}

func TestFiltersFromQueryIgnoresBadBools(t *testing.T) {
	values := url.Values{}
	values.Set("done", "maybe")
	values.Set("overdue", "tomorrow")

	f := actions.FiltersFromQuery(values)
	if f.Done != nil || f.Overdue != nil {
		t.Errorf("unparseable bools should stay nil: %+v", f)
	}
}

func TestOverdueFilterShape(t *testing.T) {
	overdue := true
	f := actions.Filters{Overdue: &overdue}

	b := query.NewBuilder(
		query.NewProjectionMap("action_items", "a").
			Project("id", "ID").
			Project("deadline", "Deadline").
			Project("done", "Done"),
	)
	f.Apply(b)

	sql, args := b.BuildCount()
	if !strings.Contains(sql, "a.deadline < $1") {
		t.Errorf("sql = %q, want a deadline comparison", sql)
	}
	if !strings.Contains(sql, "a.done = $2") {
		t.Errorf("sql = %q, want a done condition", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args length = %d, want 2", len(args))
	}
	if done, ok := args[1].(*bool); !ok || *done {
		t.Errorf("args[1] = %v, want pointer to false", args[1])
	}
}
