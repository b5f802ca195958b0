package issues_test

import (
	"testing"

	"github.com/capraCoder/mamadoc/internal/issues"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		letterType string
		want       string
	}{
		{"receipt resolves open", issues.StatusOpen, "receipt", issues.StatusResolved},
		{"confirmation resolves reopened", issues.StatusReopened, "confirmation", issues.StatusResolved},
		{"reminder reopens resolved", issues.StatusResolved, "reminder", issues.StatusReopened},
		{"final notice reopens resolved", issues.StatusResolved, "final_notice", issues.StatusReopened},
		{"original leaves open alone", issues.StatusOpen, "original", issues.StatusOpen},
		{"information leaves resolved alone", issues.StatusResolved, "information", issues.StatusResolved},
		{"other leaves open alone", issues.StatusOpen, "other", issues.StatusOpen},
		{"unknown letter type is inert", issues.StatusOpen, "postcard", issues.StatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := issues.NextStatus(tt.current, tt.letterType); got != tt.want {
				t.Errorf("NextStatus(%q, %q) = %q, want %q", tt.current, tt.letterType, got, tt.want)
			}
		})
	}
}
