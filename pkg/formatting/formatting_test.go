package formatting_test

import (
	"errors"
	"testing"

	"github.com/capraCoder/mamadoc/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 50 * 1024 * 1024, 0, "50 MB"},
		{"negative precision clamps", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "1024", 1024, false},
		{"megabytes", "50MB", 50 * 1024 * 1024, false},
		{"lowercase with space", "2 kb", 2048, false},
		{"fractional", "1.5KB", 1536, false},
		{"empty", "", 0, true},
		{"unknown unit", "10XB", 0, true},
		{"garbage", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

type extractionShape struct {
	DocType string `json:"doc_type"`
	Sender  string `json:"sender"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    extractionShape
		wantErr bool
	}{
		{
			"direct json",
			`{"doc_type": "utility_bill", "sender": "Stadtwerke"}`,
			extractionShape{DocType: "utility_bill", Sender: "Stadtwerke"},
			false,
		},
		{
			"fenced json",
			"Here is the result:\n```json\n{\"doc_type\": \"pension\", \"sender\": \"DRV\"}\n```",
			extractionShape{DocType: "pension", Sender: "DRV"},
			false,
		},
		{
			"fence without language tag",
			"```\n{\"doc_type\": \"other\", \"sender\": \"X\"}\n```",
			extractionShape{DocType: "other", Sender: "X"},
			false,
		},
		{
			"no json at all",
			"I could not read the document.",
			extractionShape{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[extractionShape](tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, formatting.ErrParseFailed) {
				t.Errorf("Parse() error = %v, want ErrParseFailed", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
