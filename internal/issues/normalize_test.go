package issues_test

import (
	"reflect"
	"testing"

	"github.com/capraCoder/mamadoc/internal/issues"
)

func TestNormalizeSender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain name", "Stadtwerke München", "stadtwerke münchen"},
		{"gmbh suffix", "Stadtwerke München GmbH", "stadtwerke münchen"},
		{"compound suffix", "Wohnbau Meier GmbH & Co. KG", "wohnbau meier"},
		{"punctuation and casing", "AOK-Bayern,  Die Gesundheitskasse", "aok bayern die gesundheitskasse"},
		{"stacked suffixes", "Pflegedienst Sonne GmbH e.V.", "pflegedienst sonne"},
		{"suffix only survives", "GmbH", "gmbh"},
		{"whitespace collapse", "  Finanzamt   München  ", "finanzamt münchen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := issues.NormalizeSender(tt.input); got != tt.want {
				t.Errorf("NormalizeSender(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hyphenated", "VK-2024-551", "VK2024551"},
		{"spaced", "vk 2024 551", "VK2024551"},
		{"already compact", "VK2024551", "VK2024551"},
		{"punctuation only", "--/ .", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := issues.NormalizeRef(tt.input); got != tt.want {
				t.Errorf("NormalizeRef(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRefs(t *testing.T) {
	got := issues.NormalizeRefs([]string{"VK-2024-551", "vk 2024 551", "", "AZ/99", "AZ-99"})
	want := []string{"VK2024551", "AZ99"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeRefs() = %v, want %v", got, want)
	}
}
