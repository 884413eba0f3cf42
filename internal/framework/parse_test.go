package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		delimiters []string
		wantName   string
		wantArgs   string
	}{
		{"space delimiter", "ping staff-role", []string{" "}, "ping", "staff-role"},
		{"no args", "latency", []string{" "}, "latency", ""},
		{"whitespace fallback", "ping staff-role", []string{", ", ","}, "ping", "staff-role"},
		{"comma-space beats comma at same index", "roll, d6", []string{", ", ","}, "roll", "d6"},
		{"comma only", "roll,d6", []string{", ", ","}, "roll", "d6"},
		{"earliest boundary wins", "roll,d6 twice", []string{", ", ","}, "roll", "d6 twice"},
		{"rest is trimmed", "ping   staff-role  ", []string{" "}, "ping", "staff-role"},
		{"no delimiters configured", "ping staff-role", nil, "ping", "staff-role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := splitCommand(tt.in, tt.delimiters)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
