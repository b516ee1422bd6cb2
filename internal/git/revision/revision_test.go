package revision_test

import (
	"testing"

	"github.com/sinclairtarget/git-stats/internal/git/revision"
)

func TestIsFullHash(t *testing.T) {
	tests := map[string]bool{
		"bf4136de996e9fb1f38620350cb7185613d71193":  true,
		"bf4136d":                                   false,
		"HEAD":                                      false,
		"main":                                      false,
		"^bf4136de996e9fb1f38620350cb7185613d71193": false,
		"BF4136DE996E9FB1F38620350CB7185613D71193":  false,
	}

	for input, expected := range tests {
		if got := revision.IsFullHash(input); got != expected {
			t.Errorf("IsFullHash(%q): expected %v but got %v", input, expected, got)
		}
	}
}
