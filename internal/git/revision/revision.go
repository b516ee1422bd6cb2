package revision

import (
	"regexp"
)

var commitHashRegexp *regexp.Regexp

func init() {
	commitHashRegexp = regexp.MustCompile(`^[a-f0-9]{40}$`)
}

// Returns true if this is a (full-length) Git revision hash, false otherwise.
//
// A full hash can be used as-is without asking the repository to resolve it.
func IsFullHash(s string) bool {
	return commitHashRegexp.MatchString(s)
}
