package tally

import (
	"cmp"
	"fmt"
	"slices"
)

const TotalName = "Total"

// Sorts tallies by commit count, most first.
//
// The sort is stable. Authors with equal counts keep the order in which
// they were first seen.
func Rank(tallies []AuthorTally) []AuthorTally {
	ranked := slices.Clone(tallies)
	slices.SortStableFunc(ranked, func(a, b AuthorTally) int {
		return -cmp.Compare(a.Commits, b.Commits)
	})

	return ranked
}

// Splits ranked tallies into the first top and the rest.
//
// A top of zero or less, or one covering every author, displays everyone.
func SelectTop(ranked []AuthorTally, top int) (displayed, rest []AuthorTally) {
	if top <= 0 || top >= len(ranked) {
		return ranked, nil
	}

	return ranked[:top], ranked[top:]
}

// Sums the tallies below the cutoff into a single "Others (n)" tally.
//
// Returns false when there is nothing to combine.
func CombineOthers(rest []AuthorTally) (AuthorTally, bool) {
	if len(rest) == 0 {
		return AuthorTally{}, false
	}

	name := fmt.Sprintf("Others (%d)", len(rest))
	return Combine(name, rest), true
}

func CombineTotal(all []AuthorTally) AuthorTally {
	return Combine(TotalName, all)
}
