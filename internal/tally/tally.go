// Handles summations over commits.
package tally

import (
	"fmt"
	"maps"

	"github.com/sinclairtarget/git-stats/internal/git"
)

type TallyOpts struct {
	Key func(c git.Commit) string // Unique ID for author
}

// Groups commits by the author identity exactly as Git reports it.
func ByIdentity(c git.Commit) string {
	return c.Identity()
}

// Groups commits by author name only, merging addresses.
func ByName(c git.Commit) string {
	return c.AuthorName
}

// Commit counts for a single author.
//
// Commits always equals the sum of the counts in ByPeriod.
type AuthorTally struct {
	Author   string
	Commits  int
	ByPeriod map[string]int // Period label to commit count
}

// Commits in the period with the given label.
func (t AuthorTally) Count(label string) int {
	return t.ByPeriod[label]
}

func (t AuthorTally) String() string {
	return fmt.Sprintf("{ author:%s commits:%d }", t.Author, t.Commits)
}

// Returns the sum of the given tallies under a new name.
func Combine(name string, tallies []AuthorTally) AuthorTally {
	combined := AuthorTally{
		Author:   name,
		ByPeriod: map[string]int{},
	}

	for _, t := range tallies {
		combined.Commits += t.Commits
		for label, count := range t.ByPeriod {
			combined.ByPeriod[label] += count
		}
	}

	return combined
}

// Author tallies in the order each author was first seen.
type Tallies struct {
	order    []string
	byAuthor map[string]*AuthorTally
}

func NewTallies() *Tallies {
	return &Tallies{byAuthor: map[string]*AuthorTally{}}
}

// Counts one commit for author in the period with the given label.
func (ts *Tallies) Add(author string, label string) {
	t, ok := ts.byAuthor[author]
	if !ok {
		t = &AuthorTally{Author: author, ByPeriod: map[string]int{}}
		ts.byAuthor[author] = t
		ts.order = append(ts.order, author)
	}

	t.Commits += 1
	t.ByPeriod[label] += 1
}

func (ts *Tallies) Len() int {
	return len(ts.order)
}

func (ts *Tallies) Get(author string) (AuthorTally, bool) {
	t, ok := ts.byAuthor[author]
	if !ok {
		return AuthorTally{}, false
	}

	return copyTally(*t), true
}

// Copies of every tally, in first-seen order.
func (ts *Tallies) All() []AuthorTally {
	all := make([]AuthorTally, 0, len(ts.order))
	for _, author := range ts.order {
		all = append(all, copyTally(*ts.byAuthor[author]))
	}

	return all
}

// Number of commits tallied across all authors.
func (ts *Tallies) Commits() int {
	total := 0
	for _, t := range ts.byAuthor {
		total += t.Commits
	}

	return total
}

func copyTally(t AuthorTally) AuthorTally {
	t.ByPeriod = maps.Clone(t.ByPeriod)
	return t
}
