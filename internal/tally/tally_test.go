package tally_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sinclairtarget/git-stats/internal/git"
	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

type memorySource struct {
	commits []git.Commit
	err     error
	query   git.Query
}

func (s *memorySource) Commits(ctx context.Context, q git.Query) (
	iter.Seq[git.Commit],
	func() error,
) {
	s.query = q

	seq := func(yield func(git.Commit) bool) {
		for _, c := range s.commits {
			if c.CommitterDate.Before(q.Since) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}

	return seq, func() error { return s.err }
}

func commit(hash string, name string, email string, date time.Time) git.Commit {
	return git.Commit{
		Hash:          hash,
		ShortHash:     hash,
		AuthorName:    name,
		AuthorEmail:   email,
		CommitterDate: date,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
}

func TestWindowStart(t *testing.T) {
	now := date(2024, time.March, 15)

	start := tally.WindowStart(period.Month, now)
	expected := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expected) {
		t.Errorf("expected window start %v but got %v", expected, start)
	}

	end := tally.WindowEnd(period.Month, start)
	expected = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !end.Equal(expected) {
		t.Errorf("expected window end %v but got %v", expected, end)
	}
}

func TestWindowStartWeek(t *testing.T) {
	// Thursday
	now := date(2024, time.January, 4)

	start := tally.WindowStart(period.Week, now)
	expected := time.Date(2023, time.October, 16, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expected) {
		t.Errorf("expected window start %v but got %v", expected, start)
	}
}

func TestTallyCommits(t *testing.T) {
	commits := []git.Commit{
		commit("baa", "A", "a@x", date(2024, time.March, 4)),
		commit("bab", "B", "b@y", date(2024, time.March, 12)),
		commit("bac", "A", "a@x", date(2024, time.March, 6)),
	}

	start := tally.WindowStart(period.Week, date(2024, time.March, 15))
	tallies := tally.TallyCommits(
		slices.Values(commits),
		period.Week,
		start,
		tally.TallyOpts{},
	)

	expected := []tally.AuthorTally{
		{
			Author:   "A <a@x>",
			Commits:  2,
			ByPeriod: map[string]int{"W10 24": 2},
		},
		{
			Author:   "B <b@y>",
			Commits:  1,
			ByPeriod: map[string]int{"W11 24": 1},
		},
	}

	if diff := cmp.Diff(expected, tallies.All()); diff != "" {
		t.Errorf("tallies are wrong:\n%s", diff)
	}
}

func TestTallyCommitsIdentityIsVerbatim(t *testing.T) {
	commits := []git.Commit{
		commit("baa", "Jim", "jim@mail.com", date(2024, time.March, 4)),
		commit("bab", "Jim", "JIM@mail.com", date(2024, time.March, 4)),
		commit("bac", "jim", "jim@mail.com", date(2024, time.March, 4)),
	}

	start := tally.WindowStart(period.Month, date(2024, time.March, 15))
	tallies := tally.TallyCommits(
		slices.Values(commits),
		period.Month,
		start,
		tally.TallyOpts{},
	)

	if tallies.Len() != 3 {
		t.Errorf("expected 3 distinct authors but got %d", tallies.Len())
	}

	byName := tally.TallyCommits(
		slices.Values(commits),
		period.Month,
		start,
		tally.TallyOpts{Key: tally.ByName},
	)
	if byName.Len() != 2 {
		t.Errorf("expected 2 distinct names but got %d", byName.Len())
	}
}

func TestTallyCommitsSkipsOutsideWindow(t *testing.T) {
	start := tally.WindowStart(period.Month, date(2024, time.March, 15))
	commits := []git.Commit{
		commit("baa", "A", "a@x", start.Add(-time.Second)),
		commit("bab", "A", "a@x", start),
		commit("bac", "A", "a@x", date(2024, time.April, 1)),
		commit("bad", "A", "a@x", date(2024, time.March, 31)),
	}

	tallies := tally.TallyCommits(
		slices.Values(commits),
		period.Month,
		start,
		tally.TallyOpts{},
	)

	a, ok := tallies.Get("A <a@x>")
	if !ok {
		t.Fatalf("expected tally for A")
	}

	expected := map[string]int{"Apr 2023": 1, "Mar 2024": 1}
	if diff := cmp.Diff(expected, a.ByPeriod); diff != "" {
		t.Errorf("period counts are wrong:\n%s", diff)
	}

	if a.Commits != 2 {
		t.Errorf("expected 2 commits but got %d", a.Commits)
	}
}

// Independent requests may run at once and share only package state such as
// the logger.
func TestTallyCommitsConcurrentRequests(t *testing.T) {
	start := tally.WindowStart(period.Month, date(2024, time.March, 15))
	commits := []git.Commit{
		commit("baa", "A", "a@x", start.Add(-time.Second)),
		commit("bab", "A", "a@x", start),
		commit("bac", "B", "b@x", date(2024, time.March, 2)),
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tallies := tally.TallyCommits(
				slices.Values(commits),
				period.Month,
				start,
				tally.TallyOpts{},
			)
			results[i] = tallies.Commits()
		}()
	}
	wg.Wait()

	for i, n := range results {
		if n != 2 {
			t.Errorf("request %d: expected 2 commits but got %d", i, n)
		}
	}
}

func TestTallyCommitsSkipsMerges(t *testing.T) {
	merge := commit("baa", "A", "a@x", date(2024, time.March, 4))
	merge.IsMerge = true
	commits := []git.Commit{
		merge,
		commit("bab", "B", "b@y", date(2024, time.March, 4)),
	}

	start := tally.WindowStart(period.Year, date(2024, time.March, 15))
	tallies := tally.TallyCommits(
		slices.Values(commits),
		period.Year,
		start,
		tally.TallyOpts{},
	)

	if _, ok := tallies.Get("A <a@x>"); ok {
		t.Errorf("expected merge commit to be skipped")
	}

	if tallies.Commits() != 1 {
		t.Errorf("expected 1 commit but got %d", tallies.Commits())
	}
}

func TestTallyCommitsOrderIndependent(t *testing.T) {
	commits := []git.Commit{
		commit("baa", "A", "a@x", date(2024, time.January, 4)),
		commit("bab", "B", "b@y", date(2024, time.February, 12)),
		commit("bac", "A", "a@x", date(2024, time.March, 6)),
		commit("bad", "B", "b@y", date(2023, time.December, 6)),
	}

	start := tally.WindowStart(period.Quarter, date(2024, time.March, 15))
	forward := tally.TallyCommits(
		slices.Values(commits),
		period.Quarter,
		start,
		tally.TallyOpts{},
	)

	slices.Reverse(commits)
	backward := tally.TallyCommits(
		slices.Values(commits),
		period.Quarter,
		start,
		tally.TallyOpts{},
	)

	for _, name := range []string{"A <a@x>", "B <b@y>"} {
		f, _ := forward.Get(name)
		b, _ := backward.Get(name)
		if diff := cmp.Diff(f, b); diff != "" {
			t.Errorf("tally for %s depends on order:\n%s", name, diff)
		}
	}
}

func TestCollect(t *testing.T) {
	now := date(2024, time.March, 15)
	start := tally.WindowStart(period.Month, now)
	src := &memorySource{
		commits: []git.Commit{
			commit("baa", "A", "a@x", date(2024, time.March, 4)),
			commit("bab", "A", "a@x", date(2022, time.March, 4)),
		},
	}

	tallies, err := tally.Collect(
		context.Background(),
		src,
		period.Month,
		start,
		"main",
		"docs",
		tally.TallyOpts{},
	)
	if err != nil {
		t.Fatalf("Collect() returned error: %v", err)
	}

	expectedQuery := git.Query{Rev: "main", Since: start, Path: "docs"}
	if diff := cmp.Diff(expectedQuery, src.query); diff != "" {
		t.Errorf("query is wrong:\n%s", diff)
	}

	if tallies.Commits() != 1 {
		t.Errorf("expected 1 commit but got %d", tallies.Commits())
	}
}

func TestCollectTraversalFailure(t *testing.T) {
	cause := errors.New("bad revision")
	src := &memorySource{
		commits: []git.Commit{
			commit("baa", "A", "a@x", date(2024, time.March, 4)),
		},
		err: cause,
	}

	tallies, err := tally.Collect(
		context.Background(),
		src,
		period.Month,
		tally.WindowStart(period.Month, date(2024, time.March, 15)),
		"nope",
		"",
		tally.TallyOpts{},
	)
	if tallies != nil {
		t.Errorf("expected no tallies on failure")
	}

	if !errors.Is(err, tally.ErrTraversal) {
		t.Errorf("expected ErrTraversal but got: %v", err)
	}

	if !errors.Is(err, cause) {
		t.Errorf("expected error to wrap cause but got: %v", err)
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tally.Collect(
		ctx,
		&memorySource{},
		period.Month,
		tally.WindowStart(period.Month, date(2024, time.March, 15)),
		"HEAD",
		"",
		tally.TallyOpts{},
	)

	if !errors.Is(err, tally.ErrTraversal) {
		t.Errorf("expected ErrTraversal but got: %v", err)
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled but got: %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	tallies := tally.NewTallies()
	tallies.Add("A", "Mar 2024")

	a, _ := tallies.Get("A")
	a.ByPeriod["Mar 2024"] = 100

	again, _ := tallies.Get("A")
	if again.Count("Mar 2024") != 1 {
		t.Errorf("expected stored count to be unchanged but got %d", again.Count("Mar 2024"))
	}
}
