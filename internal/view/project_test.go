package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedeck/internal/api"
)

func entry(name string, dir bool, size int64, mod time.Time) api.Entry {
	return api.Entry{Name: name, RelPath: name, IsDir: dir, Size: size, ModTime: mod}
}

func names(entries []api.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestProjectNameSortDirsFirst(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry("b", false, 1, now),
		entry("A", true, 0, now),
		entry("zeta", true, 0, now),
		entry("Alpha", false, 2, now),
	}

	out := Project(in, Options{SortKey: SortName})

	// Directories lead, case-insensitive name order within each group.
	assert.Equal(t, []string{"A", "zeta", "Alpha", "b"}, names(out))
}

func TestProjectMixedCaseFileBeforeUpperDir(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry("b", false, 0, now),
		entry("A", true, 0, now),
	}
	out := Project(in, Options{SortKey: SortName})
	assert.Equal(t, []string{"A", "b"}, names(out))
}

func TestProjectDateSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []api.Entry{
		entry("old", false, 0, base),
		entry("new", false, 0, base.Add(time.Hour)),
		entry("mid", false, 0, base.Add(time.Minute)),
	}
	out := Project(in, Options{SortKey: SortDate})
	assert.Equal(t, []string{"new", "mid", "old"}, names(out))
}

func TestProjectSizeSortLargestFirst(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry("small", false, 10, now),
		entry("big", false, 1000, now),
		entry("mid", false, 100, now),
	}
	out := Project(in, Options{SortKey: SortSize})
	assert.Equal(t, []string{"big", "mid", "small"}, names(out))
}

func TestProjectHiddenFilter(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry(".env", false, 0, now),
		entry("readme.md", false, 0, now),
		entry(".git", true, 0, now),
	}

	t.Run("suppressed by default", func(t *testing.T) {
		out := Project(in, Options{SortKey: SortName})
		assert.Equal(t, []string{"readme.md"}, names(out))
	})

	t.Run("shown when enabled", func(t *testing.T) {
		out := Project(in, Options{SortKey: SortName, ShowHidden: true})
		assert.Equal(t, []string{".git", ".env", "readme.md"}, names(out))
	})
}

func TestProjectSearch(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry("Report-Final.pdf", false, 0, now),
		entry("notes.txt", false, 0, now),
		entry("reports", true, 0, now),
	}

	t.Run("case insensitive substring", func(t *testing.T) {
		out := Project(in, Options{SortKey: SortName, Query: "report"})
		assert.Equal(t, []string{"reports", "Report-Final.pdf"}, names(out))
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		out := Project(in, Options{SortKey: SortName, Query: "   "})
		assert.Len(t, out, 3)
	})

	t.Run("hidden filter runs before search", func(t *testing.T) {
		withHidden := append([]api.Entry{entry(".report.swp", false, 0, now)}, in...)
		out := Project(withHidden, Options{SortKey: SortName, Query: "report"})
		assert.NotContains(t, names(out), ".report.swp")
	})
}

func TestProjectIsStableAndPure(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry("c", false, 5, now),
		entry("a", false, 5, now),
		entry("b", true, 0, now),
	}
	first := Project(in, Options{SortKey: SortSize})
	second := Project(in, Options{SortKey: SortSize})
	require.Equal(t, names(first), names(second))

	// Equal sizes keep their canonical relative order.
	assert.Equal(t, []string{"b", "c", "a"}, names(first))

	// The input slice itself is never reordered.
	assert.Equal(t, []string{"c", "a", "b"}, names(in))
}

func TestSortKeyCycle(t *testing.T) {
	assert.Equal(t, SortDate, SortName.Next())
	assert.Equal(t, SortSize, SortDate.Next())
	assert.Equal(t, SortName, SortSize.Next())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "This folder is empty", Summary(0, 0, 0))
	assert.Equal(t, "5 of 5 items", Summary(5, 5, 0))
	assert.Equal(t, "3 of 5 items (2 hidden)", Summary(3, 5, 2))
}

func TestHiddenCount(t *testing.T) {
	now := time.Now()
	in := []api.Entry{
		entry(".a", false, 0, now),
		entry("b", false, 0, now),
		entry(".c", true, 0, now),
	}
	assert.Equal(t, 2, HiddenCount(in))
}
