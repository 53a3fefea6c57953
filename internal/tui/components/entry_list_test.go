package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sharedeck/internal/api"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatSize(c.in))
	}
}

func sample(n int) []api.Entry {
	now := time.Now()
	entries := make([]api.Entry, n)
	for i := range entries {
		name := string(rune('a'+i)) + ".txt"
		entries[i] = api.Entry{Name: name, RelPath: name, Size: int64(i), ModTime: now}
	}
	return entries
}

func TestRenderListEmpty(t *testing.T) {
	out := RenderList(nil, 0, "", 80, 20)
	assert.Contains(t, out, "nothing to show")
}

func TestRenderListMarksCursorAndSelection(t *testing.T) {
	entries := sample(3)
	out := RenderList(entries, 1, "c.txt", 80, 20)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "> ")
	assert.Contains(t, lines[1], "b.txt")
	assert.Contains(t, lines[2], "* ")
}

func TestRenderListWindowFollowsCursor(t *testing.T) {
	entries := sample(26)

	top := RenderList(entries, 0, "", 80, 5)
	assert.Contains(t, top, "a.txt")
	assert.NotContains(t, top, "z.txt")

	bottom := RenderList(entries, 25, "", 80, 5)
	assert.Contains(t, bottom, "z.txt")
	assert.NotContains(t, bottom, "a.txt")
}

func TestRenderListDirSuffix(t *testing.T) {
	entries := []api.Entry{{Name: "docs", RelPath: "docs", IsDir: true}}
	out := RenderList(entries, 0, "", 80, 20)
	assert.Contains(t, out, "docs/")
	// Directories show no byte size.
	assert.NotContains(t, out, "0 B")
}

func TestRenderGridSameInputsAsList(t *testing.T) {
	entries := sample(4)
	// Both surfaces consume the identical projected slice and cursor, so
	// every entry visible in one is visible in the other.
	grid := RenderGrid(entries, 2, "a.txt", 100, 20)
	list := RenderList(entries, 2, "a.txt", 100, 20)
	for _, e := range entries {
		assert.Contains(t, grid, e.Name)
		assert.Contains(t, list, e.Name)
	}
}

func TestRenderBreadcrumbs(t *testing.T) {
	t.Run("empty trail is root", func(t *testing.T) {
		assert.Contains(t, RenderBreadcrumbs(nil), "root")
	})

	t.Run("unnamed first crumb labeled root", func(t *testing.T) {
		out := RenderBreadcrumbs([]api.Breadcrumb{
			{Name: "", Path: ""},
			{Name: "docs", Path: "docs"},
			{Name: "2026", Path: "docs/2026"},
		})
		assert.Contains(t, out, "root")
		assert.Contains(t, out, "docs")
		assert.Contains(t, out, "2026")
	})
}
