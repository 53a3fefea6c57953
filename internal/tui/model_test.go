package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedeck/internal/api"
	"sharedeck/internal/commands"
	"sharedeck/internal/prefs"
	"sharedeck/internal/tui/messages"
	"sharedeck/internal/upload"
	"sharedeck/internal/view"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	client, err := api.New("http://files.test")
	require.NoError(t, err)
	m := New(client, prefs.NewStore(t.TempDir()), "", nil)
	m.width = 100
	m.height = 40
	return m
}

func listing(path string, entries ...api.Entry) *api.Listing {
	return &api.Listing{Path: path, Entries: entries}
}

func apply(m *Model, l *api.Listing) {
	m.Update(messages.ListingMsg{Listing: l})
}

func key(m *Model, k string) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m.Update(msg)
}

func entryNames(entries []api.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListingAppliedAndProjected(t *testing.T) {
	m := testModel(t)
	now := time.Now()
	apply(m, listing("",
		api.Entry{Name: "b.txt", RelPath: "b.txt", ModTime: now},
		api.Entry{Name: ".hidden", RelPath: ".hidden", ModTime: now},
		api.Entry{Name: "docs", RelPath: "docs", IsDir: true, ModTime: now},
	))

	// Hidden suppressed by default, dirs first.
	assert.Equal(t, []string{"docs", "b.txt"}, entryNames(m.projected))
	assert.Equal(t, "", m.nav.State().Path())
}

func TestListingErrorKeepsPriorState(t *testing.T) {
	m := testModel(t)
	apply(m, listing("", api.Entry{Name: "keep.txt", RelPath: "keep.txt"}))

	m.Update(messages.ListingMsg{Err: assert.AnError})

	assert.Equal(t, []string{"keep.txt"}, entryNames(m.projected))
	assert.Contains(t, m.status.View(), assert.AnError.Error())
}

func TestViewToggleKeepsCursorAndProjection(t *testing.T) {
	m := testModel(t)
	apply(m, listing("",
		api.Entry{Name: "a.txt", RelPath: "a.txt"},
		api.Entry{Name: "b.txt", RelPath: "b.txt"},
		api.Entry{Name: "c.txt", RelPath: "c.txt"},
	))
	key(m, "j")
	key(m, "j")
	require.Equal(t, 2, m.cursor)
	before := entryNames(m.projected)

	key(m, "v")
	assert.Equal(t, prefs.ViewGrid, m.ui.ViewMode)
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, before, entryNames(m.projected))

	key(m, "v")
	assert.Equal(t, prefs.ViewList, m.ui.ViewMode)
	assert.Equal(t, 2, m.cursor)
}

func TestHiddenToggleReprojects(t *testing.T) {
	m := testModel(t)
	apply(m, listing("",
		api.Entry{Name: ".env", RelPath: ".env"},
		api.Entry{Name: "app.go", RelPath: "app.go"},
	))
	require.Len(t, m.projected, 1)

	key(m, ".")
	assert.Len(t, m.projected, 2)
	key(m, ".")
	assert.Len(t, m.projected, 1)
}

func TestSortCycleKey(t *testing.T) {
	m := testModel(t)
	require.Equal(t, view.SortName, m.sortKey)
	key(m, "s")
	assert.Equal(t, view.SortDate, m.sortKey)
	key(m, "s")
	assert.Equal(t, view.SortSize, m.sortKey)
	key(m, "s")
	assert.Equal(t, view.SortName, m.sortKey)
}

func TestSearchFiltersAsTyped(t *testing.T) {
	m := testModel(t)
	apply(m, listing("",
		api.Entry{Name: "report.pdf", RelPath: "report.pdf"},
		api.Entry{Name: "notes.txt", RelPath: "notes.txt"},
	))

	key(m, "/")
	require.True(t, m.searching)
	key(m, "r")
	key(m, "e")
	key(m, "p")
	assert.Equal(t, []string{"report.pdf"}, entryNames(m.projected))

	key(m, "enter")
	assert.False(t, m.searching)
	assert.Equal(t, []string{"report.pdf"}, entryNames(m.projected))

	// Esc outside search mode clears the filter.
	key(m, "esc")
	assert.Len(t, m.projected, 2)
}

func TestCursorFollowsEntryAcrossReprojection(t *testing.T) {
	m := testModel(t)
	apply(m, listing("",
		api.Entry{Name: "a.txt", RelPath: "a.txt", Size: 1},
		api.Entry{Name: "b.txt", RelPath: "b.txt", Size: 100},
		api.Entry{Name: "c.txt", RelPath: "c.txt", Size: 10},
	))
	key(m, "j")
	require.Equal(t, "b.txt", m.projected[m.cursor].Name)

	// Re-sorting moves the entry, not the focus.
	key(m, "s") // date
	key(m, "s") // size
	assert.Equal(t, "b.txt", m.projected[m.cursor].Name)
}

func TestCommandPaneFollowsSelection(t *testing.T) {
	m := testModel(t)
	m.remote = prefs.Remote{User: "alice", Host: "h", Port: "2222", Base: "/srv"}
	apply(m, listing("docs", api.Entry{Name: "a.txt", RelPath: "docs/a.txt"}))

	assert.Contains(t, m.commandPane(), commands.Placeholder)

	key(m, "c")
	pane := m.commandPane()
	assert.Contains(t, pane, `scp -P 2222 "./docs/a.txt" alice@h:"/srv/docs/a.txt"`)

	key(m, "C")
	assert.Contains(t, m.commandPane(), commands.Placeholder)
}

func TestSelectionClearedResetsCommandPane(t *testing.T) {
	m := testModel(t)
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))
	key(m, "c")
	require.Equal(t, "a.txt", m.nav.State().Selection())

	// The entry vanished server-side; the refreshed listing clears the
	// selection and the pane drops back to the placeholder.
	apply(m, listing("", api.Entry{Name: "other.txt", RelPath: "other.txt"}))
	assert.Empty(t, m.nav.State().Selection())
	assert.Contains(t, m.commandPane(), commands.Placeholder)
}

func TestMutationsGatedByPermissions(t *testing.T) {
	m := testModel(t)
	m.me = &api.Identity{Permissions: api.Permissions{CanBrowse: true}}
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))

	key(m, "R")
	assert.Equal(t, promptNone, m.prompt, "rename denied without permission")
	key(m, "X")
	assert.Equal(t, promptNone, m.prompt, "delete denied without permission")
	key(m, "S")
	assert.Equal(t, promptNone, m.prompt, "share denied without permission")

	m.me.Permissions = api.Permissions{CanRename: true, CanDelete: true, CanShare: true}
	key(m, "R")
	assert.Equal(t, promptRename, m.prompt)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := testModel(t)
	m.me = &api.Identity{Permissions: api.Permissions{CanDelete: true}}
	apply(m, listing("", api.Entry{Name: "junk.txt", RelPath: "junk.txt"}))

	key(m, "X")
	require.Equal(t, promptDeleteConfirm, m.prompt)

	// Anything but y cancels.
	key(m, "n")
	assert.Equal(t, promptNone, m.prompt)
	assert.Contains(t, m.status.View(), "cancelled")
}

func TestRenamePromptRejectsNoOps(t *testing.T) {
	m := testModel(t)
	m.me = &api.Identity{Permissions: api.Permissions{CanRename: true}}
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))

	key(m, "R")
	require.Equal(t, promptRename, m.prompt)
	// Prefilled with the current name; submitting unchanged is a no-op.
	assert.Equal(t, "a.txt", m.promptInput.Value())
	key(m, "enter")
	assert.Equal(t, promptNone, m.prompt)
	assert.Contains(t, m.status.View(), "cancelled")
}

func TestActionsForGating(t *testing.T) {
	full := api.Permissions{CanShare: true, CanRename: true, CanDelete: true}
	labels := func(entry api.Entry, perms api.Permissions) []string {
		var out []string
		for _, a := range ActionsFor(entry, perms) {
			out = append(out, a.Label)
		}
		return out
	}

	t.Run("file with full permissions", func(t *testing.T) {
		got := labels(api.Entry{Name: "a.txt"}, full)
		assert.Contains(t, got, "preview")
		assert.Contains(t, got, "download")
		assert.Contains(t, got, "share link")
		assert.Contains(t, got, "rename")
		assert.Contains(t, got, "delete")
		assert.NotContains(t, got, "download zip")
	})

	t.Run("directory gets zip not preview", func(t *testing.T) {
		got := labels(api.Entry{Name: "docs", IsDir: true}, full)
		assert.Contains(t, got, "open")
		assert.Contains(t, got, "download zip")
		assert.NotContains(t, got, "preview")
	})

	t.Run("read-only viewer", func(t *testing.T) {
		got := labels(api.Entry{Name: "a.txt"}, api.Permissions{CanBrowse: true})
		assert.NotContains(t, got, "rename")
		assert.NotContains(t, got, "delete")
		assert.NotContains(t, got, "share link")
		assert.Contains(t, got, "copy name")
	})
}

func TestExpiredSessionQuitsTheLoop(t *testing.T) {
	m := testModel(t)
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))

	_, cmd := m.Update(messages.ListingMsg{Err: api.ErrUnauthorized})
	require.NotNil(t, cmd, "an expired session must quit, not linger")
	assert.ErrorIs(t, m.FatalErr(), api.ErrUnauthorized)

	// The canonical state is still intact for the final render.
	assert.Equal(t, []string{"a.txt"}, entryNames(m.projected))
}

func TestPrefWritesKeepPersistedPath(t *testing.T) {
	m := testModel(t)
	apply(m, listing("docs", api.Entry{Name: "a.txt", RelPath: "docs/a.txt"}))
	require.Equal(t, "docs", m.store.LoadUI().LastPath)

	// Toggling a display preference rewrites the whole bag; the path
	// restored at the next startup must survive it.
	key(m, ".")
	assert.Equal(t, "docs", m.store.LoadUI().LastPath)
	key(m, "v")
	assert.Equal(t, "docs", m.store.LoadUI().LastPath)
}

func TestExpiredSessionOnShareCreateQuits(t *testing.T) {
	m := testModel(t)
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))

	_, cmd := m.Update(messages.ShareCreatedMsg{Err: api.ErrUnauthorized})
	require.NotNil(t, cmd, "an expired session must quit, not linger")
	assert.ErrorIs(t, m.FatalErr(), api.ErrUnauthorized)
}

func TestUploadDoneRefreshesOnlyOnSuccess(t *testing.T) {
	m := testModel(t)
	apply(m, listing("", api.Entry{Name: "a.txt", RelPath: "a.txt"}))

	_, cmd := m.Update(messages.UploadDoneMsg{Err: assert.AnError})
	assert.Nil(t, cmd, "a failed upload must not refresh the listing")
	assert.Contains(t, m.status.View(), "upload failed")

	_, cmd = m.Update(messages.UploadDoneMsg{Result: &upload.Result{Uploaded: []string{"a.txt"}}})
	assert.NotNil(t, cmd, "a successful upload refreshes the listing")
}
