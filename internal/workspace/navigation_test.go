package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedeck/internal/api"
)

// listServer serves /api/list from a fixed path-to-listing map; unknown
// paths answer 404.
func listServer(t *testing.T, listings map[string]*api.Listing) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listing, ok := listings[r.URL.Query().Get("path")]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(listing)
	}))
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return client
}

// recordingKeeper captures every persisted path.
type recordingKeeper struct {
	paths []string
}

func (k *recordingKeeper) PersistPath(p string) error {
	k.paths = append(k.paths, p)
	return nil
}

func TestNavigateReplacesStateAtomically(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"": {
			Path:        "",
			Entries:     []api.Entry{{Name: "docs", RelPath: "docs", IsDir: true}},
			Breadcrumbs: []api.Breadcrumb{{Name: "", Path: ""}},
		},
		"docs": {
			Path:    "docs",
			Entries: []api.Entry{{Name: "a.txt", RelPath: "docs/a.txt"}},
			Breadcrumbs: []api.Breadcrumb{
				{Name: "", Path: ""},
				{Name: "docs", Path: "docs"},
			},
		},
	})
	c := NewController(client, nil)

	require.NoError(t, c.NavigateTo(context.Background(), ""))
	assert.Equal(t, "", c.State().Path())
	require.Len(t, c.State().Entries(), 1)

	require.NoError(t, c.NavigateTo(context.Background(), "docs"))
	assert.Equal(t, "docs", c.State().Path())
	assert.Equal(t, "docs/a.txt", c.State().Entries()[0].RelPath)
	assert.Len(t, c.State().Breadcrumbs(), 2)
}

func TestFailedFetchLeavesStateUntouched(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"": {Path: "", Entries: []api.Entry{{Name: "keep.txt", RelPath: "keep.txt"}}},
	})
	c := NewController(client, nil)
	require.NoError(t, c.NavigateTo(context.Background(), ""))

	err := c.NavigateTo(context.Background(), "missing")
	require.Error(t, err)

	// Path, entries, and breadcrumbs are all as before the failure.
	assert.Equal(t, "", c.State().Path())
	require.Len(t, c.State().Entries(), 1)
	assert.Equal(t, "keep.txt", c.State().Entries()[0].Name)
}

func TestSelectionSurvivesWhenEntryRemains(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"": {Path: "", Entries: []api.Entry{
			{Name: "a.txt", RelPath: "a.txt"},
			{Name: "b.txt", RelPath: "b.txt"},
		}},
	})
	c := NewController(client, nil)
	require.NoError(t, c.NavigateTo(context.Background(), ""))
	require.True(t, c.Select("a.txt"))

	// A refresh is a plain navigation to the same path.
	require.NoError(t, c.NavigateTo(context.Background(), ""))
	entry, ok := c.State().SelectionEntry()
	require.True(t, ok)
	assert.Equal(t, "a.txt", entry.RelPath)
}

func TestSelectionClearedWhenEntryDisappears(t *testing.T) {
	listings := map[string]*api.Listing{
		"": {Path: "", Entries: []api.Entry{{Name: "a.txt", RelPath: "a.txt"}}},
	}
	client := listServer(t, listings)
	c := NewController(client, nil)
	require.NoError(t, c.NavigateTo(context.Background(), ""))
	require.True(t, c.Select("a.txt"))

	// The entry is gone after the next fetch.
	listings[""] = &api.Listing{Path: "", Entries: []api.Entry{{Name: "b.txt", RelPath: "b.txt"}}}
	listing, err := c.Fetch(context.Background(), "")
	require.NoError(t, err)
	cleared := c.Apply(listing)

	assert.True(t, cleared)
	assert.Empty(t, c.State().Selection())
	_, ok := c.State().SelectionEntry()
	assert.False(t, ok)
}

func TestSelectRejectsUnknownPath(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"": {Path: "", Entries: []api.Entry{{Name: "a.txt", RelPath: "a.txt"}}},
	})
	c := NewController(client, nil)
	require.NoError(t, c.NavigateTo(context.Background(), ""))

	assert.False(t, c.Select("ghost.txt"))
	assert.Empty(t, c.State().Selection())
}

func TestEveryNavigationPersistsPath(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"":     {Path: ""},
		"docs": {Path: "docs"},
	})
	keeper := &recordingKeeper{}
	c := NewController(client, keeper)

	require.NoError(t, c.NavigateTo(context.Background(), ""))
	require.NoError(t, c.NavigateTo(context.Background(), "docs"))
	require.NoError(t, c.NavigateTo(context.Background(), ""))

	assert.Equal(t, []string{"", "docs", ""}, keeper.paths)
}

func TestLastAppliedListingWins(t *testing.T) {
	client := listServer(t, map[string]*api.Listing{
		"a": {Path: "a", Entries: []api.Entry{{Name: "in-a", RelPath: "a/in-a"}}},
		"b": {Path: "b", Entries: []api.Entry{{Name: "in-b", RelPath: "b/in-b"}}},
	})
	c := NewController(client, nil)

	// Two fetches resolve out of order; whichever applies last is shown.
	la, err := c.Fetch(context.Background(), "a")
	require.NoError(t, err)
	lb, err := c.Fetch(context.Background(), "b")
	require.NoError(t, err)

	c.Apply(lb)
	c.Apply(la)
	assert.Equal(t, "a", c.State().Path())
	assert.Equal(t, "in-a", c.State().Entries()[0].Name)
}
