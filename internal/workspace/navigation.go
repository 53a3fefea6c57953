package workspace

import (
	"context"

	"github.com/sirupsen/logrus"

	"sharedeck/internal/api"
)

// PathPersister receives the current path after every applied navigation.
// The preference store implements it by rewriting the last-path slot:
// replacement, never a history stack.
type PathPersister interface {
	PersistPath(path string) error
}

// Controller is the navigation controller: the only writer of the
// workspace state. Fetch runs off the event loop; Apply runs on it, so a
// listing lands atomically or not at all.
type Controller struct {
	client *api.Client
	state  State
	keep   PathPersister
	log    *logrus.Entry
}

func NewController(client *api.Client, keep PathPersister) *Controller {
	return &Controller{
		client: client,
		keep:   keep,
		log:    logrus.WithField("component", "nav"),
	}
}

// State exposes the read-only view of the workspace state.
func (c *Controller) State() *State { return &c.state }

// Fetch retrieves the listing for path without touching any state. A
// failed fetch therefore leaves the prior canonical list and path intact.
func (c *Controller) Fetch(ctx context.Context, path string) (*api.Listing, error) {
	listing, err := c.client.List(ctx, path)
	if err != nil {
		c.log.WithField("path", path).WithError(err).Warn("listing fetch failed")
		return nil, err
	}
	return listing, nil
}

// Apply replaces the canonical state with a fetched listing in one step:
// path, entries, and breadcrumbs together, never partially. When the
// previously selected entry is absent from the new listing the selection
// is cleared; the return value tells the caller to reset the command
// pane. Concurrent navigations are not serialized; the last listing to
// be applied determines the visible state.
func (c *Controller) Apply(listing *api.Listing) (selectionCleared bool) {
	prev := c.state.selection
	c.state = State{
		path:        listing.Path,
		entries:     listing.Entries,
		breadcrumbs: listing.Breadcrumbs,
		selection:   prev,
	}
	if prev != "" {
		if _, ok := c.state.SelectionEntry(); !ok {
			c.state.selection = ""
			selectionCleared = true
		}
	}
	if c.keep != nil {
		if err := c.keep.PersistPath(listing.Path); err != nil {
			c.log.WithError(err).Debug("could not persist navigation path")
		}
	}
	return selectionCleared
}

// NavigateTo is the synchronous form used outside the TUI loop: fetch
// then apply. A manual refresh is NavigateTo of the current path and gets
// no special casing, selection clearing included.
func (c *Controller) NavigateTo(ctx context.Context, path string) error {
	listing, err := c.Fetch(ctx, path)
	if err != nil {
		return err
	}
	c.Apply(listing)
	return nil
}

// Select marks an entry for transfer-command generation. Unknown
// relPaths are ignored so the selection always resolves.
func (c *Controller) Select(relPath string) bool {
	for _, e := range c.state.entries {
		if e.RelPath == relPath {
			c.state.selection = relPath
			return true
		}
	}
	return false
}

// ClearSelection drops the current selection.
func (c *Controller) ClearSelection() {
	c.state.selection = ""
}
