// Package workspace owns the canonical navigation state: current path,
// entry list, breadcrumb trail, and the single selection used for
// transfer-command generation. The state bag has exactly one owner, the
// Controller; every other component sees read projections only.
package workspace

import "sharedeck/internal/api"

// State is the in-memory workspace state. Mutated only by Controller;
// the single-threaded event loop makes that safe by construction.
type State struct {
	path        string
	entries     []api.Entry
	breadcrumbs []api.Breadcrumb
	selection   string // relPath of the entry selected for command generation
}

// Path is the current directory relative to the share root ("" = root).
func (s *State) Path() string { return s.path }

// Entries returns the canonical entry list. Callers must treat it as
// read-only; it is replaced wholesale on every navigation.
func (s *State) Entries() []api.Entry { return s.entries }

func (s *State) Breadcrumbs() []api.Breadcrumb { return s.breadcrumbs }

// Selection returns the relPath marked for command generation, "" when
// nothing is selected.
func (s *State) Selection() string { return s.selection }

// SelectionEntry resolves the selection against the canonical list.
func (s *State) SelectionEntry() (api.Entry, bool) {
	if s.selection == "" {
		return api.Entry{}, false
	}
	for _, e := range s.entries {
		if e.RelPath == s.selection {
			return e, true
		}
	}
	return api.Entry{}, false
}
