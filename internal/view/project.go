// Package view derives the rendered entry sequence from the canonical
// listing. Everything here is a pure function of its inputs: identical
// entries and options always yield an identical ordering, so the
// projection can be re-run on every keystroke without caching.
package view

import (
	"fmt"
	"sort"
	"strings"

	"sharedeck/internal/api"
)

// SortKey selects the primary comparator.
type SortKey string

const (
	SortName SortKey = "name"
	SortDate SortKey = "date"
	SortSize SortKey = "size"
)

// Next cycles through the sort keys in a fixed order.
func (k SortKey) Next() SortKey {
	switch k {
	case SortName:
		return SortDate
	case SortDate:
		return SortSize
	default:
		return SortName
	}
}

// Options are the view controls applied to a canonical entry list.
type Options struct {
	SortKey    SortKey
	Query      string
	ShowHidden bool
}

// Project filters and orders entries for display. Hidden-file
// classification happens before search; directories always sort before
// files, preserving the primary order within each group.
func Project(entries []api.Entry, opts Options) []api.Entry {
	out := make([]api.Entry, 0, len(entries))
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	for _, e := range entries {
		if !opts.ShowHidden && e.Hidden() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, primaryLess(opts.SortKey, out))
	// Stable secondary pass: dirs first, untouched order within groups.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDir && !out[j].IsDir
	})
	return out
}

func primaryLess(key SortKey, entries []api.Entry) func(i, j int) bool {
	switch key {
	case SortDate:
		return func(i, j int) bool {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
	case SortSize:
		return func(i, j int) bool {
			return entries[i].Size > entries[j].Size
		}
	default:
		return func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		}
	}
}

// HiddenCount reports how many entries the hidden filter would suppress.
func HiddenCount(entries []api.Entry) int {
	n := 0
	for _, e := range entries {
		if e.Hidden() {
			n++
		}
	}
	return n
}

// Summary is the count line under the listing: visible vs total, the
// suppressed-hidden count when applicable, or the empty-state message.
func Summary(visible, total, hiddenSuppressed int) string {
	if total == 0 {
		return "This folder is empty"
	}
	s := fmt.Sprintf("%d of %d items", visible, total)
	if hiddenSuppressed > 0 {
		s += fmt.Sprintf(" (%d hidden)", hiddenSuppressed)
	}
	return s
}
