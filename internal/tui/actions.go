package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"sharedeck/internal/api"
	"sharedeck/internal/tui/messages"
)

// Action is one per-entry operation, gated by the session permissions.
type Action struct {
	Key   string
	Label string
}

// ActionsFor builds the action set for an entry. The ungated actions are
// always present; share/rename/delete appear only when the server said
// so. The set is what the help overlay shows; execution goes through
// the key handlers, which consult the same permission flags.
func ActionsFor(entry api.Entry, perms api.Permissions) []Action {
	actions := []Action{}
	if entry.IsDir {
		actions = append(actions, Action{"enter", "open"})
		actions = append(actions, Action{"z", "download zip"})
	} else {
		actions = append(actions, Action{"enter", "preview"})
		actions = append(actions, Action{"d", "download"})
	}
	actions = append(actions,
		Action{"n", "copy name"},
		Action{"y", "copy path"},
		Action{"c", "transfer commands"},
	)
	if perms.CanShare {
		actions = append(actions, Action{"S", "share link"})
	}
	if perms.CanRename {
		actions = append(actions, Action{"R", "rename"})
	}
	if perms.CanDelete {
		actions = append(actions, Action{"X", "delete"})
	}
	return actions
}

// Every command below catches its own failure and resolves to a message;
// nothing escapes into the event loop as a panic or a broken render.

func (m *Model) previewCmd(entry api.Entry) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Preview(context.Background(), entry.RelPath)
		return messages.PreviewMsg{Path: entry.RelPath, Result: result, Err: err}
	}
}

// downloadCmd streams a file into the current working directory.
func (m *Model) downloadCmd(entry api.Entry) tea.Cmd {
	return func() tea.Msg {
		dest := filepath.Base(entry.Name)
		f, err := os.Create(dest)
		if err != nil {
			return messages.ActionDoneMsg{Err: err}
		}
		defer f.Close()
		if err := m.client.Download(context.Background(), entry.RelPath, f); err != nil {
			os.Remove(dest)
			return messages.ActionDoneMsg{Err: err}
		}
		return messages.ActionDoneMsg{Notice: fmt.Sprintf("downloaded %s", dest)}
	}
}

// zipCmd streams a directory as a zip archive. Directories only.
func (m *Model) zipCmd(entry api.Entry) tea.Cmd {
	return func() tea.Msg {
		name := entry.Name
		if name == "" {
			name = "root"
		}
		dest := name + ".zip"
		f, err := os.Create(dest)
		if err != nil {
			return messages.ActionDoneMsg{Err: err}
		}
		defer f.Close()
		if err := m.client.Zip(context.Background(), entry.RelPath, f); err != nil {
			os.Remove(dest)
			return messages.ActionDoneMsg{Err: err}
		}
		return messages.ActionDoneMsg{Notice: fmt.Sprintf("downloaded %s", dest)}
	}
}

func copyToClipboard(label, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			logrus.WithError(err).Warn("clipboard write failed")
			return messages.ActionDoneMsg{Err: fmt.Errorf("clipboard unavailable: %w", err)}
		}
		return messages.ActionDoneMsg{Notice: label + " copied to clipboard"}
	}
}

// shareCmd posts a share-link request. On success the absolute URL goes
// onto the clipboard and into the status line.
func (m *Model) shareCmd(entry api.Entry, expiry, mode string) tea.Cmd {
	return func() tea.Msg {
		link, err := m.client.CreateShare(context.Background(), entry.RelPath, expiry, mode)
		return messages.ShareCreatedMsg{Link: link, Err: err}
	}
}

// renameCmd posts a rename and asks for a refresh. Empty or unchanged
// names never get here; the prompt handler no-ops them.
func (m *Model) renameCmd(entry api.Entry, newName string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Rename(context.Background(), entry.RelPath, newName); err != nil {
			return messages.ActionDoneMsg{Err: err}
		}
		return messages.ActionDoneMsg{
			Notice:  fmt.Sprintf("renamed %s to %s", entry.Name, newName),
			Refresh: true,
		}
	}
}

// deleteCmd posts a deletion after the confirm step and asks for a
// refresh on success.
func (m *Model) deleteCmd(entry api.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Delete(context.Background(), entry.RelPath); err != nil {
			return messages.ActionDoneMsg{Err: err}
		}
		return messages.ActionDoneMsg{
			Notice:  fmt.Sprintf("deleted %s", entry.Name),
			Refresh: true,
		}
	}
}

// validRename reports whether a rename should be posted at all.
func validRename(entry api.Entry, newName string) bool {
	newName = strings.TrimSpace(newName)
	return newName != "" && newName != entry.Name
}
