// Package prefs persists local, per-user state: the UI display
// preferences and the remote-transfer parameters. The two live in
// separate files so clearing one never touches the other, and neither is
// ever sent to the server. Corrupt or missing files silently fall back to
// defaults; last write wins.
package prefs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	uiFile      = "ui.yaml"
	remoteFile  = "remote.yaml"
	sessionFile = "session"
)

// View modes for the workspace render surfaces.
const (
	ViewList = "list"
	ViewGrid = "grid"
)

// UI is the display preference bag. LastPath is the navigation
// persistence slot: overwritten on every navigation, restored at startup.
type UI struct {
	ViewMode   string `yaml:"view_mode"`
	ShowHidden bool   `yaml:"show_hidden"`
	LastPath   string `yaml:"last_path"`
}

// Remote holds the scp/rsync templating parameters. Free-form strings;
// they are only ever interpolated into command text.
type Remote struct {
	User string `yaml:"user"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Base string `yaml:"base"`
}

func DefaultUI() UI {
	return UI{ViewMode: ViewList}
}

func DefaultRemote() Remote {
	return Remote{Port: "22"}
}

// Store reads and writes the preference bags under one directory.
type Store struct {
	dir string
	log *logrus.Entry
}

// NewStore opens a store rooted at dir, defaulting to
// ~/.config/sharedeck when dir is empty.
func NewStore(dir string) *Store {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config", "sharedeck")
	}
	return &Store{dir: dir, log: logrus.WithField("component", "prefs")}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

// LoadUI restores the display preferences, falling back to defaults for
// a missing, unreadable, or malformed file.
func (s *Store) LoadUI() UI {
	ui := DefaultUI()
	if err := s.load(uiFile, &ui); err != nil {
		// A type error leaves the bag partially decoded; discard it all.
		ui = DefaultUI()
	}
	if ui.ViewMode != ViewList && ui.ViewMode != ViewGrid {
		ui.ViewMode = ViewList
	}
	return ui
}

// SaveUI writes the whole display bag.
func (s *Store) SaveUI(ui UI) error {
	return s.save(uiFile, ui)
}

// LoadRemote restores the remote-transfer parameters, falling back to
// defaults (port 22, everything else empty) on any failure.
func (s *Store) LoadRemote() Remote {
	r := DefaultRemote()
	if err := s.load(remoteFile, &r); err != nil {
		r = DefaultRemote()
	}
	if strings.TrimSpace(r.Port) == "" {
		r.Port = "22"
	}
	return r
}

// SaveRemote writes the whole remote-parameter bag.
func (s *Store) SaveRemote(r Remote) error {
	return s.save(remoteFile, r)
}

func (s *Store) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		// Malformed local state is discarded, never surfaced.
		s.log.WithField("file", name).Debug("discarding malformed preference file")
		return err
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

// SessionToken returns the persisted session token, empty when absent.
func (s *Store) SessionToken() string {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveSessionToken persists the session token with owner-only access.
func (s *Store) SaveSessionToken(token string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, sessionFile), []byte(token+"\n"), 0o600)
}

// ClearSessionToken removes the persisted session.
func (s *Store) ClearSessionToken() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
