// Package tui is the terminal workspace: one bubbletea event loop owning
// all state. Network calls run as commands off the loop and resolve to
// typed messages; state only ever changes inside Update, so a render can
// never observe a half-applied navigation.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"sharedeck/internal/api"
	"sharedeck/internal/commands"
	"sharedeck/internal/prefs"
	"sharedeck/internal/tui/components"
	"sharedeck/internal/tui/messages"
	"sharedeck/internal/tui/styles"
	"sharedeck/internal/upload"
	"sharedeck/internal/view"
	"sharedeck/internal/workspace"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptRename
	promptShareExpiry
	promptShareMode
	promptDeleteConfirm
	promptUploadPath
	promptRemoteUser
	promptRemoteHost
	promptRemotePort
	promptRemoteBase
)

// Model is the workspace controller. The navigation controller holds the
// canonical listing; projected is the derived display order, recomputed
// from scratch whenever the canonical list or a view control changes.
type Model struct {
	client *api.Client
	nav    *workspace.Controller
	store  *prefs.Store
	me     *api.Identity

	ui     prefs.UI
	remote prefs.Remote

	sortKey   view.SortKey
	search    textinput.Model
	searching bool

	projected []api.Entry
	cursor    int

	prompt      promptKind
	promptInput textinput.Model
	promptEntry api.Entry
	shareExpiry string
	remoteDraft prefs.Remote

	status   *components.StatusBar
	preview  *components.Preview
	showHelp bool

	dropper    *upload.DropWatcher
	uploadCh   chan upload.Progress
	uploadDone chan struct{}

	width  int
	height int
	fatal  error
	log    *logrus.Entry
}

// FatalErr reports the error that terminated the session, if any. An
// expired session quits the loop; the caller prints the login hint.
func (m *Model) FatalErr() error { return m.fatal }

// New builds the workspace model. startPath is the restored last-visited
// path; dropper may be nil when no drop directory is configured.
func New(client *api.Client, store *prefs.Store, startPath string, dropper *upload.DropWatcher) *Model {
	search := textinput.New()
	search.Placeholder = "filter by name"
	search.Prompt = "/"
	search.CharLimit = 128

	prompt := textinput.New()
	prompt.CharLimit = 256

	ui := store.LoadUI()
	if startPath == "" {
		startPath = ui.LastPath
	}
	ui.LastPath = startPath

	return &Model{
		client:      client,
		nav:         workspace.NewController(client, pathKeeper{store}),
		store:       store,
		ui:          ui,
		remote:      store.LoadRemote(),
		sortKey:     view.SortName,
		search:      search,
		promptInput: prompt,
		status:      components.NewStatusBar(),
		preview:     components.NewPreview(),
		dropper:     dropper,
		log:         logrus.WithField("component", "tui"),
	}
}

// pathKeeper adapts the preference store to the navigation controller:
// every applied navigation overwrites the last-path slot.
type pathKeeper struct {
	store *prefs.Store
}

func (k pathKeeper) PersistPath(p string) error {
	ui := k.store.LoadUI()
	ui.LastPath = p
	return k.store.SaveUI(ui)
}

func (m *Model) Init() tea.Cmd {
	m.status.SetLoading(true)
	cmds := []tea.Cmd{
		m.identityCmd(),
		m.listingCmd(m.ui.LastPath),
		m.status.Tick(),
	}
	if m.dropper != nil {
		m.dropper.Start()
		cmds = append(cmds, waitForDrop(m.dropper.Files()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) identityCmd() tea.Cmd {
	return func() tea.Msg {
		me, err := m.client.Me(context.Background())
		return messages.IdentityMsg{Identity: me, Err: err}
	}
}

func (m *Model) listingCmd(p string) tea.Cmd {
	return func() tea.Msg {
		listing, err := m.nav.Fetch(context.Background(), p)
		return messages.ListingMsg{Listing: listing, Err: err}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	m.status.SetLoading(true)
	return tea.Batch(m.listingCmd(m.nav.State().Path()), m.status.Tick())
}

// startUpload launches a batch and arms the progress listener. The
// batch's own command resolves to UploadDoneMsg; progress snapshots
// arrive separately through the channel bridge.
func (m *Model) startUpload(files []upload.File) tea.Cmd {
	if len(files) == 0 {
		m.status.SetNotice("nothing to upload")
		return nil
	}
	if m.me != nil && !m.me.Permissions.CanUpload {
		m.status.SetError("uploads are not permitted for this session")
		return nil
	}

	ch := make(chan upload.Progress, 32)
	done := make(chan struct{})
	m.uploadCh = ch
	m.uploadDone = done
	m.status.StartUpload(len(files))

	dest := m.nav.State().Path()
	send := func() tea.Msg {
		defer close(done)
		result, err := upload.Send(context.Background(), m.client, m.client.UploadEndpoint(), dest, files, func(p upload.Progress) {
			// Dropping a snapshot is fine; the terminal message is what
			// decides success.
			select {
			case ch <- p:
			default:
			}
		})
		return messages.UploadDoneMsg{Result: result, Err: err}
	}
	return tea.Batch(send, listenProgress(ch, done), m.status.Tick())
}

func listenProgress(ch <-chan upload.Progress, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-ch:
			return messages.UploadProgressMsg{Progress: p}
		case <-done:
			return nil
		}
	}
}

func waitForDrop(ch <-chan upload.File) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return messages.DroppedFileMsg{File: f}
	}
}

// reproject recomputes the display order, keeping the cursor on the same
// entry when it survives the change and clamping it otherwise.
func (m *Model) reproject() {
	var focused string
	if m.cursor < len(m.projected) {
		focused = m.projected[m.cursor].RelPath
	}
	m.projected = view.Project(m.nav.State().Entries(), view.Options{
		SortKey:    m.sortKey,
		Query:      m.search.Value(),
		ShowHidden: m.ui.ShowHidden,
	})
	m.cursor = 0
	for i, e := range m.projected {
		if e.RelPath == focused {
			m.cursor = i
			break
		}
	}
}

func (m *Model) current() (api.Entry, bool) {
	if m.cursor >= 0 && m.cursor < len(m.projected) {
		return m.projected[m.cursor], true
	}
	return api.Entry{}, false
}

// failRemote routes a remote failure: an expired session is terminal
// and quits to the login hint, everything else lands in the status line.
func (m *Model) failRemote(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		m.fatal = err
		return tea.Quit
	}
	m.status.SetError(err.Error())
	return nil
}

func (m *Model) perms() api.Permissions {
	if m.me == nil {
		return api.Permissions{}
	}
	return m.me.Permissions
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.IdentityMsg:
		if msg.Err != nil {
			return m, m.failRemote(msg.Err)
		}
		m.me = msg.Identity
		return m, nil

	case messages.ListingMsg:
		m.status.SetLoading(false)
		if msg.Err != nil {
			// Canonical state stays as it was; only the status line moves.
			return m, m.failRemote(msg.Err)
		}
		if cleared := m.nav.Apply(msg.Listing); cleared {
			m.log.Debug("selection cleared by refresh")
		}
		// Keep the in-memory bag current so a later preference write
		// cannot clobber the persisted path with a stale one.
		m.ui.LastPath = msg.Listing.Path
		m.reproject()
		return m, nil

	case messages.PreviewMsg:
		m.status.SetLoading(false)
		if msg.Err != nil {
			m.preview.ShowError(msg.Path, msg.Err)
		} else {
			m.preview.Show(msg.Path, msg.Result)
		}
		return m, nil

	case messages.ActionDoneMsg:
		if msg.Err != nil {
			return m, m.failRemote(msg.Err)
		}
		m.status.SetNotice(msg.Notice)
		if msg.Refresh {
			return m, m.refreshCmd()
		}
		return m, nil

	case messages.ShareCreatedMsg:
		if msg.Err != nil {
			return m, m.failRemote(msg.Err)
		}
		url := msg.Link.URL
		return m, copyToClipboard("share link "+url, url)

	case messages.UploadProgressMsg:
		m.status.SetUploadProgress(msg.Progress)
		if m.uploadCh != nil {
			return m, listenProgress(m.uploadCh, m.uploadDone)
		}
		return m, nil

	case messages.UploadDoneMsg:
		m.status.FinishUpload()
		m.uploadCh = nil
		m.uploadDone = nil
		if msg.Err != nil {
			// No refresh on failure; a partial batch must not look clean.
			m.status.SetError("upload failed: " + msg.Err.Error())
			return m, nil
		}
		if len(msg.Result.Errors) > 0 {
			m.status.SetError(strings.Join(msg.Result.Errors, "; "))
		} else {
			m.status.SetNotice(uploadNotice(len(msg.Result.Uploaded)))
		}
		return m, m.refreshCmd()

	case messages.DroppedFileMsg:
		cmds := []tea.Cmd{waitForDrop(m.dropper.Files())}
		if cmd := m.startUpload([]upload.File{msg.File}); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if cmd := m.status.Update(msg); cmd != nil {
		return m, cmd
	}
	return m, m.preview.Update(msg)
}

func uploadNotice(n int) string {
	if n == 1 {
		return "uploaded 1 file"
	}
	return fmt.Sprintf("uploaded %d files", n)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	if m.searching {
		switch msg.Type {
		case tea.KeyEnter:
			m.searching = false
			return m, nil
		case tea.KeyEsc:
			m.searching = false
			m.search.SetValue("")
			m.reproject()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.reproject()
		return m, cmd
	}

	if m.preview.Visible() {
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.preview.Hide()
			return m, nil
		}
		return m, m.preview.Update(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.projected)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.projected) > 0 {
			m.cursor = len(m.projected) - 1
		}

	case "enter", "l":
		entry, ok := m.current()
		if !ok {
			return m, nil
		}
		if entry.IsDir {
			m.status.SetLoading(true)
			return m, tea.Batch(m.listingCmd(entry.RelPath), m.status.Tick())
		}
		m.status.SetLoading(true)
		return m, tea.Batch(m.previewCmd(entry), m.status.Tick())

	case "backspace", "h":
		p := m.nav.State().Path()
		if p == "" {
			return m, nil
		}
		parent := path.Dir(p)
		if parent == "." || parent == "/" {
			parent = ""
		}
		m.status.SetLoading(true)
		return m, tea.Batch(m.listingCmd(parent), m.status.Tick())

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.reproject()
			return m, nil
		}
		m.nav.ClearSelection()
		m.status.SetNotice("")
		return m, nil

	case "s":
		m.sortKey = m.sortKey.Next()
		m.reproject()
		return m, nil

	case ".":
		m.ui.ShowHidden = !m.ui.ShowHidden
		m.savePrefs()
		m.reproject()
		return m, nil

	case "v":
		// Toggling the surface only flips a preference; the projection,
		// cursor, and selection are untouched and no refetch happens.
		if m.ui.ViewMode == prefs.ViewList {
			m.ui.ViewMode = prefs.ViewGrid
		} else {
			m.ui.ViewMode = prefs.ViewList
		}
		m.savePrefs()
		return m, nil

	case "r":
		return m, m.refreshCmd()

	case "c":
		if entry, ok := m.current(); ok {
			m.nav.Select(entry.RelPath)
		}
		return m, nil
	case "C":
		m.nav.ClearSelection()
		return m, nil

	case "n":
		if entry, ok := m.current(); ok {
			return m, copyToClipboard("name", entry.Name)
		}
	case "y":
		if entry, ok := m.current(); ok {
			return m, copyToClipboard("path", entry.RelPath)
		}

	case "d":
		if entry, ok := m.current(); ok && !entry.IsDir {
			m.status.SetNotice("downloading " + entry.Name + "...")
			return m, m.downloadCmd(entry)
		}
	case "z":
		if entry, ok := m.current(); ok && entry.IsDir {
			m.status.SetNotice("downloading " + entry.Name + ".zip...")
			return m, m.zipCmd(entry)
		}

	case "u":
		if !m.perms().CanUpload {
			m.status.SetError("uploads are not permitted for this session")
			return m, nil
		}
		return m, m.openPrompt(promptUploadPath, api.Entry{}, "")

	case "R":
		if entry, ok := m.current(); ok && m.perms().CanRename {
			return m, m.openPrompt(promptRename, entry, entry.Name)
		}
	case "X":
		if entry, ok := m.current(); ok && m.perms().CanDelete {
			return m, m.openPrompt(promptDeleteConfirm, entry, "")
		}
	case "S":
		if entry, ok := m.current(); ok && m.perms().CanShare {
			return m, m.openPrompt(promptShareExpiry, entry, "")
		}

	case "e":
		m.remoteDraft = m.remote
		return m, m.openPrompt(promptRemoteUser, api.Entry{}, m.remote.User)

	case "?":
		m.showHelp = true
		return m, nil
	}
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, entry api.Entry, initial string) tea.Cmd {
	m.prompt = kind
	m.promptEntry = entry
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptInput.Blur()
	m.promptInput.SetValue("")
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == promptDeleteConfirm {
		entry := m.promptEntry
		m.closePrompt()
		if msg.String() == "y" || msg.String() == "Y" {
			return m, m.deleteCmd(entry)
		}
		m.status.SetNotice("delete cancelled")
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.promptInput.Value())
	kind := m.prompt
	entry := m.promptEntry

	switch kind {
	case promptRename:
		m.closePrompt()
		if !validRename(entry, value) {
			m.status.SetNotice("rename cancelled")
			return m, nil
		}
		return m, m.renameCmd(entry, value)

	case promptShareExpiry:
		if value == "" {
			value = "24h"
		}
		m.shareExpiry = value
		m.prompt = promptShareMode
		m.promptInput.SetValue(api.ShareModeDownload)
		m.promptInput.CursorEnd()
		return m, nil

	case promptShareMode:
		if !api.ValidShareMode(value) {
			m.status.SetError("mode must be browse, download, or upload")
			return m, nil
		}
		m.closePrompt()
		return m, m.shareCmd(entry, m.shareExpiry, value)

	case promptUploadPath:
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		files, err := upload.Gather([]string{value})
		if err != nil {
			m.status.SetError(err.Error())
			return m, nil
		}
		return m, m.startUpload(files)

	case promptRemoteUser:
		m.remoteDraft.User = value
		m.prompt = promptRemoteHost
		m.promptInput.SetValue(m.remote.Host)
		m.promptInput.CursorEnd()
		return m, nil
	case promptRemoteHost:
		m.remoteDraft.Host = value
		m.prompt = promptRemotePort
		m.promptInput.SetValue(m.remote.Port)
		m.promptInput.CursorEnd()
		return m, nil
	case promptRemotePort:
		if value == "" {
			value = "22"
		}
		m.remoteDraft.Port = value
		m.prompt = promptRemoteBase
		m.promptInput.SetValue(m.remote.Base)
		m.promptInput.CursorEnd()
		return m, nil
	case promptRemoteBase:
		m.remoteDraft.Base = value
		m.closePrompt()
		m.remote = m.remoteDraft
		if err := m.store.SaveRemote(m.remote); err != nil {
			m.status.SetError("could not save remote parameters: " + err.Error())
		} else {
			m.status.SetNotice("remote parameters saved")
		}
		return m, nil
	}

	m.closePrompt()
	return m, nil
}

func (m *Model) savePrefs() {
	if err := m.store.SaveUI(m.ui); err != nil {
		m.log.WithError(err).Debug("could not save display preferences")
	}
}

func (m *Model) promptLabel() string {
	switch m.prompt {
	case promptRename:
		return "rename " + m.promptEntry.Name + " to:"
	case promptShareExpiry:
		return "share expiry (Go duration, empty for 24h):"
	case promptShareMode:
		return "share mode (browse/download/upload):"
	case promptUploadPath:
		return "local file to upload:"
	case promptRemoteUser:
		return "remote user:"
	case promptRemoteHost:
		return "remote host:"
	case promptRemotePort:
		return "remote ssh port:"
	case promptRemoteBase:
		return "remote base path:"
	}
	return ""
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder

	title := "sharedeck"
	if m.me != nil && m.me.Username != "" {
		title += "  " + styles.Status.Render(m.me.Username+"@"+m.client.BaseURL())
	} else {
		title += "  " + styles.Status.Render(m.client.BaseURL())
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(components.RenderBreadcrumbs(m.nav.State().Breadcrumbs()))
	b.WriteString("\n\n")

	if m.preview.Visible() {
		b.WriteString(m.preview.View())
		b.WriteString("\n")
		b.WriteString(m.status.View())
		return styles.App.Render(b.String())
	}

	if m.showHelp {
		b.WriteString(m.helpView())
		return styles.App.Render(b.String())
	}

	listHeight := m.height - 12
	if listHeight < 4 {
		listHeight = 4
	}
	if m.ui.ViewMode == prefs.ViewGrid {
		b.WriteString(components.RenderGrid(m.projected, m.cursor, m.nav.State().Selection(), m.width-2, listHeight))
	} else {
		b.WriteString(components.RenderList(m.projected, m.cursor, m.nav.State().Selection(), m.width-2, listHeight))
	}
	b.WriteString("\n\n")

	total := len(m.nav.State().Entries())
	hidden := 0
	if !m.ui.ShowHidden {
		hidden = view.HiddenCount(m.nav.State().Entries())
	}
	summary := view.Summary(len(m.projected), total, hidden)
	summary += styles.Status.Render("  sort:" + string(m.sortKey) + "  view:" + m.ui.ViewMode)
	if q := m.search.Value(); q != "" {
		summary += styles.Notice.Render("  filter:" + q)
	}
	b.WriteString(styles.Status.Render(summary))
	b.WriteString("\n")

	b.WriteString(m.commandPane())
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.search.View())
	case m.prompt != promptNone && m.prompt != promptDeleteConfirm:
		b.WriteString(styles.Notice.Render(m.promptLabel()) + " " + m.promptInput.View())
	case m.prompt == promptDeleteConfirm:
		b.WriteString(styles.Error.Render("delete " + m.promptEntry.Name + "? (y/N)"))
	default:
		b.WriteString(m.status.View())
	}
	b.WriteString("\n")
	help := "?: help  /: filter  s: sort  .: hidden  v: view  q: quit"
	if m.dropper != nil {
		help += "  drop:" + m.dropper.Dir()
	}
	b.WriteString(styles.Help.Render(help))

	return styles.App.Render(b.String())
}

// commandPane renders the transfer commands for the marked entry, or the
// placeholder when nothing is marked.
func (m *Model) commandPane() string {
	entry, ok := m.nav.State().SelectionEntry()
	if !ok {
		return styles.CommandPane.Render(styles.Status.Render(commands.Placeholder))
	}
	return styles.CommandPane.Render(commands.For(entry, m.remote).Render())
}

func (m *Model) helpView() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("keys"))
	b.WriteString("\n\n")
	b.WriteString("  j/k, arrows   move    enter  open/preview   backspace  parent\n")
	b.WriteString("  /  filter   s  cycle sort   .  toggle hidden   v  toggle view   r  refresh\n")
	b.WriteString("  u  upload a local file   e  edit remote transfer parameters\n")
	b.WriteString("  c  mark entry for transfer commands   C  unmark\n\n")
	if entry, ok := m.current(); ok {
		b.WriteString(styles.Title.Render("actions for " + entry.Name))
		b.WriteString("\n\n")
		for _, a := range ActionsFor(entry, m.perms()) {
			b.WriteString("  " + a.Key + "  " + a.Label + "\n")
		}
	}
	b.WriteString("\n" + styles.Status.Render("press any key to close"))
	return b.String()
}
