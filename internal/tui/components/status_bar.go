package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sharedeck/internal/tui/styles"
	"sharedeck/internal/upload"
)

// StatusBar shows transient notices, fetch activity, and upload
// progress. Errors stay up until the next event replaces them.
type StatusBar struct {
	text      string
	isError   bool
	loading   bool
	uploading bool
	pct       float64 // -1 while indeterminate
	spinner   spinner.Model
	bar       progress.Model
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Help
	return &StatusBar{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		pct:     -1,
	}
}

// SetNotice replaces the status text with an informational message.
func (s *StatusBar) SetNotice(text string) {
	s.text = text
	s.isError = false
}

// SetError replaces the status text with a failure message.
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) SetLoading(loading bool) { s.loading = loading }

// StartUpload arms the progress display for a batch of n files.
func (s *StatusBar) StartUpload(n int) {
	s.uploading = true
	s.pct = -1
	s.SetNotice(fmt.Sprintf("uploading %d file(s)...", n))
}

// SetUploadProgress feeds a progress snapshot; indeterminate totals keep
// the spinner instead of a percentage.
func (s *StatusBar) SetUploadProgress(p upload.Progress) {
	s.pct = p.Percent()
}

// FinishUpload clears the progress display; the caller sets the final
// notice or error.
func (s *StatusBar) FinishUpload() {
	s.uploading = false
	s.pct = -1
}

func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading || (s.uploading && s.pct < 0) {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	switch {
	case s.uploading && s.pct >= 0:
		return s.bar.ViewAs(s.pct/100) + " " + styles.Status.Render(s.text)
	case s.uploading:
		return s.spinner.View() + " " + styles.Status.Render(s.text)
	case s.loading:
		return s.spinner.View() + " " + styles.Status.Render("loading...")
	case s.isError:
		return styles.Error.Render(s.text)
	case s.text != "":
		return styles.Notice.Render(s.text)
	}
	return ""
}
