package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sharedeck/internal/api"
	"sharedeck/internal/tui/styles"
)

// Preview shows a file's server-rendered preview in a scrollable pane.
// Non-text kinds get a one-line notice with a download hint.
type Preview struct {
	vp      viewport.Model
	title   string
	visible bool
}

func NewPreview() *Preview {
	vp := viewport.New(80, 20)
	return &Preview{vp: vp}
}

func (p *Preview) SetSize(width, height int) {
	p.vp.Width = width
	p.vp.Height = height
}

// Show fills the pane from a preview result.
func (p *Preview) Show(path string, result *api.PreviewResult) {
	p.title = path
	p.visible = true
	switch result.Type {
	case "text":
		content := result.Content
		if result.Truncated {
			content += "\n" + styles.Notice.Render("… preview truncated")
		}
		p.vp.SetContent(content)
	case "image":
		p.vp.SetContent(styles.Status.Render("image file: use the download action to view it"))
	case "directory":
		p.vp.SetContent(styles.Status.Render("directory"))
	default:
		p.vp.SetContent(styles.Status.Render(fmt.Sprintf("%s file: no preview available, use the download action", result.Type)))
	}
	p.vp.GotoTop()
}

// ShowError surfaces a preview failure inside the pane rather than
// breaking the listing view.
func (p *Preview) ShowError(path string, err error) {
	p.title = path
	p.visible = true
	p.vp.SetContent(styles.Error.Render(err.Error()))
}

func (p *Preview) Hide()         { p.visible = false }
func (p *Preview) Visible() bool { return p.visible }

func (p *Preview) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *Preview) View() string {
	header := styles.Title.Render("Preview: "+p.title) + "  " + styles.Status.Render("(esc to close)")
	return header + "\n" + p.vp.View()
}
