package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"codeberg.org/openkombai/client/internal/imagesource"
	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// file dialog screen backing Adapter.Pick
type FilePicker struct {
	picker filepicker.Model
	dir    string
	reply  chan<- pickResult
	hint   string
}

func NewFilePicker(dir string) *FilePicker {
	if dir == "" {
		dir = "."
	}

	return &FilePicker{dir: dir}
}

// starts a fresh dialog that answers on reply
func (p *FilePicker) Open(reply chan<- pickResult) tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = imagesource.AllowedExtensions
	fp.CurrentDirectory = p.dir

	p.picker = fp
	p.reply = reply
	p.hint = ""

	return p.picker.Init()
}

// reports whether a Pick call is waiting on this screen
func (p *FilePicker) Waiting() bool {
	return p.reply != nil
}

// answers the waiting Pick call with a dismissal
func (p *FilePicker) Dismiss() {
	p.resolve(pickResult{err: imagesource.ErrNoSelection})
}

func (p *FilePicker) resolve(r pickResult) {
	if p.reply == nil {
		return
	}

	p.reply <- r
	p.reply = nil
}

func (p *FilePicker) Update(msg tea.Msg) (*FilePicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			p.Dismiss()
			return p, closePicker
		}
	}

	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)

	if ok, path := p.picker.DidSelectFile(msg); ok {
		p.dir = filepath.Dir(path)
		p.resolve(pickResult{path: path})

		return p, closePicker
	}

	if ok, path := p.picker.DidSelectDisabledFile(msg); ok {
		p.hint = fmt.Sprintf("%s is not a supported image", filepath.Base(path))
	}

	return p, cmd
}

func (p *FilePicker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("select a screenshot"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(p.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(p.picker.View())
	b.WriteString("\n")

	if p.hint != "" {
		b.WriteString(errorStyle.Render(p.hint))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: select  esc: cancel  allowed: " + strings.Join(imagesource.AllowedExtensions, " ")))

	return b.String()
}

func closePicker() tea.Msg {
	return pickerClosedMsg{}
}
