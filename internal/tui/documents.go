package tui

import (
	"fmt"
	"strings"

	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/logger"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	documentPrefix    = "GeneratedComponent-"
	documentExtension = ".tsx"
	documentLanguage  = "tsx"

	// rows taken by the tab bar, border and help line
	documentChrome = 8
)

// one generated result, kept in memory until closed
type Document struct {
	Title       string
	Code        string
	Description string
}

// tabbed viewer for generated documents
type Documents struct {
	docs   []Document
	active int
	opened int

	viewport viewport.Model
	renderer *glamour.TermRenderer
	width    int
	height   int
}

// copies text to the system clipboard
var writeClipboard = clipboard.WriteAll

func NewDocuments() *Documents {
	d := &Documents{
		viewport: viewport.New(80, 20),
		width:    80,
		height:   20 + documentChrome,
	}
	d.renderer = newRenderer(d.width)

	return d
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "error", err)
		return nil
	}

	return r
}

// opens result in a new tab and makes it active. every result gets its own
// tab, numbered for the lifetime of the program.
func (d *Documents) Open(result generation.Result) Document {
	d.opened++

	doc := Document{
		Title:       fmt.Sprintf("%s%d%s", documentPrefix, d.opened, documentExtension),
		Code:        result.Code,
		Description: result.Description,
	}

	d.docs = append(d.docs, doc)
	d.active = len(d.docs) - 1
	d.refresh()

	return doc
}

func (d *Documents) Len() int {
	return len(d.docs)
}

func (d *Documents) Active() (Document, bool) {
	if len(d.docs) == 0 {
		return Document{}, false
	}

	return d.docs[d.active], true
}

func (d *Documents) Titles() []string {
	titles := make([]string, len(d.docs))
	for i, doc := range d.docs {
		titles[i] = doc.Title
	}

	return titles
}

func (d *Documents) move(step int) {
	if len(d.docs) == 0 {
		return
	}

	d.active = (d.active + step + len(d.docs)) % len(d.docs)
	d.refresh()
}

// closes the active tab
func (d *Documents) close() {
	if len(d.docs) == 0 {
		return
	}

	d.docs = append(d.docs[:d.active], d.docs[d.active+1:]...)
	if d.active >= len(d.docs) {
		d.active = max(len(d.docs)-1, 0)
	}

	d.refresh()
}

func (d *Documents) refresh() {
	doc, ok := d.Active()
	if !ok {
		d.viewport.SetContent("")
		return
	}

	d.viewport.SetContent(d.render(doc))
	d.viewport.GotoTop()
}

// code as a highlighted block followed by the description
func (d *Documents) render(doc Document) string {
	var md strings.Builder

	md.WriteString("```" + documentLanguage + "\n")
	md.WriteString(doc.Code)
	md.WriteString("\n```\n")

	if doc.Description != "" {
		md.WriteString("\n")
		md.WriteString(doc.Description)
		md.WriteString("\n")
	}

	if d.renderer == nil {
		return md.String()
	}

	out, err := d.renderer.Render(md.String())
	if err != nil {
		logger.Debug("failed to render document", "title", doc.Title, "error", err)
		return md.String()
	}

	return out
}

func (d *Documents) Update(msg tea.Msg) (*Documents, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.viewport.Width = msg.Width - 2
		d.viewport.Height = max(msg.Height-documentChrome, 3)
		d.renderer = newRenderer(msg.Width)
		d.refresh()

		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			d.move(1)
			return d, nil
		case "shift+tab", "left", "h":
			d.move(-1)
			return d, nil
		case "x":
			d.close()
			if len(d.docs) == 0 {
				return d, showWelcome
			}
			return d, nil
		case "c", "y":
			return d, d.copyActive()
		case "esc":
			return d, showWelcome
		}
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)

	return d, cmd
}

func (d *Documents) copyActive() tea.Cmd {
	doc, ok := d.Active()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		return copiedMsg{title: doc.Title, err: writeClipboard(doc.Code)}
	}
}

func (d *Documents) View() string {
	var b strings.Builder

	tabs := make([]string, 0, len(d.docs))
	for i, doc := range d.docs {
		if i == d.active {
			tabs = append(tabs, activeTabStyle.Render(doc.Title))
		} else {
			tabs = append(tabs, tabStyle.Render(doc.Title))
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(d.viewport.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("tab: next  shift+tab: previous  c: copy  x: close  esc: back  %3.f%%", d.viewport.ScrollPercent()*100)))

	return b.String()
}

func showWelcome() tea.Msg {
	return showWelcomeMsg{}
}
