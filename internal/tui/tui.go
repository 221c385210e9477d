package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/logger"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	adapter := opts.Adapter
	if adapter == nil {
		adapter = NewAdapter()
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	return &Model{
		ctx:       ctx,
		generator: opts.Generator,
		prober:    opts.Prober,
		adapter:   adapter,
		workspace: opts.Workspace,
		state:     StateWelcome,
		welcome:   NewWelcome(opts.Generator, opts.Environment),
		picker:    NewFilePicker(opts.Workspace),
		documents: NewDocuments(),
		settings:  NewSettingsScreen(opts.Generator.Settings()),
		spinner:   s,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.checkHealth()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.picker.Dismiss()
			m.generator.Cancel()
			return m, tea.Quit

		case "esc":
			if m.busy && m.state != StatePicker && !m.settings.editing {
				m.generator.Cancel()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.documents, _ = m.documents.Update(msg)

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progressStartedMsg:
		m.busy = true
		m.label = msg.label
		m.notice = notification{}

		return m, m.spinner.Tick

	case progressEndedMsg:
		m.busy = false
		m.label = ""

		return m, nil

	case resultDeliveredMsg:
		doc := m.documents.Open(msg.result)
		m.state = StateDocuments
		m.notice = notification{text: "opened " + doc.Title}

		return m, nil

	case errorReportedMsg:
		m.notice = notification{text: msg.err.Message, isError: true}
		return m, nil

	case openPickerMsg:
		// a second dialog replaces the first; the first caller sees a dismissal
		m.picker.Dismiss()

		if m.state != StatePicker {
			m.previous = m.state
		}

		m.state = StatePicker

		return m, m.picker.Open(msg.reply)

	case pickerClosedMsg:
		if m.state == StatePicker {
			m.state = m.previous
		}

		return m, nil

	case imageCapturedMsg:
		switch {
		case msg.err == nil:
			m.notice = notification{text: "selected " + msg.payload.Filename}
		case errors.Is(msg.err, imagesource.ErrNoSelection), errors.Is(msg.err, context.Canceled):
			m.notice = notification{text: "no image selected"}
		default:
			m.notice = notification{text: msg.err.Error(), isError: true}
		}

		return m, nil

	case healthCheckedMsg:
		m.welcome, _ = m.welcome.Update(msg)
		return m, nil

	case commandMsg:
		return m, m.runCommand(msg.name)

	case showWelcomeMsg:
		m.state = StateWelcome
		return m, nil

	case settingsChangedMsg:
		return m, m.saveWorkspace()

	case workspaceSavedMsg:
		if msg.err != nil {
			m.notice = notification{text: msg.err.Error(), isError: true}
		} else {
			m.notice = notification{text: "saved " + config.WorkspaceFile}
		}

		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = notification{text: "clipboard unavailable: " + msg.err.Error(), isError: true}
		} else {
			m.notice = notification{text: "copied " + msg.title + " to the clipboard"}
		}

		return m, nil
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StatePicker:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd

	case StateDocuments:
		var cmd tea.Cmd
		m.documents, cmd = m.documents.Update(msg)

		return m, cmd

	case StateSettings:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)

		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) runCommand(name string) tea.Cmd {
	switch name {
	case "image", "open":
		return m.captureImage()

	case "generate":
		return m.generate()

	case "cancel":
		if !m.generator.Cancel() {
			m.notice = notification{text: "no generation is running"}
		}

		return nil

	case "documents":
		if m.documents.Len() == 0 {
			m.notice = notification{text: "no documents yet"}
			return nil
		}

		m.state = StateDocuments

		return nil

	case "settings":
		m.state = StateSettings
		return nil

	case "health":
		return m.checkHealth()

	case "quit", "exit":
		m.generator.Cancel()
		return tea.Quit

	default:
		m.notice = notification{text: fmt.Sprintf("unknown command: %s", name), isError: true}
		return nil
	}
}

// runs the file dialog off the update loop; Adapter.Pick sends back into it
func (m *Model) captureImage() tea.Cmd {
	src := imagesource.NewFileSource(m.adapter)

	return func() tea.Msg {
		payload, err := m.generator.Capture(m.ctx, src)
		return imageCapturedMsg{payload: payload, err: err}
	}
}

// every outcome reaches the model through the adapter
func (m *Model) generate() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.generator.Start(m.ctx); err != nil {
			logger.Debug("generation not started", "error", err)
		}

		return nil
	}
}

func (m *Model) checkHealth() tea.Cmd {
	if m.prober == nil {
		return nil
	}

	endpoint := m.generator.Settings().Get().Endpoint

	return func() tea.Msg {
		h, err := m.prober.Health(m.ctx, endpoint)
		return healthCheckedMsg{endpoint: endpoint, health: h, err: err}
	}
}

func (m *Model) saveWorkspace() tea.Cmd {
	if m.workspace == "" {
		return nil
	}

	ws := config.WorkspaceFrom(m.generator.Settings().Get())
	dir := m.workspace

	return func() tea.Msg {
		return workspaceSavedMsg{err: config.SaveWorkspace(dir, ws)}
	}
}

func (m *Model) View() string {
	var body string

	switch m.state {
	case StateWelcome:
		body = m.welcome.View()
	case StatePicker:
		body = m.picker.View()
	case StateDocuments:
		body = m.documents.View()
	case StateSettings:
		body = m.settings.View()
	default:
		body = "unknown state"
	}

	return body + "\n" + m.statusLine()
}

// spinner while busy, otherwise the latest notification
func (m *Model) statusLine() string {
	var b strings.Builder

	if m.busy {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(infoStyle.Render(m.label + " (esc to cancel)"))
		b.WriteString("\n")
	}

	switch {
	case m.notice.text == "":
	case m.notice.isError:
		b.WriteString(errorStyle.Render("error: " + m.notice.text))
	default:
		b.WriteString(successStyle.Render(m.notice.text))
	}

	return b.String()
}
