package tui

import (
	"fmt"
	"slices"
	"strings"

	"codeberg.org/openkombai/client/internal/settings"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsRow int

const (
	rowVision settingsRow = iota
	rowCode
	rowPreset
	rowEndpoint
	rowCount
)

// edits the settings store in place; every change is announced with
// settingsChangedMsg so the app can save the workspace file
type SettingsScreen struct {
	store   *settings.Store
	cursor  settingsRow
	editing bool
	input   textinput.Model
	err     string
}

func NewSettingsScreen(store *settings.Store) *SettingsScreen {
	ti := textinput.New()
	ti.Placeholder = settings.DefaultEndpoint
	ti.CharLimit = 256
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputStyle

	return &SettingsScreen{store: store, input: ti}
}

func (s *SettingsScreen) Update(msg tea.Msg) (*SettingsScreen, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}

		return s, nil
	}

	if s.editing {
		return s.updateEndpoint(key)
	}

	switch key.String() {
	case "up", "k":
		s.cursor = (s.cursor + rowCount - 1) % rowCount
	case "down", "j":
		s.cursor = (s.cursor + 1) % rowCount
	case "enter", "right", "l", " ":
		return s, s.change(1)
	case "left", "h":
		return s, s.change(-1)
	case "r":
		s.store.Reset()
		s.err = ""
		return s, settingsChanged
	case "esc":
		return s, showWelcome
	}

	return s, nil
}

func (s *SettingsScreen) updateEndpoint(key tea.KeyMsg) (*SettingsScreen, tea.Cmd) {
	switch key.String() {
	case "esc":
		s.editing = false
		s.err = ""
		s.input.Blur()
		return s, nil

	case "enter":
		value := s.input.Value()
		if err := s.store.Set(settings.Update{Endpoint: &value}); err != nil {
			s.err = err.Error()
			return s, nil
		}

		s.editing = false
		s.err = ""
		s.input.Blur()

		return s, settingsChanged
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(key)

	return s, cmd
}

// moves the value under the cursor by step
func (s *SettingsScreen) change(step int) tea.Cmd {
	current := s.store.Get()
	s.err = ""

	var err error

	switch s.cursor {
	case rowVision:
		next := cycleModel(settings.VisionCatalog(), current.VisionModel, step)
		err = s.store.Set(settings.Update{VisionModel: &next})

	case rowCode:
		next := cycleModel(settings.CodeCatalog(), current.CodeModel, step)
		err = s.store.Set(settings.Update{CodeModel: &next})

	case rowPreset:
		presets := settings.Presets()
		preset, _ := s.store.Preset()

		i := slices.Index(presets, preset)
		if i < 0 && step < 0 {
			i = 0
		}

		err = s.store.ApplyPreset(presets[(i+step+len(presets))%len(presets)])

	case rowEndpoint:
		s.editing = true
		s.input.SetValue(current.Endpoint)
		s.input.CursorEnd()

		return s.input.Focus()
	}

	if err != nil {
		s.err = err.Error()
		return nil
	}

	return settingsChanged
}

// returns the ID after current in catalog, wrapping around
func cycleModel(catalog []settings.Model, current string, step int) string {
	i := slices.IndexFunc(catalog, func(m settings.Model) bool { return m.ID == current })
	if i < 0 {
		return catalog[0].ID
	}

	return catalog[(i+step+len(catalog))%len(catalog)].ID
}

func modelLabel(catalog []settings.Model, id string) string {
	for _, m := range catalog {
		if m.ID == id {
			return fmt.Sprintf("%s (%s)", m.Label, m.Description)
		}
	}

	return id
}

func (s *SettingsScreen) View() string {
	var b strings.Builder

	current := s.store.Get()

	preset := "custom"
	if p, ok := s.store.Preset(); ok {
		preset = string(p)
	}

	rows := []struct {
		name  string
		value string
	}{
		{"vision", modelLabel(settings.VisionCatalog(), current.VisionModel)},
		{"code", modelLabel(settings.CodeCatalog(), current.CodeModel)},
		{"preset", preset},
		{"backend", current.Endpoint},
	}

	b.WriteString(titleStyle.Render("settings"))
	b.WriteString("\n")

	for i, row := range rows {
		line := labelStyle.Render(row.name) + valueStyle.Render(row.value)

		if settingsRow(i) == s.cursor {
			b.WriteString(menuItemSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(menuItemStyle.Render("  " + line))
		}

		b.WriteString("\n")
	}

	if s.editing {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.input.View()))
		b.WriteString("\n")
	}

	if s.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(s.err))
		b.WriteString("\n")
	}

	help := "up/down: move  enter/left/right: change  r: reset  esc: back"
	if s.editing {
		help = "enter: save backend url  esc: discard"
	}

	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func settingsChanged() tea.Msg {
	return settingsChangedMsg{}
}
