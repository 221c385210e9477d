package tui

import (
	"fmt"
	"strings"

	"codeberg.org/openkombai/client/internal/generation"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Welcome struct {
	generator   *generation.Generator
	environment string
	input       string
	commands    []Command
	health      string
	healthErr   bool
}

type Command struct {
	Name        string
	Description string
}

// returns a new welcome screen
func NewWelcome(generator *generation.Generator, environment string) *Welcome {
	return &Welcome{
		generator:   generator,
		environment: environment,
		health:      "not checked",
		commands: []Command{
			{Name: "image", Description: "select a screenshot"},
			{Name: "generate", Description: "generate code from the selected screenshot"},
			{Name: "cancel", Description: "cancel the running generation"},
			{Name: "documents", Description: "show generated documents"},
			{Name: "settings", Description: "choose models and backend"},
			{Name: "health", Description: "check the backend"},
			{Name: "quit", Description: "exit openkombai"},
		},
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.executeCommand()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}

	case healthCheckedMsg:
		if msg.err != nil {
			m.health = fmt.Sprintf("unreachable (%s)", msg.endpoint)
			m.healthErr = true
		} else {
			m.health = fmt.Sprintf("%s %s (%s)", msg.health.Service, msg.health.Status, msg.endpoint)
			m.healthErr = false
		}
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("turn screenshots into front-end code"))
	b.WriteString("\n\n")

	current := m.generator.Settings().Get()

	image := "none"
	if p := m.generator.Selection().Current(); p != nil {
		image = fmt.Sprintf("%s (%s, %d bytes)", p.Filename, p.MimeType, p.Size)
	}

	health := valueStyle.Render(m.health)
	if m.healthErr {
		health = errorStyle.Render(m.health)
	}

	b.WriteString(labelStyle.Render("image") + valueStyle.Render(image) + "\n")
	b.WriteString(labelStyle.Render("models") + valueStyle.Render(current.VisionModel+" + "+current.CodeModel) + "\n")
	b.WriteString(labelStyle.Render("backend") + health + "\n")
	b.WriteString(labelStyle.Render("mode") + infoStyle.Render(strings.ToUpper(m.environment)) + "\n\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	prompt := promptStyle.Render("> ")
	input := inputStyle.Render(m.input + "_")
	b.WriteString(prompt + input)
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("type a command and press enter. esc cancels a running generation. ctrl+c quits."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	name := strings.ToLower(strings.TrimSpace(m.input))
	m.input = ""

	if name == "" {
		return nil
	}

	return func() tea.Msg {
		return commandMsg{name: name}
	}
}
