package tui

import (
	"context"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"github.com/charmbracelet/bubbles/spinner"
)

// represents the current screen of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StatePicker
	StateDocuments
	StateSettings
)

// checks that a backend answers
type BackendProber interface {
	Health(ctx context.Context, endpoint string) (*generation.Health, error)
}

// everything the app needs from the outside
type Options struct {
	// bounds every generation and capture started from the TUI
	Context context.Context

	Generator *generation.Generator
	Prober    BackendProber
	Adapter   *Adapter

	// directory holding .openkombai.yaml; empty disables saving
	Workspace   string
	Environment string
}

// main TUI application model
type Model struct {
	ctx       context.Context
	generator *generation.Generator
	prober    BackendProber
	adapter   *Adapter
	workspace string

	state    AppState
	previous AppState
	width    int
	height   int

	welcome   *Welcome
	picker    *FilePicker
	documents *Documents
	settings  *SettingsScreen

	spinner spinner.Model
	busy    bool
	label   string
	notice  notification
}

// the single line under every screen
type notification struct {
	text    string
	isError bool
}

// sent by Adapter.Begin
type progressStartedMsg struct {
	label string
}

// sent by Adapter.End
type progressEndedMsg struct {
	outcome generation.Outcome
}

// sent by Adapter.DeliverResult
type resultDeliveredMsg struct {
	result generation.Result
}

// sent by Adapter.ReportError
type errorReportedMsg struct {
	err *failure.Error
}

// sent by Adapter.Pick to show the file picker
type openPickerMsg struct {
	reply chan<- pickResult
}

type pickResult struct {
	path string
	err  error
}

// sent when the picker screen is dismissed either way
type pickerClosedMsg struct{}

// sent when a capture started from the TUI resolves
type imageCapturedMsg struct {
	payload *imagesource.Payload
	err     error
}

type healthCheckedMsg struct {
	endpoint string
	health   *generation.Health
	err      error
}

// a command typed on the welcome screen
type commandMsg struct {
	name string
}

// returns to the welcome screen
type showWelcomeMsg struct{}

type settingsChangedMsg struct{}

type workspaceSavedMsg struct {
	err error
}

type copiedMsg struct {
	title string
	err   error
}
