package tui

import (
	"context"
	"sync"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	_ generation.Host    = (*Adapter)(nil)
	_ imagesource.Picker = (*Adapter)(nil)
)

// Adapter turns generator callbacks and file dialogs into bubbletea
// messages. Its methods are called from generation goroutines, never from
// Update, since sending blocks until the program reads the message.
type Adapter struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewAdapter() *Adapter {
	return &Adapter{}
}

// connects the adapter to a running program, usually with program.Send
func (a *Adapter) Attach(send func(tea.Msg)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.send = send
}

func (a *Adapter) dispatch(msg tea.Msg) bool {
	a.mu.RLock()
	send := a.send
	a.mu.RUnlock()

	if send == nil {
		logger.Debug("tui not attached, dropping message", "message", msg)
		return false
	}

	send(msg)

	return true
}

func (a *Adapter) Begin(label string) {
	a.dispatch(progressStartedMsg{label: label})
}

func (a *Adapter) End(outcome generation.Outcome) {
	a.dispatch(progressEndedMsg{outcome: outcome})
}

func (a *Adapter) DeliverResult(result generation.Result) {
	a.dispatch(resultDeliveredMsg{result: result})
}

func (a *Adapter) ReportError(err *failure.Error) {
	a.dispatch(errorReportedMsg{err: err})
}

// opens the file picker screen and waits for the user
func (a *Adapter) Pick(ctx context.Context) (string, error) {
	reply := make(chan pickResult, 1)

	if !a.dispatch(openPickerMsg{reply: reply}) {
		return "", imagesource.ErrNoSelection
	}

	select {
	case r := <-reply:
		return r.path, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
