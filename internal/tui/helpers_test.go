package tui

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/settings"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	model    *Model
	store    *settings.Store
	msgs     chan tea.Msg
	dir      string
	endpoint string
}

// builds an app whose adapter writes into a channel instead of a program
func newTestApp(t *testing.T, handler http.HandlerFunc) *testApp {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := settings.NewStore()
	endpoint := srv.URL
	require.NoError(t, store.Set(settings.Update{Endpoint: &endpoint}))

	msgs := make(chan tea.Msg, 16)
	adapter := NewAdapter()
	adapter.Attach(func(msg tea.Msg) { msgs <- msg })

	client := generation.NewClient()
	dir := t.TempDir()

	model := NewApp(Options{
		Context:     context.Background(),
		Generator:   generation.NewGenerator(client, store, adapter),
		Prober:      client,
		Adapter:     adapter,
		Workspace:   dir,
		Environment: "test",
	})

	return &testApp{model: model, store: store, msgs: msgs, dir: dir, endpoint: endpoint}
}

// waits for the next message the adapter sent
func (a *testApp) next(t *testing.T) tea.Msg {
	t.Helper()

	select {
	case msg := <-a.msgs:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a tui message")
		return nil
	}
}

// feeds msg to the model and runs whatever command it returns, once
func (a *testApp) send(msg tea.Msg) tea.Msg {
	_, cmd := a.model.Update(msg)
	if cmd == nil {
		return nil
	}

	return cmd()
}

func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// holds the request until the client goes away
func respondNever(arrived chan<- struct{}) http.HandlerFunc {
	return func(_ http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-r.Context().Done()
	}
}

func testPayload(t *testing.T, name string) *imagesource.Payload {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	p, err := imagesource.FromBytes(name, buf.Bytes())
	require.NoError(t, err)

	return p
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// types a command on the welcome screen and returns its commandMsg
func typeCommand(a *testApp, name string) tea.Msg {
	for _, r := range name {
		a.model.Update(key(string(r)))
	}

	return a.send(key("enter"))
}
