package browser

import (
	"sync"
	"testing"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/settings"
	ws "codeberg.org/openkombai/client/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	Type    string
	Payload any
}

// records events instead of fanning them out
type mockPublisher struct {
	mu     sync.Mutex
	events []published
}

func (m *mockPublisher) Publish(msgType string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, published{Type: msgType, Payload: payload})
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}

	return out
}

func TestAdapterSuccessfulGeneration(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.Begin("generating code with moondream and qwen2.5-coder")

	snap := a.Snapshot()
	assert.True(t, snap.Busy)
	assert.Contains(t, snap.Label, "moondream")

	a.End(generation.OutcomeCompleted)
	a.DeliverResult(generation.Result{Code: "export default function App() {}", Description: "an app"})

	snap = a.Snapshot()
	assert.False(t, snap.Busy)
	assert.Equal(t, "completed", snap.Outcome)
	assert.Equal(t, "export default function App() {}", snap.Code)
	assert.Equal(t, "an app", snap.Description)
	assert.Nil(t, snap.Error)

	assert.Equal(t, []string{
		ws.TypeGenerationStarted,
		ws.TypeGenerationFinished,
		ws.TypeResultDelivered,
	}, pub.types())
}

func TestAdapterResultClearsBusyRejection(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.Begin("generating")
	a.ReportError(failure.Busy())
	require.NotNil(t, a.Snapshot().Error)

	a.End(generation.OutcomeCompleted)
	a.DeliverResult(generation.Result{Code: "ok"})

	snap := a.Snapshot()
	assert.Equal(t, "completed", snap.Outcome)
	assert.Equal(t, "ok", snap.Code)
	assert.Nil(t, snap.Error)

	assert.Equal(t, []string{
		ws.TypeGenerationStarted,
		ws.TypeErrorReported,
		ws.TypeGenerationFinished,
		ws.TypeResultDelivered,
	}, pub.types())
}

func TestAdapterErrorKeepsBuffer(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.DeliverResult(generation.Result{Code: "previous"})
	a.Begin("generating")
	a.End(generation.OutcomeFailed)
	a.ReportError(failure.Backend("model not found", `{"detail":"model not found"}`))

	snap := a.Snapshot()
	assert.Equal(t, "previous", snap.Code)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "backend_error", snap.Error.Kind)
	assert.Equal(t, "model not found", snap.Error.Message)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, ws.TypeErrorReported, last.Type)
	assert.Equal(t, "model not found", last.Payload.(ws.ErrorReportedPayload).Message)

	// the next run clears the panel
	a.Begin("generating")
	assert.Nil(t, a.Snapshot().Error)
}

func TestAdapterEmptyResultClearsBuffer(t *testing.T) {
	a := NewAdapter(&mockPublisher{})

	a.DeliverResult(generation.Result{Code: "old"})
	a.DeliverResult(generation.Result{Code: ""})

	assert.Equal(t, "", a.Snapshot().Code)
}

func TestAdapterImageSelected(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.ReportError(failure.NoImageSelected())

	p, err := imagesource.FromBytes("shot.png", pngBytes(t), imagesource.WithPreviewFunc(PreviewURL))
	require.NoError(t, err)

	a.ImageSelected(p)

	snap := a.Snapshot()
	require.NotNil(t, snap.Image)
	assert.Equal(t, "shot.png", snap.Image.Filename)
	assert.Equal(t, "/api/v1/image/preview?id="+p.ID, snap.Image.Preview)
	assert.Nil(t, snap.Error)

	assert.Equal(t, ws.TypeImageSelected, pub.types()[1])
}

func TestAdapterSettingsChanged(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.SettingsChanged(settings.Defaults())

	require.Len(t, pub.events, 1)
	payload := pub.events[0].Payload.(ws.SettingsChangedPayload)
	assert.Equal(t, settings.VisionLlama, payload.VisionModel)
	assert.Equal(t, settings.DefaultEndpoint, payload.Endpoint)
}

func TestAdapterSnapshotIsACopy(t *testing.T) {
	a := NewAdapter(&mockPublisher{})
	a.ReportError(failure.Busy())

	snap := a.Snapshot()
	snap.Error.Message = "changed"

	assert.Equal(t, failure.MessageBusy, a.Snapshot().Error.Message)
}

func TestAdapterEditBuffer(t *testing.T) {
	pub := &mockPublisher{}
	a := NewAdapter(pub)

	a.EditBuffer("const edited = true;")

	assert.Equal(t, "const edited = true;", a.Snapshot().Code)
	assert.Empty(t, pub.events)
}
