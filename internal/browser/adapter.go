package browser

import (
	"sync"
	"time"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/settings"
	ws "codeberg.org/openkombai/client/internal/websocket"
)

// PreviewPath is where the page fetches the selected image back from.
const PreviewPath = "/api/v1/image/preview"

// Adapter is the browser surface of a generation: progress goes to the
// page's status line, results replace the code buffer and failures fill the
// error panel. Each change is kept in a snapshot and pushed to the page as
// an event.
type Adapter struct {
	events Publisher

	mu   sync.RWMutex
	snap Snapshot
}

var _ generation.Host = (*Adapter)(nil)

func NewAdapter(events Publisher) *Adapter {
	return &Adapter{
		events: events,
		snap:   Snapshot{UpdatedAt: time.Now()},
	}
}

func (a *Adapter) Begin(label string) {
	a.update(func(s *Snapshot) {
		s.Busy = true
		s.Label = label
		s.Outcome = ""
		s.Error = nil
	})

	a.events.Publish(ws.TypeGenerationStarted, ws.GenerationStartedPayload{Label: label})
}

func (a *Adapter) End(outcome generation.Outcome) {
	a.update(func(s *Snapshot) {
		s.Busy = false
		s.Label = ""
		s.Outcome = string(outcome)
	})

	a.events.Publish(ws.TypeGenerationFinished, ws.GenerationFinishedPayload{Outcome: string(outcome)})
}

// replaces the code buffer; an empty result still clears it. a rejection
// reported while this generation ran (busy) no longer applies.
func (a *Adapter) DeliverResult(result generation.Result) {
	a.update(func(s *Snapshot) {
		s.Code = result.Code
		s.Description = result.Description
		s.Error = nil
	})

	a.events.Publish(ws.TypeResultDelivered, ws.ResultDeliveredPayload{
		Code:        result.Code,
		Description: result.Description,
	})
}

// fills the error panel. the code buffer keeps its previous contents.
func (a *Adapter) ReportError(err *failure.Error) {
	view := &ErrorView{
		Kind:    string(err.Kind),
		Message: err.Error(),
		Details: err.RawDetail,
	}

	a.update(func(s *Snapshot) {
		s.Error = view
	})

	a.events.Publish(ws.TypeErrorReported, ws.ErrorReportedPayload{
		Kind:    view.Kind,
		Message: view.Message,
		Details: view.Details,
	})
}

// shows a new selection next to the file input
func (a *Adapter) ImageSelected(p *imagesource.Payload) {
	view := &ImageView{
		ID:       p.ID,
		Filename: p.Filename,
		MimeType: p.MimeType,
		Size:     p.Size,
		Preview:  p.Preview,
	}

	a.update(func(s *Snapshot) {
		s.Image = view
		s.Error = nil
	})

	a.events.Publish(ws.TypeImageSelected, ws.ImageSelectedPayload{
		ID:       view.ID,
		Filename: view.Filename,
		MimeType: view.MimeType,
		Size:     view.Size,
		Preview:  view.Preview,
	})
}

// tells every page that the pickers changed
func (a *Adapter) SettingsChanged(current settings.Settings) {
	a.events.Publish(ws.TypeSettingsChanged, ws.SettingsChangedPayload{
		VisionModel: current.VisionModel,
		CodeModel:   current.CodeModel,
		Endpoint:    current.Endpoint,
	})
}

// replaces the buffer with text the user typed into it
func (a *Adapter) EditBuffer(code string) {
	a.update(func(s *Snapshot) {
		s.Code = code
	})
}

func (a *Adapter) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := a.snap
	if snap.Error != nil {
		e := *snap.Error
		snap.Error = &e
	}

	if snap.Image != nil {
		img := *snap.Image
		snap.Image = &img
	}

	return snap
}

// sends the current snapshot to a freshly connected page
func (a *Adapter) OnClientRegistered(client *ws.Client) {
	msg, err := ws.NewMessage(ws.TypeSnapshot, a.Snapshot())
	if err != nil {
		logger.ErrorErr(err, "failed to create snapshot message", "client_id", client.ID)
		return
	}

	if err := client.Send(msg); err != nil {
		logger.Debug("failed to send snapshot", "client_id", client.ID, "error", err)
	}
}

// returns the preview URL for a payload id
func PreviewURL(id string) string {
	return PreviewPath + "?id=" + id
}

func (a *Adapter) update(fn func(s *Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fn(&a.snap)
	a.snap.UpdatedAt = time.Now()
}
