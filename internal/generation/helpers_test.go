package generation

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/imagesource"
	"github.com/stretchr/testify/require"
)

// what the fake backend saw in one request
type received struct {
	Path        string
	Filename    string
	ContentType string
	Image       []byte
	VisionModel string
	CodeModel   string
	QueryVision string
}

type fakeBackend struct {
	srv      *httptest.Server
	requests atomic.Int32
	arrived  chan received
}

// starts a backend that records each request and then calls respond
func newFakeBackend(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{arrived: make(chan received, 8)}

	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests.Add(1)

		rec := received{Path: r.URL.Path, QueryVision: r.URL.Query().Get("vision_model")}

		if err := r.ParseMultipartForm(10 << 20); err == nil {
			if files := r.MultipartForm.File["file"]; len(files) == 1 {
				rec.Filename = files[0].Filename
				rec.ContentType = files[0].Header.Get("Content-Type")

				if f, err := files[0].Open(); err == nil {
					rec.Image, _ = io.ReadAll(f)
					_ = f.Close()
				}
			}

			if v := r.MultipartForm.Value["vision_model"]; len(v) == 1 {
				rec.VisionModel = v[0]
			}

			if v := r.MultipartForm.Value["code_model"]; len(v) == 1 {
				rec.CodeModel = v[0]
			}
		}

		fb.arrived <- rec
		respond(w, r)
	}))
	t.Cleanup(fb.srv.Close)

	return fb
}

func (fb *fakeBackend) URL() string {
	return fb.srv.URL
}

func respondJSON(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// blocks until the client goes away or release is closed
func respondAfter(release <-chan struct{}, status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
			respondJSON(status, body)(w, r)
		case <-r.Context().Done():
		}
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))))

	return buf.Bytes()
}

func testPayload(t *testing.T, name string) *imagesource.Payload {
	t.Helper()

	p, err := imagesource.FromBytes(name, testPNG(t))
	require.NoError(t, err)

	return p
}

// records host callbacks in order
type recordingHost struct {
	mu      sync.Mutex
	events  []string
	labels  []string
	results []Result
	errs    []*failure.Error
	ended   chan Outcome
}

func newRecordingHost() *recordingHost {
	return &recordingHost{ended: make(chan Outcome, 8)}
}

func (h *recordingHost) Begin(label string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, "begin")
	h.labels = append(h.labels, label)
}

func (h *recordingHost) End(outcome Outcome) {
	h.mu.Lock()
	h.events = append(h.events, "end:"+string(outcome))
	h.mu.Unlock()

	h.ended <- outcome
}

func (h *recordingHost) DeliverResult(result Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, "result")
	h.results = append(h.results, result)
}

func (h *recordingHost) ReportError(err *failure.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, "error:"+string(err.Kind))
	h.errs = append(h.errs, err)
}

func (h *recordingHost) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.events...)
}
