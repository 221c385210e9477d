package image

import (
	"bytes"
	"encoding/json"
	stdimage "image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/openkombai/client/internal/imagesource"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSelector struct {
	selection *imagesource.Selection
}

func (m *mockSelector) Select(payload *imagesource.Payload) {
	m.selection.Replace(payload)
}

func (m *mockSelector) Selection() *imagesource.Selection {
	return m.selection
}

type mockNotifier struct {
	selected []*imagesource.Payload
}

func (m *mockNotifier) ImageSelected(payload *imagesource.Payload) {
	m.selected = append(m.selected, payload)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4))))

	return buf.Bytes()
}

func setup(t *testing.T, maxBytes int64) (*gin.Engine, *mockSelector, *mockNotifier) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	selector := &mockSelector{selection: imagesource.NewSelection()}
	notifier := &mockNotifier{}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), selector, notifier, maxBytes)

	return router, selector, notifier
}

func upload(t *testing.T, router *gin.Engine, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestUploadSelectsImage(t *testing.T) {
	router, selector, notifier := setup(t, 1<<20)
	data := pngBytes(t)

	w := upload(t, router, "file", "screen.png", data)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "screen.png", resp.Filename)
	assert.Equal(t, "image/png", resp.MimeType)
	assert.Equal(t, int64(len(data)), resp.Size)
	assert.Equal(t, "/api/v1/image/preview?id="+resp.ID, resp.Preview)

	current := selector.selection.Current()
	require.NotNil(t, current)
	assert.Equal(t, resp.ID, current.ID)
	require.Len(t, notifier.selected, 1)
	assert.Same(t, current, notifier.selected[0])
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		data     []byte
		maxBytes int64
		status   int
		code     string
	}{
		{"missing file", "other", []byte("x"), 1 << 20, http.StatusBadRequest, "bad_request"},
		{"not an image", "file", []byte("just some text"), 1 << 20, http.StatusUnsupportedMediaType, "unsupported_image"},
		{"too large", "file", bytes.Repeat([]byte{0x89}, 4096), 1024, http.StatusRequestEntityTooLarge, "image_too_large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, selector, notifier := setup(t, tt.maxBytes)

			w := upload(t, router, tt.field, "shot.png", tt.data)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.Nil(t, selector.selection.Current())
			assert.Empty(t, notifier.selected)
		})
	}
}

func TestPreviewServesCurrentSelection(t *testing.T) {
	router, _, _ := setup(t, 1<<20)
	data := pngBytes(t)

	w := upload(t, router, "file", "screen.png", data)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.Preview, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, data, w.Body.Bytes())
}

func TestPreviewOfReplacedImage(t *testing.T) {
	router, _, _ := setup(t, 1<<20)

	first := upload(t, router, "file", "first.png", pngBytes(t))
	require.Equal(t, http.StatusCreated, first.Code)

	var resp ImageResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))

	require.Equal(t, http.StatusCreated, upload(t, router, "file", "second.png", pngBytes(t)).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.Preview, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/image/preview", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
