package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, store *settings.Store) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	router := gin.New()
	require.NoError(t, RegisterRoutes(router, store, 1024))

	return router
}

func TestIndexRendersCurrentSettings(t *testing.T) {
	store := settings.NewStore()
	require.NoError(t, store.ApplyPreset(settings.PresetLowResource))

	w := httptest.NewRecorder()
	newRouter(t, store).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<option value="moondream" title="fastest, low resource, 1.6B params" selected>`)
	assert.Contains(t, body, `value="http://localhost:8000"`)
	assert.Contains(t, body, `accept="image/png,image/jpeg,image/webp"`)
	assert.Contains(t, body, `data-max-bytes="1024"`)
	assert.Contains(t, body, `data-preset="low-resource"`)
}

func TestStaticAssets(t *testing.T) {
	router := newRouter(t, settings.NewStore())

	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Body.String(), path)
	}
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("index.html"))
}
