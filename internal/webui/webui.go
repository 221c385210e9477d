package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
)

//go:embed templates/* static/*
var embeddedFS embed.FS

// data passed to index.html; the pickers start out at the current settings
type indexTemplateData struct {
	Title          string
	Settings       settings.Settings
	VisionModels   []settings.Model
	CodeModels     []settings.Model
	Presets        []settings.Preset
	Accept         string
	MaxUploadBytes int64
}

// parses the page templates from the embedded filesystem
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// serves the page at / and its assets under /static
func RegisterRoutes(router *gin.Engine, store *settings.Store, maxUploadBytes int64) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}

	static, err := fs.Sub(embeddedFS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))
	router.GET("/", IndexHandler(store, maxUploadBytes))

	return nil
}

// IndexHandler renders the generation page
func IndexHandler(store *settings.Store, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := indexTemplateData{
			Title:          "OpenKombai",
			Settings:       store.Get(),
			VisionModels:   settings.VisionCatalog(),
			CodeModels:     settings.CodeCatalog(),
			Presets:        settings.Presets(),
			Accept:         "image/png,image/jpeg,image/webp",
			MaxUploadBytes: maxUploadBytes,
		}

		c.Header("Cache-Control", "no-store")
		c.HTML(http.StatusOK, "index.html", data)
	}
}
