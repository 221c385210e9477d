package settings

import (
	"net/http"

	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
)

// GetSettingsHandler returns the current settings and catalogs
func GetSettingsHandler(store *settings.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildResponse(store))
	}
}

// UpdateSettingsHandler validates and applies a partial settings update
func UpdateSettingsHandler(store *settings.Store, notifier ChangeNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid settings update", err)
			return
		}

		err := store.Set(settings.Update{
			VisionModel: req.VisionModel,
			CodeModel:   req.CodeModel,
			Endpoint:    req.Endpoint,
		})
		if err != nil {
			errors.Failure(c, err)
			return
		}

		current := store.Get()

		logger.Info("settings updated",
			"vision_model", current.VisionModel,
			"code_model", current.CodeModel,
			"endpoint", current.Endpoint,
		)

		notifier.SettingsChanged(current)

		c.JSON(http.StatusOK, buildResponse(store))
	}
}

// ApplyPresetHandler switches both models to a named pairing
func ApplyPresetHandler(store *settings.Store, notifier ChangeNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PresetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "preset is required", err)
			return
		}

		if err := store.ApplyPreset(settings.Preset(req.Preset)); err != nil {
			errors.Failure(c, err)
			return
		}

		logger.Info("settings preset applied", "preset", req.Preset)

		notifier.SettingsChanged(store.Get())

		c.JSON(http.StatusOK, buildResponse(store))
	}
}

func buildResponse(store *settings.Store) Response {
	resp := Response{
		Settings:     store.Get(),
		VisionModels: settings.VisionCatalog(),
		CodeModels:   settings.CodeCatalog(),
		Presets:      settings.Presets(),
	}

	if p, ok := store.Preset(); ok {
		resp.Preset = string(p)
	}

	return resp
}
