package settings

import (
	"codeberg.org/openkombai/client/internal/settings"
)

// told about every accepted settings change
type ChangeNotifier interface {
	SettingsChanged(current settings.Settings)
}

// current settings plus what the pickers may offer
type Response struct {
	Settings     settings.Settings `json:"settings"`
	Preset       string            `json:"preset,omitempty"`
	VisionModels []settings.Model  `json:"vision_models"`
	CodeModels   []settings.Model  `json:"code_models"`
	Presets      []settings.Preset `json:"presets"`
}

// partial update; omitted fields are left untouched
type UpdateRequest struct {
	VisionModel *string `json:"vision_model"`
	CodeModel   *string `json:"code_model"`
	Endpoint    *string `json:"endpoint"`
}

type PresetRequest struct {
	Preset string `json:"preset" binding:"required"`
}
