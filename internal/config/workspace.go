package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codeberg.org/openkombai/client/internal/settings"
	"gopkg.in/yaml.v3"
)

// WorkspaceFile is the per-project settings file of the editor host.
const WorkspaceFile = ".openkombai.yaml"

// reads dir/.openkombai.yaml. a missing file yields empty settings.
func LoadWorkspace(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, WorkspaceFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &Workspace{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read workspace settings: %w", err)
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", WorkspaceFile, err)
	}

	return &ws, nil
}

// writes ws to dir/.openkombai.yaml
func SaveWorkspace(dir string, ws *Workspace) error {
	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("failed to encode workspace settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, WorkspaceFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write workspace settings: %w", err)
	}

	return nil
}

// converts the stored workspace values to store settings
func (w *Workspace) Settings() settings.Settings {
	return settings.Settings{
		VisionModel: w.VisionModel,
		CodeModel:   w.CodeModel,
		Endpoint:    w.BackendURL,
	}
}

// captures the current store values for saving
func WorkspaceFrom(s settings.Settings) *Workspace {
	return &Workspace{
		BackendURL:  s.Endpoint,
		VisionModel: s.VisionModel,
		CodeModel:   s.CodeModel,
	}
}

// returns the environment-provided settings
func (c *Config) Settings() settings.Settings {
	return settings.Settings{
		VisionModel: c.VisionModel,
		CodeModel:   c.CodeModel,
		Endpoint:    c.BackendURL,
	}
}

// overlays layers in order; later non-empty fields win
func Merge(layers ...settings.Settings) settings.Settings {
	var out settings.Settings

	for _, l := range layers {
		if l.VisionModel != "" {
			out.VisionModel = l.VisionModel
		}

		if l.CodeModel != "" {
			out.CodeModel = l.CodeModel
		}

		if l.Endpoint != "" {
			out.Endpoint = l.Endpoint
		}
	}

	return out
}
