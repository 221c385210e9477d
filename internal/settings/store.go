package settings

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"codeberg.org/openkombai/client/internal/failure"
)

// Store is the process-wide holder of the selected models and the backend
// endpoint. Hosts create one at startup and pass it by reference; reads are
// always fresh, so a change made right before a submission is honored.
type Store struct {
	mu      sync.RWMutex
	current Settings
}

// returns the built-in defaults
func Defaults() Settings {
	return Settings{
		VisionModel: VisionLlama,
		CodeModel:   CodeQwen,
		Endpoint:    DefaultEndpoint,
	}
}

// creates a store initialized with the built-in defaults
func NewStore() *Store {
	return &Store{current: Defaults()}
}

// creates a store from host-provided initial values. empty fields fall
// back to the defaults; anything else must pass validation.
func NewStoreWith(initial Settings) (*Store, error) {
	s := NewStore()

	update := Update{}
	if initial.VisionModel != "" {
		update.VisionModel = &initial.VisionModel
	}

	if initial.CodeModel != "" {
		update.CodeModel = &initial.CodeModel
	}

	if initial.Endpoint != "" {
		update.Endpoint = &initial.Endpoint
	}

	if err := s.Set(update); err != nil {
		return nil, err
	}

	return s, nil
}

// returns the current settings
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// validates every present field and applies the update only if all of them
// are valid
func (s *Store) Set(u Update) error {
	next := s.Get()

	if u.VisionModel != nil {
		if !IsVisionModel(*u.VisionModel) {
			return failure.InvalidModel("vision", *u.VisionModel)
		}

		next.VisionModel = *u.VisionModel
	}

	if u.CodeModel != nil {
		if !IsCodeModel(*u.CodeModel) {
			return failure.InvalidModel("code", *u.CodeModel)
		}

		next.CodeModel = *u.CodeModel
	}

	if u.Endpoint != nil {
		endpoint, err := NormalizeEndpoint(*u.Endpoint)
		if err != nil {
			return failure.InvalidEndpoint(*u.Endpoint, err)
		}

		next.Endpoint = endpoint
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// last write wins per field; fields not named in u keep whatever a
	// concurrent writer stored
	if u.VisionModel != nil {
		s.current.VisionModel = next.VisionModel
	}

	if u.CodeModel != nil {
		s.current.CodeModel = next.CodeModel
	}

	if u.Endpoint != nil {
		s.current.Endpoint = next.Endpoint
	}

	return nil
}

// switches both models to the pairing named by p
func (s *Store) ApplyPreset(p Preset) error {
	cfg, ok := presets[p]
	if !ok {
		return &failure.Error{
			Kind:    failure.KindInvalidModel,
			Message: fmt.Sprintf("unknown preset %q", p),
		}
	}

	return s.Set(Update{VisionModel: &cfg.VisionModel, CodeModel: &cfg.CodeModel})
}

// restores the built-in defaults
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Defaults()
}

// reports which preset the current models match, if any
func (s *Store) Preset() (Preset, bool) {
	req := s.Get().Request()

	for name, cfg := range presets {
		if cfg == req {
			return name, true
		}
	}

	return "", false
}

func VisionCatalog() []Model {
	return slices.Clone(visionCatalog)
}

func CodeCatalog() []Model {
	return slices.Clone(codeCatalog)
}

func Presets() []Preset {
	return []Preset{PresetStandard, PresetLowResource}
}

func IsVisionModel(id string) bool {
	return slices.ContainsFunc(visionCatalog, func(m Model) bool { return m.ID == id })
}

func IsCodeModel(id string) bool {
	return slices.ContainsFunc(codeCatalog, func(m Model) bool { return m.ID == id })
}

// checks that endpoint is an absolute http(s) URL and strips trailing slashes
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to parse endpoint: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("endpoint must use http or https")
	}

	if u.Host == "" {
		return "", errors.New("endpoint must include a host")
	}

	return strings.TrimRight(endpoint, "/"), nil
}
