package imagesource

import (
	"context"
	"strings"
	"sync"
)

// captures an image the host's way (file dialog, upload, ...)
type Source interface {
	Capture(ctx context.Context) (*Payload, error)
}

// asks the user for a file path. implementations return ErrNoSelection
// when the user dismisses the dialog.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// adapts a function to Picker
type PickerFunc func(ctx context.Context) (string, error)

func (f PickerFunc) Pick(ctx context.Context) (string, error) {
	return f(ctx)
}

// always returns the same path, e.g. one given on the command line
func StaticPicker(path string) Picker {
	return PickerFunc(func(context.Context) (string, error) {
		if strings.TrimSpace(path) == "" {
			return "", ErrNoSelection
		}

		return path, nil
	})
}

// captures images from the local filesystem through a Picker
type FileSource struct {
	picker Picker
}

func NewFileSource(picker Picker) *FileSource {
	return &FileSource{picker: picker}
}

func (s *FileSource) Capture(ctx context.Context) (*Payload, error) {
	path, err := s.picker.Pick(ctx)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return nil, ErrNoSelection
	}

	return FromFile(path)
}

// Selection holds the most recently captured payload. Replacing it only
// swaps the pointer; payloads already handed to a submission are untouched.
type Selection struct {
	mu      sync.RWMutex
	current *Payload
}

func NewSelection() *Selection {
	return &Selection{}
}

// stores p as the current selection and returns the one it replaced
func (s *Selection) Replace(p *Payload) *Payload {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	s.current = p

	return prev
}

// returns the current payload, or nil when nothing is selected
func (s *Selection) Current() *Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

func (s *Selection) Clear() {
	s.Replace(nil)
}
