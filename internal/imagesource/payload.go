package imagesource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNoSelection      = errors.New("no image selected")
	ErrUnsupportedImage = errors.New("unsupported image type, expected png, jpeg or webp")
	ErrImageTooLarge    = errors.New("image exceeds the upload size limit")
	ErrNotRegularFile   = errors.New("selected path is not a regular file")
)

// mime types the backend accepts
var supportedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// AllowedExtensions mirrors supportedTypes for file-picker filters.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// Payload is a captured image. It never changes after creation: a new
// selection produces a new Payload, so a submission that already holds one
// keeps sending the image it started with.
type Payload struct {
	ID       string
	Filename string
	MimeType string
	Size     int64

	// host-specific reference used to show the image back to the user
	Preview string

	open   func() (io.ReadCloser, error)
	memory []byte
}

// configures optional payload fields
type Option func(*Payload)

// derives Preview from the generated payload ID
func WithPreviewFunc(fn func(id string) string) Option {
	return func(p *Payload) {
		p.Preview = fn(p.ID)
	}
}

// returns a fresh reader over the image bytes. callers must close it.
func (p *Payload) Open() (io.ReadCloser, error) {
	if p == nil || p.open == nil {
		return nil, ErrNoSelection
	}

	return p.open()
}

// returns the in-memory bytes for payloads that were uploaded rather than
// streamed from disk
func (p *Payload) Bytes() ([]byte, bool) {
	if p == nil || p.memory == nil {
		return nil, false
	}

	return p.memory, true
}

// builds a payload that streams from path at submit time. only the header
// is read here to detect the image type.
func FromFile(path string, opts ...Option) (*Payload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, ErrNotRegularFile
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect image type: %w", err)
	}

	mimeType, err := supported(mt)
	if err != nil {
		return nil, err
	}

	p := &Payload{
		ID:       uuid.NewString(),
		Filename: filepath.Base(path),
		MimeType: mimeType,
		Size:     info.Size(),
		Preview:  path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // G304: path chosen by the user through the picker
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// builds an in-memory payload. data is copied so later writes by the caller
// cannot leak into a bound submission.
func FromBytes(filename string, data []byte, opts ...Option) (*Payload, error) {
	if len(data) == 0 {
		return nil, ErrNoSelection
	}

	mimeType, err := supported(mimetype.Detect(data))
	if err != nil {
		return nil, err
	}

	buf := bytes.Clone(data)

	p := &Payload{
		ID:       uuid.NewString(),
		Filename: filepath.Base(filename),
		MimeType: mimeType,
		Size:     int64(len(buf)),
		memory:   buf,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// reads a browser upload into memory, enforcing maxBytes when positive
func FromUpload(fh *multipart.FileHeader, maxBytes int64, opts ...Option) (*Payload, error) {
	if fh == nil {
		return nil, ErrNoSelection
	}

	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	return FromBytes(fh.Filename, data, opts...)
}

func supported(mt *mimetype.MIME) (string, error) {
	for m := mt; m != nil; m = m.Parent() {
		if slices.Contains(supportedTypes, m.String()) {
			return m.String(), nil
		}
	}

	return "", fmt.Errorf("%w: got %s", ErrUnsupportedImage, mt.String())
}
