package browser

import (
	"time"
)

// publishes events to every connected page
type Publisher interface {
	Publish(msgType string, payload any)
}

// the page's view of the generation panel: progress, the code buffer and
// the inline error. a page that (re)connects renders straight from it.
type Snapshot struct {
	Busy        bool       `json:"busy"`
	Label       string     `json:"label,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	Error       *ErrorView `json:"error,omitempty"`
	Image       *ImageView `json:"image,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// an error as shown in the page's error panel
type ErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// the selected image as shown next to the file input
type ImageView struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Preview  string `json:"preview,omitempty"`
}
