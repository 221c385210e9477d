package image

import (
	"codeberg.org/openkombai/client/internal/imagesource"
)

// owns the current image selection
type Selector interface {
	Select(payload *imagesource.Payload)
	Selection() *imagesource.Selection
}

// told about every new selection
type SelectionNotifier interface {
	ImageSelected(payload *imagesource.Payload)
}

type ImageResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Preview  string `json:"preview"`
}

type PreviewQuery struct {
	ID string `form:"id" binding:"required"`
}
