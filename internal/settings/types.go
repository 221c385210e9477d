package settings

// identifiers of the models the backend knows how to run
const (
	VisionLlama     = "llama3.2-vision"
	VisionMoondream = "moondream"
	CodeQwen        = "qwen2.5-coder"
	CodeQwenSmall   = "qwen2.5-coder:1.5b"
)

// DefaultEndpoint is where a locally started backend listens.
const DefaultEndpoint = "http://localhost:8000"

// describes one selectable model for settings surfaces
type Model struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// the pair of models a submission is made with
type RequestConfig struct {
	VisionModel string `json:"vision_model"`
	CodeModel   string `json:"code_model"`
}

// current values held by the store
type Settings struct {
	VisionModel string `json:"vision_model"`
	CodeModel   string `json:"code_model"`
	Endpoint    string `json:"endpoint"`
}

// returns the model pair of s
func (s Settings) Request() RequestConfig {
	return RequestConfig{VisionModel: s.VisionModel, CodeModel: s.CodeModel}
}

// partial update; nil fields are left untouched
type Update struct {
	VisionModel *string `json:"vision_model,omitempty"`
	CodeModel   *string `json:"code_model,omitempty"`
	Endpoint    *string `json:"endpoint,omitempty"`
}

// a named pairing of vision and code models
type Preset string

const (
	PresetStandard    Preset = "standard"
	PresetLowResource Preset = "low-resource"
)

var visionCatalog = []Model{
	{ID: VisionLlama, Label: "Llama 3.2 Vision", Description: "best quality, recommended, 7B params"},
	{ID: VisionMoondream, Label: "Moondream", Description: "fastest, low resource, 1.6B params"},
}

var codeCatalog = []Model{
	{ID: CodeQwen, Label: "Qwen 2.5 Coder (7B)", Description: "best accuracy, recommended"},
	{ID: CodeQwenSmall, Label: "Qwen 2.5 Coder (1.5B)", Description: "fast, low memory usage"},
}

var presets = map[Preset]RequestConfig{
	PresetStandard:    {VisionModel: VisionLlama, CodeModel: CodeQwen},
	PresetLowResource: {VisionModel: VisionMoondream, CodeModel: CodeQwenSmall},
}
