package config

import "time"

// process configuration shared by both hosts
type Config struct {
	BackendURL     string
	VisionModel    string
	CodeModel      string
	RequestTimeout time.Duration
	Environment    string
	Port           string
	AllowedOrigins []string
	RateLimit      string
	MaxUploadBytes int64
	RedisURL       string
}

// command line flags of the browser host
type ServerFlags struct {
	Port    string
	Backend string
}

// command line flags of the editor host
type TUIFlags struct {
	Workspace string
	Image     string
	Backend   string
	Preset    string
}

// editor host settings stored next to the user's project
type Workspace struct {
	BackendURL  string `yaml:"backend_url,omitempty"`
	VisionModel string `yaml:"vision_model,omitempty"`
	CodeModel   string `yaml:"code_model,omitempty"`
}
