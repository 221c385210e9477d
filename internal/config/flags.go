package config

import (
	"flag"
	"io"
)

// parses flags of the browser host
func ParseServerFlags(args []string, cfg *Config) (ServerFlags, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	port := fs.String("port", cfg.Port, "port the browser host listens on")
	backend := fs.String("backend", "", "generation backend base URL (overrides OPENKOMBAI_BACKEND_URL)")

	if err := fs.Parse(args); err != nil {
		return ServerFlags{}, err
	}

	return ServerFlags{Port: *port, Backend: *backend}, nil
}

// parses flags of the editor host
func ParseTUIFlags(args []string) (TUIFlags, error) {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	workspace := fs.String("workspace", ".", "workspace directory holding .openkombai.yaml")
	image := fs.String("image", "", "preselect this image")
	backend := fs.String("backend", "", "generation backend base URL (overrides the workspace setting)")
	preset := fs.String("preset", "", "model preset: standard or low-resource")

	if err := fs.Parse(args); err != nil {
		return TUIFlags{}, err
	}

	return TUIFlags{
		Workspace: *workspace,
		Image:     *image,
		Backend:   *backend,
		Preset:    *preset,
	}, nil
}
