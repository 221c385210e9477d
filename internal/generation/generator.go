package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/settings"
)

// Generator ties the backend client to one host: it owns the image
// selection, reads settings at the moment of submission and routes every
// outcome through the host's progress and result surfaces.
type Generator struct {
	client    *Client
	settings  *settings.Store
	selection *imagesource.Selection
	host      Host

	mu      sync.Mutex
	current *Task
}

// creates a generator for host
func NewGenerator(client *Client, store *settings.Store, host Host) *Generator {
	return &Generator{
		client:    client,
		settings:  store,
		selection: imagesource.NewSelection(),
		host:      host,
	}
}

func (g *Generator) Selection() *imagesource.Selection {
	return g.selection
}

func (g *Generator) Settings() *settings.Store {
	return g.settings
}

func (g *Generator) State() State {
	return g.client.State()
}

// asks src for an image and makes it the current selection. a running
// submission keeps the payload it was started with.
func (g *Generator) Capture(ctx context.Context, src imagesource.Source) (*imagesource.Payload, error) {
	done := g.client.AwaitSelection()
	defer done()

	payload, err := src.Capture(ctx)
	if err != nil {
		if !errors.Is(err, imagesource.ErrNoSelection) {
			logger.Warn("image capture failed", "error", err)
		}

		return nil, err
	}

	g.Select(payload)

	return payload, nil
}

// makes payload the current selection
func (g *Generator) Select(payload *imagesource.Payload) {
	g.selection.Replace(payload)

	logger.Debug("image selected",
		"image_id", payload.ID,
		"filename", payload.Filename,
		"mime_type", payload.MimeType,
		"size", payload.Size,
	)
}

// starts generating code for the current selection. synchronous failures
// (no image, busy) are reported to the host and returned; anything later
// resolves the returned task after the host has been told.
func (g *Generator) Start(ctx context.Context) (*Task, error) {
	payload := g.selection.Current()
	if payload == nil {
		return nil, g.fail(failure.NoImageSelected(), nil)
	}

	// read at the instant of submission so the latest settings win
	current := g.settings.Get()
	cfg := current.Request()

	g.mu.Lock()
	if g.current != nil {
		g.mu.Unlock()
		return nil, g.fail(failure.Busy(), payload)
	}

	if err := g.client.reserve(); err != nil {
		g.mu.Unlock()
		return nil, g.fail(err, payload)
	}

	ctx, cancel := context.WithCancel(ctx)
	outer := newTask(cancel)
	g.current = outer
	g.mu.Unlock()

	g.host.Begin(fmt.Sprintf("generating code with %s and %s", cfg.VisionModel, cfg.CodeModel))

	logger.Info("generation started",
		"image_id", payload.ID,
		"filename", payload.Filename,
		"vision_model", cfg.VisionModel,
		"code_model", cfg.CodeModel,
		"endpoint", current.Endpoint,
	)

	inner := g.client.launch(ctx, payload, cfg, current.Endpoint)

	go func() {
		<-inner.Done()
		res, err := inner.Result()

		g.host.End(outcomeOf(err))

		if err != nil {
			err = g.fail(err, payload)
		} else {
			logger.Info("generation completed",
				"image_id", payload.ID,
				"code_length", len(res.Code),
			)

			g.host.DeliverResult(*res)
		}

		g.mu.Lock()
		if g.current == outer {
			g.current = nil
		}
		g.mu.Unlock()

		outer.resolve(res, err)
		cancel()
	}()

	return outer, nil
}

// starts a generation and waits for it
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	task, err := g.Start(ctx)
	if err != nil {
		return nil, err
	}

	<-task.Done()

	return task.Result()
}

// aborts the running submission, if any
func (g *Generator) Cancel() bool {
	g.mu.Lock()
	task := g.current
	g.mu.Unlock()

	if task == nil {
		return false
	}

	task.Cancel()

	return true
}

// reports whether a submission is running
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.current != nil
}

// logs err and hands it to the host
func (g *Generator) fail(err error, payload *imagesource.Payload) error {
	fe, ok := failure.As(err)
	if !ok {
		fe = failure.Transport(err)
	}

	args := []any{"kind", fe.Kind, "message", fe.Message}
	if payload != nil {
		args = append(args, "image_id", payload.ID)
	}

	if fe.RawDetail != "" {
		args = append(args, "raw_detail", fe.RawDetail)
	}

	if fe.Err != nil {
		args = append(args, "error", fe.Err)
	}

	logger.Warn("generation failed", args...)

	g.host.ReportError(fe)

	return fe
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCompleted
	case errors.Is(err, failure.ErrCanceled):
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
