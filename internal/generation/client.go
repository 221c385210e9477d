package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/imagesource"
	"codeberg.org/openkombai/client/internal/settings"
)

// Client talks to the generation backend. One instance runs at most one
// submission at a time; a second one is rejected, not queued.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration

	mu    sync.Mutex
	state State
}

type Option func(*Client)

// overrides the submission timeout (DefaultTimeout otherwise)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// replaces the underlying HTTP client. its own Timeout should be zero; the
// submission timeout is enforced through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// creates a new backend client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		state:      StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// returns the configured submission timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// returns where the client is in its lifecycle
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// marks the client as waiting for the user to pick an image. the returned
// func must be called once the picker closes. a running submission keeps
// the client in StateSubmitting.
func (c *Client) AwaitSelection() (done func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return func() {}
	}

	c.state = StateAwaitingSelection

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.state == StateAwaitingSelection {
			c.state = StateIdle
		}
	}
}

// sends payload with cfg to endpoint and waits for the outcome
func (c *Client) Submit(ctx context.Context, payload *imagesource.Payload, cfg settings.RequestConfig, endpoint string) (*Result, error) {
	task, err := c.Start(ctx, payload, cfg, endpoint)
	if err != nil {
		return nil, err
	}

	<-task.Done()

	return task.Result()
}

// starts a submission and returns immediately. it fails synchronously,
// before any network activity, when there is no payload, when cfg names
// unknown models or when another submission is still running.
func (c *Client) Start(ctx context.Context, payload *imagesource.Payload, cfg settings.RequestConfig, endpoint string) (*Task, error) {
	if payload == nil {
		return nil, failure.NoImageSelected()
	}

	if !settings.IsVisionModel(cfg.VisionModel) {
		return nil, failure.InvalidModel("vision", cfg.VisionModel)
	}

	if !settings.IsCodeModel(cfg.CodeModel) {
		return nil, failure.InvalidModel("code", cfg.CodeModel)
	}

	if err := c.reserve(); err != nil {
		return nil, err
	}

	return c.launch(ctx, payload, cfg, endpoint), nil
}

// claims the single submission slot
func (c *Client) reserve() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return failure.Busy()
	}

	c.state = StateSubmitting

	return nil
}

// runs the request in the background; the slot must already be reserved
func (c *Client) launch(ctx context.Context, payload *imagesource.Payload, cfg settings.RequestConfig, endpoint string) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	task := newTask(cancel)

	go func() {
		defer cancel()

		reqCtx, reqCancel := context.WithTimeout(taskCtx, c.timeout)
		defer reqCancel()

		res, err := c.do(reqCtx, payload, cfg, endpoint)
		c.settle(err)
		task.resolve(res, err)
	}()

	return task
}

func (c *Client) settle(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		return
	}

	c.state = StateCompleted
}

func (c *Client) do(ctx context.Context, payload *imagesource.Payload, cfg settings.RequestConfig, endpoint string) (*Result, error) {
	target, err := generateURL(endpoint, cfg)
	if err != nil {
		return nil, failure.InvalidEndpoint(endpoint, err)
	}

	// stream the form so file payloads are never held in memory
	pr, pw := io.Pipe()
	defer pr.Close() //nolint:errcheck

	form := multipart.NewWriter(pw)

	formErr := make(chan error, 1)

	go func() {
		err := writeForm(form, payload, cfg)
		formErr <- err
		pw.CloseWithError(err) //nolint:errcheck,gosec // CloseWithError always returns nil
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		return nil, failure.InvalidEndpoint(endpoint, err)
	}

	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		select {
		case ferr := <-formErr:
			if ferr != nil && !errors.Is(ferr, io.ErrClosedPipe) && ctx.Err() == nil {
				return nil, &failure.Error{
					Kind:    failure.KindTransport,
					Message: "failed to read the selected image",
					Err:     ferr,
				}
			}
		default:
		}

		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendError(resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Code == nil {
		return nil, failure.Backend("backend returned an unreadable response", string(body))
	}

	return &Result{Code: *out.Code, Description: out.Description}, nil
}

// probes the backend's health route
func (c *Client) Health(ctx context.Context, endpoint string) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(endpoint, "/")+healthPath, nil)
	if err != nil {
		return nil, failure.InvalidEndpoint(endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backendError(resp.StatusCode, body)
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, failure.Backend("backend returned an unreadable health response", string(body))
	}

	return &h, nil
}

// older backends read the model names from the query string, newer ones
// from the form; both are sent
func generateURL(endpoint string, cfg settings.RequestConfig) (string, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/") + generatePath)
	if err != nil {
		return "", err
	}

	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("endpoint must be an absolute URL")
	}

	q := u.Query()
	q.Set(fieldVisionModel, cfg.VisionModel)
	q.Set(fieldCodeModel, cfg.CodeModel)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeForm(form *multipart.Writer, payload *imagesource.Payload, cfg settings.RequestConfig) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldFile, quoteEscaper.Replace(payload.Filename)))
	h.Set("Content-Type", payload.MimeType)

	part, err := form.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}

	rc, err := payload.Open()
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("failed to copy image: %w", err)
	}

	if err := form.WriteField(fieldVisionModel, cfg.VisionModel); err != nil {
		return fmt.Errorf("failed to write vision model: %w", err)
	}

	if err := form.WriteField(fieldCodeModel, cfg.CodeModel); err != nil {
		return fmt.Errorf("failed to write code model: %w", err)
	}

	return form.Close()
}

// tells a timeout and a caller cancellation apart from a plain connection
// failure
func classifyTransport(ctx context.Context, err error) *failure.Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return failure.Timeout(err)
	case errors.Is(ctx.Err(), context.Canceled):
		return failure.Canceled(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failure.Timeout(err)
	}

	return failure.Transport(err)
}

// uses the backend's string detail verbatim when there is one
func backendError(status int, body []byte) *failure.Error {
	var resp struct {
		Detail json.RawMessage `json:"detail"`
	}

	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(resp.Detail, &detail); err == nil && detail != "" {
			return failure.Backend(detail, string(body))
		}
	}

	return failure.Backend(fmt.Sprintf("backend request failed with status %d", status), string(body))
}
