package failure

import (
	"errors"
	"fmt"
)

// classifies why a generation (or a configuration change) failed
type Kind string

const (
	KindNoImageSelected Kind = "no_image_selected"
	KindBusy            Kind = "busy"
	KindTransport       Kind = "transport_error"
	KindBackend         Kind = "backend_error"
	KindTimeout         Kind = "timeout"
	KindInvalidModel    Kind = "invalid_model"
	KindInvalidEndpoint Kind = "invalid_endpoint"
	KindCanceled        Kind = "canceled"
)

// user-facing messages for kinds that do not carry their own
const (
	MessageNoImageSelected = "select an image before generating code"
	MessageBusy            = "a generation is already in progress"
	MessageTransport       = "failed to reach the generation backend. is the backend running?"
	MessageTimeout         = "the backend did not answer in time. the selected models may be too large for the available hardware"
	MessageCanceled        = "generation canceled"
)

// Error is the single failure type surfaced to hosts. It is terminal for the
// submission that produced it.
type Error struct {
	Kind      Kind
	Message   string
	RawDetail string
	Err       error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// matches any *Error of the same kind, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// sentinels for errors.Is comparisons
var (
	ErrNoImageSelected = &Error{Kind: KindNoImageSelected}
	ErrBusy            = &Error{Kind: KindBusy}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrBackend         = &Error{Kind: KindBackend}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrInvalidModel    = &Error{Kind: KindInvalidModel}
	ErrInvalidEndpoint = &Error{Kind: KindInvalidEndpoint}
	ErrCanceled        = &Error{Kind: KindCanceled}
)

func NoImageSelected() *Error {
	return &Error{Kind: KindNoImageSelected, Message: MessageNoImageSelected}
}

func Busy() *Error {
	return &Error{Kind: KindBusy, Message: MessageBusy}
}

func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: MessageTransport, Err: err}
}

func Timeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: MessageTimeout, Err: err}
}

func Canceled(err error) *Error {
	return &Error{Kind: KindCanceled, Message: MessageCanceled, Err: err}
}

// detail is passed through verbatim as the message
func Backend(message, rawDetail string) *Error {
	return &Error{Kind: KindBackend, Message: message, RawDetail: rawDetail}
}

func InvalidModel(role, model string) *Error {
	return &Error{
		Kind:    KindInvalidModel,
		Message: fmt.Sprintf("unknown %s model %q", role, model),
	}
}

func InvalidEndpoint(endpoint string, err error) *Error {
	return &Error{
		Kind:    KindInvalidEndpoint,
		Message: fmt.Sprintf("invalid backend endpoint %q", endpoint),
		Err:     err,
	}
}

// extracts the *Error from err, if any
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}

	return nil, false
}

// returns the kind of err, or "" when err is not a classified failure
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}

	return ""
}
