package failure

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := Backend("model not found", `{"detail":"model not found"}`)

	assert.True(t, errors.Is(err, ErrBackend))
	assert.False(t, errors.Is(err, ErrTransport))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Timeout(context.DeadlineExceeded))

	assert.True(t, errors.Is(wrapped, ErrTimeout))
	assert.True(t, errors.Is(wrapped, context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, KindOf(wrapped))
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"backend detail verbatim", Backend("model not found", ""), "model not found"},
		{"transport hint", Transport(errors.New("dial tcp: connection refused")), MessageTransport},
		{"timeout hint", Timeout(nil), MessageTimeout},
		{"invalid model", InvalidModel("vision", "gpt-4o"), `unknown vision model "gpt-4o"`},
		{"kind fallback", &Error{Kind: KindBusy}, "busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
