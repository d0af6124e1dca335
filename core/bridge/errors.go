package bridge

import (
	"errors"
	"fmt"

	"github.com/koscakluka/ema-espeak/core/engine"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrBufferFull means the engine's command queue rejected the request.
	ErrBufferFull = errors.New("command could not be buffered")
	// ErrInternal means the engine reported an internal fault.
	ErrInternal = errors.New("internal error within espeak")
	// ErrInvalidArgument is matched by every [ArgumentError].
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInitialization is returned by Init when the engine could not start.
	ErrInitialization = errors.New("could not initialize espeak")
	// ErrNotInitialized is returned by commands issued before a successful
	// Init, or after the bridge was closed.
	ErrNotInitialized = errors.New("espeak bridge is not initialized")
	// ErrVoiceNotFound means no voice matched the requested properties.
	ErrVoiceNotFound = errors.New("no voice matches the requested properties")
)

// ArgumentError reports a caller-supplied argument the bridge refused.
type ArgumentError struct {
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(argument, reason string) error {
	return &ArgumentError{Argument: argument, Reason: reason}
}

// resultError maps an engine result code onto the bridge's error taxonomy.
// Codes other than buffer-full and internal-error count as success.
func resultError(result engine.Result) error {
	switch result {
	case engine.ResultBufferFull:
		return ErrBufferFull
	case engine.ResultInternalError:
		return ErrInternal
	}
	return nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
