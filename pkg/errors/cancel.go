package errors

import (
	"context"
	"errors"
	"fmt"
)

// IsCanceled reports whether err is (or wraps) a context cancellation or deadline.
// Cancellation is a control-flow signal, not a failure; callers that isolate
// failures must let it through.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FromPanic converts a recovered panic value into a SifterError.
func FromPanic(recovered interface{}) *SifterError {
	if err, ok := recovered.(error); ok {
		return Wrap(err, ErrPluginPanic, "plugin panicked")
	}
	return Newf(ErrPluginPanic, "plugin panicked: %v", recovered)
}

// Message returns the user-facing message of err: the message of a SifterError
// without its code prefix, or err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var sifterErr *SifterError
	if errors.As(err, &sifterErr) {
		if sifterErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", sifterErr.Message, sifterErr.Wrapped)
		}
		return sifterErr.Message
	}
	return err.Error()
}

// Guard runs fn and converts a panic into an ErrPluginPanic error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FromPanic(r)
		}
	}()
	return fn()
}
