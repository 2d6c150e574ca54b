// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test coded errors, cancellation detection and panic isolation

package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/sifter/pkg/errors"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.SifterError
		want string
	}{
		{
			name: "plain",
			err:  errors.New(errors.ErrPluginNotFound, "unknown condition 'nope'"),
			want: "[PLUGIN_NOT_FOUND] unknown condition 'nope'",
		},
		{
			name: "formatted",
			err:  errors.Newf(errors.ErrConfigValid, "%s must not be negative, got %d", "output.max_errors", -1),
			want: "[CONFIG_INVALID] output.max_errors must not be negative, got -1",
		},
		{
			name: "wrapped",
			err:  errors.Wrapf(stderrors.New("permission denied"), errors.ErrFileAccess, "cannot read %s", "/a.txt"),
			want: "[FILE_ACCESS] cannot read /a.txt: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if tt.err.Details == nil {
				t.Error("Details should be initialized")
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if errors.Wrap(nil, errors.ErrInternal, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if errors.Wrapf(nil, errors.ErrInternal, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrDefinitionInvalid, "bad node").
		WithDetail("at", "matched[0]").
		WithDetails(map[string]interface{}{"type": "zip", "at": "matched[1]"})

	details := errors.GetErrorDetails(err)
	if details["at"] != "matched[1]" || details["type"] != "zip" {
		t.Errorf("GetErrorDetails() = %v", details)
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() of a plain error should be nil")
	}
}

func TestCodesThroughWrapping(t *testing.T) {
	root := errors.New(errors.ErrFileAccess, "cannot open")
	mid := errors.Wrap(root, errors.ErrCacheLoad, "text cache failed")
	top := fmt.Errorf("file /a: %w", mid)

	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{"outermost coded error wins", top, errors.ErrCacheLoad, true},
		{"inner code is not the reported one", top, errors.ErrFileAccess, false},
		{"plain error", stderrors.New("x"), errors.ErrCacheLoad, false},
		{"nil", nil, errors.ErrCacheLoad, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := errors.GetErrorCode(top); got != errors.ErrCacheLoad {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrCacheLoad)
	}
	if got := errors.GetErrorCode(stderrors.New("x")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() of a plain error = %v, want %v", got, errors.ErrUnknown)
	}

	if !stderrors.Is(top, errors.New(errors.ErrFileAccess, "")) {
		t.Error("errors.Is should find an inner code in the chain")
	}
	if stderrors.Is(top, errors.New(errors.ErrProcessorRun, "")) {
		t.Error("errors.Is should not match an absent code")
	}

	joined := stderrors.Join(stderrors.New("first"), errors.New(errors.ErrDefinitionInvalid, "second"))
	if !errors.IsErrorCode(joined, errors.ErrDefinitionInvalid) {
		t.Error("IsErrorCode should see through errors.Join")
	}
}


func TestIsCanceled(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped_canceled", errors.Wrap(context.Canceled, errors.ErrConditionEval, "evaluation stopped"), true},
		{"fmt_wrapped_canceled", fmt.Errorf("walk: %w", context.Canceled), true},
		{"plain_error", stderrors.New("boom"), false},
		{"nil_error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsCanceled(tt.err); got != tt.expected {
				t.Errorf("IsCanceled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromPanic(t *testing.T) {
	t.Run("error_value", func(t *testing.T) {
		base := stderrors.New("nil map write")
		err := errors.FromPanic(base)
		if !errors.IsErrorCode(err, errors.ErrPluginPanic) {
			t.Errorf("FromPanic() code = %v, want %v", err.Code, errors.ErrPluginPanic)
		}
		if !stderrors.Is(err, base) {
			t.Error("FromPanic() should wrap the panic error")
		}
	})

	t.Run("string_value", func(t *testing.T) {
		err := errors.FromPanic("index out of range")
		if err.Message != "plugin panicked: index out of range" {
			t.Errorf("FromPanic() message = %q", err.Message)
		}
	})
}

func TestMessage(t *testing.T) {
	if got := errors.Message(errors.New(errors.ErrProcessorRun, "oops")); got != "oops" {
		t.Errorf("Message() = %q, want %q", got, "oops")
	}
	if got := errors.Message(stderrors.New("plain")); got != "plain" {
		t.Errorf("Message() = %q, want %q", got, "plain")
	}
	if got := errors.Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
}

func TestGuard(t *testing.T) {
	if err := errors.Guard(func() error { return nil }); err != nil {
		t.Errorf("Guard() = %v, want nil", err)
	}

	base := stderrors.New("boom")
	if err := errors.Guard(func() error { return base }); err != base {
		t.Errorf("Guard() should pass returned errors through, got %v", err)
	}

	err := errors.Guard(func() error { panic("kaboom") })
	if !errors.IsErrorCode(err, errors.ErrPluginPanic) {
		t.Errorf("Guard() on panic = %v, want code %v", err, errors.ErrPluginPanic)
	}
}
