package wrap

import (
	"context"
	"errors"
)

// ctxError carries the LogCtx that was current where the error happened, so
// the boundary that finally logs it can report the original action and ids.
type ctxError struct {
	err    error
	logCtx LogCtx
}

func (e *ctxError) Error() string { return e.err.Error() }

func (e *ctxError) Unwrap() error { return e.err }

// Error wraps err with the LogCtx currently stored in ctx. When ctx carries
// no LogCtx and err is already wrapped, err is returned unchanged so the inner
// context survives.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c, ok := ctx.Value(LogCtxKey).(LogCtx)
	if !ok {
		var e *ctxError
		if errors.As(err, &e) {
			return err
		}
	}

	return &ctxError{err: err, logCtx: c}
}

// ErrorCtx returns ctx enriched with the LogCtx captured by Error. Fields the
// error did not capture keep the values already in ctx.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *ctxError
	if !errors.As(err, &e) || e == nil {
		return ctx
	}
	return WithLogCtx(ctx, e.logCtx)
}
