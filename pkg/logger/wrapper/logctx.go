package wrap

import (
	"context"
)

type (
	// LogCtx is what the logger's context handler adds to every record.
	// Empty fields are omitted.
	LogCtx struct {
		Action    string
		RequestID string
		ViewID    string // websocket connection or terminal view
		EntityID  string // ticket, user or ride being worked on
	}

	logCtxKeyStruct struct{}
)

var LogCtxKey = &logCtxKeyStruct{}

func current(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

func with(ctx context.Context, set func(*LogCtx)) context.Context {
	lc := current(ctx)
	set(&lc)
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithLogCtx merges next over the LogCtx already in ctx. Empty fields of next
// do not erase existing values.
func WithLogCtx(ctx context.Context, next LogCtx) context.Context {
	return with(ctx, func(lc *LogCtx) {
		if next.Action != "" {
			lc.Action = next.Action
		}
		if next.RequestID != "" {
			lc.RequestID = next.RequestID
		}
		if next.ViewID != "" {
			lc.ViewID = next.ViewID
		}
		if next.EntityID != "" {
			lc.EntityID = next.EntityID
		}
	})
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, func(lc *LogCtx) { lc.RequestID = requestID })
}

func WithViewID(ctx context.Context, viewID string) context.Context {
	return with(ctx, func(lc *LogCtx) { lc.ViewID = viewID })
}

func WithEntityID(ctx context.Context, entityID string) context.Context {
	return with(ctx, func(lc *LogCtx) { lc.EntityID = entityID })
}

func WithAction(ctx context.Context, action string) context.Context {
	return with(ctx, func(lc *LogCtx) { lc.Action = action })
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	return current(ctx).RequestID
}
