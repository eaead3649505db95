// Package requestcontext carries per-request values through a
// context.Context so handlers and services can read them without net/http.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyRequestTime
)

// RequestID is empty when no middleware stamped the context.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// Now is the instant the request entered the server, or the wall clock when
// the context did not come from one.
func Now(ctx context.Context) time.Time {
	if at, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return at
	}
	return time.Now()
}

func WithTime(ctx context.Context, at time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, at)
}
