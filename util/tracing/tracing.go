package tracing

import "context"

// Context carries per-request identifiers through handlers and logs.
type Context struct {
	RequestID     string
	RequestSource string
}

type ctxKey struct{}

func (tc Context) String() string {
	return "request_id=" + tc.RequestID + " source=" + tc.RequestSource
}

// WithContext stores tc on ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext returns the tracing context, or a zero Context when none was set.
func FromContext(ctx context.Context) Context {
	tc, _ := ctx.Value(ctxKey{}).(Context)
	return tc
}
