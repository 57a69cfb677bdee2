// Package requestid carries request identifiers through contexts.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the http header holding request id.
const Header = "X-Request-Id"

type ctxKey struct{}

// New generates new request id.
func New() string {
	return uuid.NewString()
}

// NewContext returns ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns id stored in ctx, or empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContextOrNew returns id stored in ctx, or a new one if there's none.
func FromContextOrNew(ctx context.Context) string {
	if id := FromContext(ctx); id != "" {
		return id
	}
	return New()
}
