package auth

import "context"

type ctxKeyClaims struct{}

// WithClaims attaches the authenticated identity to the context.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims{}, c)
}

// ClaimsFrom returns the authenticated identity, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims{}).(*Claims)
	return c, ok && c != nil
}
