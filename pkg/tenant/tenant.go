package tenant

import "context"

type contextKey struct{}

// WithStorefront binds the request's storefront key to the context. The
// ledger consults it as the last resolution step when no explicit or
// source-derived key is available.
func WithStorefront(ctx context.Context, storefrontKey string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, storefrontKey)
}

// StorefrontFromContext returns the ambient storefront key, or "" when the
// request carries none.
func StorefrontFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
