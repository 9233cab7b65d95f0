package auth

import "context"

type claimsKey struct{}

// WithClaims stores verified claims in context
func WithClaims(ctx context.Context, claims *JwtClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns claims stored by WithClaims or nil
func ClaimsFromContext(ctx context.Context) *JwtClaims {
	if claims, ok := ctx.Value(claimsKey{}).(*JwtClaims); ok {
		return claims
	}
	return nil
}
