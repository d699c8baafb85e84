package manager

import "context"

// Context keys for authorization values.
type contextKey int

const authorizationKey contextKey = iota

// WithAuthorization returns a new context with the authorization attached.
func WithAuthorization(ctx context.Context, authz *Authorization) context.Context {
	return context.WithValue(ctx, authorizationKey, authz)
}

// AuthorizationFromContext retrieves the authorization from the context.
// Returns nil if none is present.
func AuthorizationFromContext(ctx context.Context) *Authorization {
	authz, _ := ctx.Value(authorizationKey).(*Authorization)
	return authz
}

// TenantIDFromContext retrieves the authorized tenant id from the context.
// Returns empty string if no authorization is present.
func TenantIDFromContext(ctx context.Context) string {
	authz := AuthorizationFromContext(ctx)
	if authz == nil {
		return ""
	}
	return authz.TenantID
}
