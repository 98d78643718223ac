package middleware

import "context"

// Identity is the verified caller attached to the request context by the
// authenticator: who the credential belongs to and which session backs it.
type Identity struct {
	UserID    uint
	Email     string
	SessionID uint
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
