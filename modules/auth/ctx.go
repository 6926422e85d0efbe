package auth

import "context"

type identityKey struct{}

// Identity describes the principal behind a request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// Anonymous is the identity used when no valid session cookie is present.
func Anonymous() *Identity {
	return &Identity{ID: "anonymous", Username: "guest"}
}

func withIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// From returns the identity set by WithAuthn, or the anonymous identity when
// the request never passed through it.
func From(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return Anonymous()
	}
	ident, _ := val.(*Identity)
	return ident
}
