package auth

// AuthContext represents the authentication context available in a request.
// It is a transient value injected by the auth middleware after verifying
// the bearer token; it is the workflow's only source of the acting user's
// identity.
type AuthContext struct {
	UserID string
	Email  string
}
