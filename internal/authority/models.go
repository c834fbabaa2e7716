package authority

// CookieName is the cookie carrying the session credential. The credential is
// an opaque bearer token; nothing on this side of the wire interprets it.
const CookieName = "access_token"

// User is the identity record owned by the authority. It is replaced
// wholesale on each successful refresh, never patched from partial data.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Verified bool   `json:"is_verified"`
	Active   bool   `json:"is_active"`
}

// LoginResult is the success payload of a login call: the user record that
// seeds the session store directly, and the freshly issued credential.
type LoginResult struct {
	User       User
	Credential string
}

// loginResponse mirrors the authority's login payload.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
