package session

// Context is the storefront session identity. It is the only join key between
// the local stores and the backend's per user records. It is loaded once at
// startup and passed explicitly into every store constructor; nothing reads it
// ambiently after that.
type Context struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// LoggedIn reports whether a user identity is present. An absent userId means
// logged out, there is no client side expiry.
func (s Context) LoggedIn() bool {
	return s.UserID != ""
}
