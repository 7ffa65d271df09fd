package types

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the account information returned by the auth endpoints.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LoginData is returned after a successful login.
type LoginData struct {
	Token  string `json:"token"`
	Expire string `json:"expire"`
	User   *User  `json:"user"`
}
