package types

// Role names issued by the backend. The set is open; unknown roles are passed through.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"
	RoleViewer  = "viewer"
)

// LoginRequest carries the credentials submitted once at login. Never log or persist it.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/auth/login
type LoginResponse struct {
	// AccessToken is returned by the backend but never sent back: every request
	// authenticates with the session cookie instead. Kept so the field is not
	// silently lost; it is only inspected for logging.
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// User is the authenticated identity held by the session store
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AccountID string `json:"account_id"`
}
