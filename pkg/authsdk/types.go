package authsdk

import "time"

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is the generic success body for auth operations. Tokens
// travel exclusively in cookies, never in response bodies.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserProfile is the caller's identity record, minus the password hash.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse is the body for GET /v1/auth/me.
type MeResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

// HealthResponse is the body for the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// Post is a blog post as returned by the posts API.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author_id"`
	Image     string    `json:"image"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput is the body for creating or updating a post.
type PostInput struct {
	Title   string `json:"title"`
	Image   string `json:"image"`
	Content string `json:"content"`
}
