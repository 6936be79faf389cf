package domain

import "time"

// Post is a blog post. AuthorID references a user in the auth service's
// database; the posts service never joins against it, it only compares the
// id to the authenticated caller.
type Post struct {
	ID        string
	Title     string
	AuthorID  string
	Image     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
