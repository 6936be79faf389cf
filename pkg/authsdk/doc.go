// Package authsdk provides a Go client for the Quill auth service and posts
// API, plus the wire error taxonomy both services speak.
//
// The Client carries credentials in a cookie jar and implements the
// transparent session-renewal contract: when a protected request comes back
// flagged with WWW-Authenticate: Bearer error="token_expired", the client
// calls the refresh endpoint exactly once and replays the original request
// exactly once. A failed refresh surfaces ErrLoginRequired and nothing is
// retried further.
package authsdk
