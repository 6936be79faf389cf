package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// ErrLoginRequired is surfaced when a request failed because the access
// token expired and the follow-up refresh also failed. The caller must
// re-authenticate; the client never retries past this point.
var ErrLoginRequired = errors.New("authsdk: login required")

// Client talks to the auth service and the posts API with cookie
// credentials. It is an explicit wrapper — nothing global is patched — and
// it implements the transparent-retry contract: when a response signals
// that the access token expired, the client refreshes once and replays the
// original request once. Other failures pass through untouched.
type Client struct {
	AuthURL    string
	APIURL     string
	HTTPClient *http.Client
}

// NewClient creates a client with a fresh cookie jar. authURL and apiURL
// are the base URLs of the auth service and the posts API respectively.
func NewClient(authURL, apiURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("authsdk: cookie jar: %w", err)
	}

	return &Client{
		AuthURL: strings.TrimSuffix(authURL, "/"),
		APIURL:  strings.TrimSuffix(apiURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Do issues req and, when the response advertises an expired access token,
// performs exactly one refresh followed by exactly one replay. The bounded
// retry prevents refresh loops: a second expiry signal is returned as-is.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	if !signalsTokenExpired(res) {
		return res, nil
	}

	drain(res)

	if err := c.Refresh(req.Context()); err != nil {
		return nil, ErrLoginRequired
	}

	retry, err := replayableClone(req)
	if err != nil {
		return nil, err
	}

	return c.HTTPClient.Do(retry)
}

// Refresh exchanges the refresh-token cookie for a new token pair. The new
// cookies land in the jar; callers rarely need to invoke this directly
// since Do refreshes on demand.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL+"/v1/auth/refresh", nil)
	if err != nil {
		return err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer drain(res)

	if res.StatusCode != http.StatusOK {
		return decodeError(res)
	}
	return nil
}

// signalsTokenExpired reports whether the server flagged the specific
// "expired, refresh and retry" case as opposed to "invalid, re-authenticate".
func signalsTokenExpired(res *http.Response) bool {
	return strings.Contains(res.Header.Get("WWW-Authenticate"), `error="token_expired"`)
}

// replayableClone rebuilds req for a second send. The stale Cookie header
// is dropped so the jar attaches the freshly rotated tokens.
func replayableClone(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	clone.Header.Del("Cookie")

	if req.Body != nil {
		if req.GetBody == nil {
			return nil, errors.New("authsdk: request body is not replayable")
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}

	return clone, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer drain(res)

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res)
	}

	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}

// decodeError turns an error response body into an *Error. Bodies that
// don't parse still produce a usable error carrying the status code.
func decodeError(res *http.Response) error {
	e := &Error{StatusCode: res.StatusCode}
	if err := json.NewDecoder(res.Body).Decode(e); err != nil || e.Code == "" {
		e.Code = ErrorCodeServerError
		e.Message = fmt.Sprintf("unexpected response status %d", res.StatusCode)
	}
	return e
}

func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
