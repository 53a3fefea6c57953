// Package api is the HTTP client for the sharehere file-sharing surface.
// It owns request construction, anti-forgery header attachment, response
// classification, and the error taxonomy the rest of the workspace
// consumes. All mutating verbs carry the CSRF token; GET and HEAD never do.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookieName = "sharehere_session"
	csrfHeaderName    = "X-CSRF-Token"
)

// ErrUnauthorized means the session is expired or absent. It is terminal
// for the current view: callers surface it and drop to the login flow,
// they never recover from it locally.
var ErrUnauthorized = errors.New("unauthorized: session expired or missing")

// RequestError is a non-2xx server response. The message is the server's
// own body text so the user sees exactly what the server said.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("request failed (status %d)", e.Status)
}

// NetworkError is a transport-level failure, kept distinct from
// server-reported failures so the UI can label the two differently.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network failure: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to one sharehere server. Safe for use from the single
// event loop it is designed for; it keeps the session cookie in a jar and
// the CSRF token from the last /api/me fetch.
type Client struct {
	baseURL *url.URL
	rc      *retryablehttp.Client
	jar     http.CookieJar
	csrf    string
	log     *logrus.Entry
}

// New builds a client for baseURL (scheme://host[:port][/basepath]).
func New(rawURL string) (*Client, error) {
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if rawURL == "" {
		return nil, errors.New("server URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil // the TUI owns the terminal
	rc.HTTPClient.Jar = jar

	return &Client{
		baseURL: u,
		rc:      rc,
		jar:     jar,
		log:     logrus.WithField("component", "api"),
	}, nil
}

// BaseURL returns the configured server URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// SessionToken returns the current session cookie value, empty when the
// client has no session yet.
func (c *Client) SessionToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == sessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken seeds the cookie jar with a previously persisted session.
func (c *Client) SetSessionToken(token string) {
	if token == "" {
		return
	}
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// CSRFToken returns the anti-forgery token from the last identity fetch.
func (c *Client) CSRFToken() string { return c.csrf }

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// call performs a request and classifies the response. A nil out with a
// 2xx response discards the body; 204 always yields a nil result.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if mutating(method) && c.csrf != "" {
		req.Header.Set(csrfHeaderName, c.csrf)
	}

	resp, err := c.rc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).Debug("request failed")
		return err
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	// Non-JSON success bodies come back as raw text.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if sp, ok := out.(*string); ok {
		*sp = string(raw)
		return nil
	}
	return fmt.Errorf("unexpected %s response for %s", resp.Header.Get("Content-Type"), path)
}

// Do executes a raw request (streamed uploads, binary downloads) with the
// session jar and CSRF header attached. Retries are skipped: the bodies
// that come through here are not rewindable.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if mutating(req.Method) && c.csrf != "" {
		req.Header.Set(csrfHeaderName, c.csrf)
	}
	resp, err := c.rc.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "application/json")
}

// classify maps a response status onto the error taxonomy. The body is
// consumed for non-2xx statuses.
func classify(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &RequestError{Status: resp.StatusCode, Body: errorText(resp)}
}

// errorText extracts the server's message: the "error" field of a JSON
// body when present, otherwise the raw body text.
func errorText(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, path, nil, body, "application/json", out)
}

// Me fetches the session identity and remembers its CSRF token for all
// subsequent mutating calls.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.call(ctx, http.MethodGet, "/api/me", nil, nil, "", &id); err != nil {
		return nil, err
	}
	c.csrf = id.CSRFToken
	return &id, nil
}

// List fetches the directory listing for path ("" is the share root).
func (c *Client) List(ctx context.Context, path string) (*Listing, error) {
	var listing Listing
	q := url.Values{"path": {path}}
	if err := c.call(ctx, http.MethodGet, "/api/list", q, nil, "", &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) Preview(ctx context.Context, path string) (*PreviewResult, error) {
	var pv PreviewResult
	q := url.Values{"path": {path}}
	if err := c.call(ctx, http.MethodGet, "/api/preview", q, nil, "", &pv); err != nil {
		return nil, err
	}
	return &pv, nil
}

// DownloadURL returns the direct download link for an entry.
func (c *Client) DownloadURL(path string) string {
	return c.endpoint("/api/download", url.Values{"path": {path}})
}

// ZipURL returns the zip-download link for a directory entry.
func (c *Client) ZipURL(path string) string {
	return c.endpoint("/api/zip", url.Values{"path": {path}})
}

// Download streams the file at path into w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) error {
	return c.stream(ctx, c.DownloadURL(path), w)
}

// Zip streams a zip archive of the directory at path into w.
func (c *Client) Zip(ctx context.Context, path string, w io.Writer) error {
	return c.stream(ctx, c.ZipURL(path), w)
}

func (c *Client) stream(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := classify(resp); err != nil {
		return err
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Rename changes the display name of the entry at path.
func (c *Client) Rename(ctx context.Context, path, newName string) error {
	payload := struct {
		Path    string `json:"path"`
		NewName string `json:"newName"`
	}{path, newName}
	return c.postJSON(ctx, "/api/rename", payload, nil)
}

// Delete removes the entry at path. The server refuses the share root.
func (c *Client) Delete(ctx context.Context, path string) error {
	payload := struct {
		Path string `json:"path"`
	}{path}
	return c.postJSON(ctx, "/api/delete", payload, nil)
}

// CreateShare issues a time-bounded share link for path. Expiry is a Go
// duration string ("24h"); mode must be one of the ShareMode constants.
func (c *Client) CreateShare(ctx context.Context, path, expiry, mode string) (*ShareLink, error) {
	if !ValidShareMode(mode) {
		return nil, fmt.Errorf("invalid share mode %q", mode)
	}
	payload := struct {
		Path   string `json:"path"`
		Expiry string `json:"expiry"`
		Mode   string `json:"mode"`
	}{path, expiry, mode}
	var link ShareLink
	if err := c.postJSON(ctx, "/api/share/create", payload, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// RevokeShare invalidates a share link by token.
func (c *Client) RevokeShare(ctx context.Context, token string) error {
	payload := struct {
		Token string `json:"token"`
	}{token}
	return c.postJSON(ctx, "/api/share/revoke", payload, nil)
}

// Login establishes an authenticated session. The server wants a CSRF
// token even for the login form, so an anonymous identity is fetched
// first when the client has none yet.
func (c *Client) Login(ctx context.Context, username, password string, remember bool) error {
	if c.csrf == "" {
		if _, err := c.Me(ctx); err != nil && !errors.Is(err, ErrUnauthorized) {
			return err
		}
	}
	form := url.Values{
		"username": {strings.ToLower(strings.TrimSpace(username))},
		"password": {password},
	}
	if remember {
		form.Set("remember", "1")
	}
	err := c.call(ctx, http.MethodPost, "/login", nil, []byte(form.Encode()), "application/x-www-form-urlencoded", nil)
	if errors.Is(err, ErrUnauthorized) {
		// The login page answers 401 for bad credentials; that is a
		// user-facing failure, not a dead session.
		return &RequestError{Status: http.StatusUnauthorized, Body: "invalid credentials"}
	}
	if err != nil {
		return err
	}
	// The session rotated; pick up the new CSRF token.
	_, err = c.Me(ctx)
	return err
}

// Logout destroys the server session and forgets local tokens.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/logout", nil, nil, "", nil)
	c.csrf = ""
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{Name: sessionCookieName, Value: "", MaxAge: -1, Path: "/"}})
	return err
}

// ShareUploadEndpoint is the anonymous upload URL for a share token.
func (c *Client) ShareUploadEndpoint(token string) string {
	return c.endpoint("/s/"+token+"/upload", nil)
}

// UploadEndpoint is the authenticated multipart upload URL.
func (c *Client) UploadEndpoint() string {
	return c.endpoint("/api/upload", nil)
}
