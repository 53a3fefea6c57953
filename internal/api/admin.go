package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Administrative surface. These are plain request/response wrappers; the
// admin console renders them as-is with no state of its own.

func (c *Client) AdminSettings(ctx context.Context) (*Settings, error) {
	var payload struct {
		Settings Settings `json:"settings"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/admin/settings", nil, nil, "", &payload); err != nil {
		return nil, err
	}
	return &payload.Settings, nil
}

func (c *Client) AdminUpdateSettings(ctx context.Context, settings Settings) error {
	return c.postJSON(ctx, "/api/admin/settings", settings, nil)
}

func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var payload struct {
		Users []User `json:"users"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/admin/users", nil, nil, "", &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

func (c *Client) AdminCreateUser(ctx context.Context, username, password, role string) (int64, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{username, password, role}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/admin/users/create", payload, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) AdminSetPassword(ctx context.Context, username, password string) error {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}
	return c.postJSON(ctx, "/api/admin/users/password", payload, nil)
}

func (c *Client) AdminSetUserDisabled(ctx context.Context, username string, disabled bool) error {
	payload := struct {
		Username string `json:"username"`
		Disabled bool   `json:"disabled"`
	}{username, disabled}
	return c.postJSON(ctx, "/api/admin/users/disable", payload, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, username string) error {
	payload := struct {
		Username string `json:"username"`
	}{username}
	return c.postJSON(ctx, "/api/admin/users/delete", payload, nil)
}

func (c *Client) AdminLinks(ctx context.Context) ([]AdminShareLink, error) {
	var payload struct {
		Links []AdminShareLink `json:"links"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/admin/links", nil, nil, "", &payload); err != nil {
		return nil, err
	}
	return payload.Links, nil
}

// AdminAudit returns the newest audit entries, capped server-side at 2000.
func (c *Client) AdminAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var payload struct {
		Logs []AuditEntry `json:"logs"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/admin/audit", q, nil, "", &payload); err != nil {
		return nil, err
	}
	return payload.Logs, nil
}
