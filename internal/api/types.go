package api

import "time"

// Entry is one file-system object in a directory listing. RelPath is the
// stable identifier within a listing; Size is meaningless for directories.
type Entry struct {
	Name    string    `json:"name"`
	RelPath string    `json:"relPath"`
	IsDir   bool      `json:"isDir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	Ext     string    `json:"ext"`
}

// Hidden reports whether the entry is a dotfile.
func (e Entry) Hidden() bool {
	return len(e.Name) > 0 && e.Name[0] == '.'
}

type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Listing is the server response for a directory fetch. Entries are
// replaced wholesale on every navigation; they are never patched in place.
type Listing struct {
	Path        string       `json:"path"`
	Entries     []Entry      `json:"entries"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
}

type Permissions struct {
	CanBrowse bool `json:"canBrowse"`
	CanUpload bool `json:"canUpload"`
	CanDelete bool `json:"canDelete"`
	CanRename bool `json:"canRename"`
	CanShare  bool `json:"canShare"`
	CanAdmin  bool `json:"canAdmin"`
	ReadOnly  bool `json:"readonly"`
}

type Theme struct {
	Name         string            `json:"name"`
	Label        string            `json:"label"`
	CSSVariables map[string]string `json:"css_variables"`
}

// Identity holds the server-asserted facts about the current viewer.
// It is fetched once at startup and treated as immutable for the session;
// every permission gate in the UI reads from it.
type Identity struct {
	Authenticated bool        `json:"authenticated"`
	Username      string      `json:"username"`
	Role          string      `json:"role"`
	GuestMode     string      `json:"guestMode"`
	CSRFToken     string      `json:"csrfToken"`
	Permissions   Permissions `json:"permissions"`
	RootPath      string      `json:"rootPath"`
	Theme         Theme       `json:"theme"`
}

type PreviewResult struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Admin surface payloads. These mirror the server's storage types.

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminShareLink struct {
	Token        string     `json:"token"`
	Path         string     `json:"path"`
	Mode         string     `json:"mode"`
	CreatedBy    *int64     `json:"created_by"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Revoked      bool       `json:"revoked"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed *time.Time `json:"last_accessed"`
}

type AuditEntry struct {
	ID          int64     `json:"id"`
	ActorUserID *int64    `json:"actor_user_id"`
	Action      string    `json:"action"`
	Target      string    `json:"target"`
	Metadata    string    `json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
	Username    *string   `json:"username,omitempty"`
}

type Settings struct {
	GuestMode          string `json:"guest_mode"`
	MaxUploadSizeMB    int64  `json:"max_upload_size_mb"`
	UploadAllowRegex   string `json:"upload_allow_regex"`
	UploadDenyRegex    string `json:"upload_deny_regex"`
	UploadSubdir       string `json:"upload_subdir"`
	CollisionPolicy    string `json:"collision_policy"`
	DefaultShareExpiry string `json:"default_share_expiry"`
	AllowDelete        bool   `json:"allow_delete"`
	AllowRename        bool   `json:"allow_rename"`
	ReadOnly           bool   `json:"read_only"`
	Theme              string `json:"theme"`
	ThemeOverridesJSON string `json:"theme_overrides_json"`
	VirusScanCommand   string `json:"virus_scan_command"`
}

// Share link modes accepted by the server.
const (
	ShareModeBrowse   = "browse"
	ShareModeDownload = "download"
	ShareModeUpload   = "upload"
)

// ValidShareMode reports whether mode is one the server will accept.
func ValidShareMode(mode string) bool {
	switch mode {
	case ShareModeBrowse, ShareModeDownload, ShareModeUpload:
		return true
	}
	return false
}
