// Package messages defines the typed messages the workspace event loop
// consumes. Every network call resolves to exactly one of these; upload
// progress additionally arrives as a stream distinct from its terminal
// completion message.
package messages

import (
	"sharedeck/internal/api"
	"sharedeck/internal/upload"
)

type IdentityMsg struct {
	Identity *api.Identity
	Err      error
}

// ListingMsg carries a fetched listing. Err set means the navigation
// failed and the prior canonical state must remain untouched.
type ListingMsg struct {
	Listing *api.Listing
	Err     error
}

type PreviewMsg struct {
	Path   string
	Result *api.PreviewResult
	Err    error
}

// ActionDoneMsg reports a per-entry action. Refresh is set by mutating
// actions that succeeded; the model then re-navigates to the current
// path so the display matches server truth.
type ActionDoneMsg struct {
	Notice  string
	Err     error
	Refresh bool
}

type ShareCreatedMsg struct {
	Link *api.ShareLink
	Err  error
}

type UploadProgressMsg struct {
	Progress upload.Progress
}

// UploadDoneMsg is the terminal upload notification. Err nil triggers a
// listing refresh; on failure no refresh happens so partial successes
// cannot mask the failure.
type UploadDoneMsg struct {
	Result *upload.Result
	Err    error
}

// DroppedFileMsg is a file that settled in the local drop directory.
type DroppedFileMsg struct {
	File upload.File
}
