// Package commands templates scp and rsync invocations for the entry
// currently selected in the workspace. Pure string work; nothing here
// talks to the network.
package commands

import (
	"fmt"
	"strings"

	"sharedeck/internal/api"
	"sharedeck/internal/prefs"
)

// Set holds the four generated command lines.
type Set struct {
	SCPUpload     string
	SCPDownload   string
	RsyncUpload   string
	RsyncDownload string
}

// Placeholder is shown when no entry is selected.
const Placeholder = "select an entry to generate transfer commands"

// For builds the transfer command set for entry against the configured
// remote. The base path loses trailing slashes before concatenation so
// separators never double up; directories get scp's -r flag (rsync -a is
// already recursive).
func For(entry api.Entry, remote prefs.Remote) Set {
	base := strings.TrimRight(remote.Base, "/")
	local := "./" + entry.RelPath
	target := fmt.Sprintf("%s@%s:%q", remote.User, remote.Host, base+"/"+entry.RelPath)

	recurse := ""
	if entry.IsDir {
		recurse = "-r "
	}

	return Set{
		SCPUpload:     fmt.Sprintf("scp -P %s %s%q %s", remote.Port, recurse, local, target),
		SCPDownload:   fmt.Sprintf("scp -P %s %s%s %q", remote.Port, recurse, target, local),
		RsyncUpload:   fmt.Sprintf("rsync -avz -e \"ssh -p %s\" %q %s", remote.Port, local, target),
		RsyncDownload: fmt.Sprintf("rsync -avz -e \"ssh -p %s\" %s %q", remote.Port, target, local),
	}
}

// Render lays the set out for the command pane.
func (s Set) Render() string {
	var b strings.Builder
	b.WriteString("# upload\n")
	b.WriteString(s.SCPUpload + "\n")
	b.WriteString(s.RsyncUpload + "\n")
	b.WriteString("# download\n")
	b.WriteString(s.SCPDownload + "\n")
	b.WriteString(s.RsyncDownload + "\n")
	return b.String()
}
