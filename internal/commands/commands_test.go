package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sharedeck/internal/api"
	"sharedeck/internal/prefs"
)

func TestForFile(t *testing.T) {
	remote := prefs.Remote{User: "alice", Host: "h", Port: "2222", Base: "/srv"}
	set := For(api.Entry{Name: "a.txt", RelPath: "docs/a.txt"}, remote)

	assert.Equal(t, `scp -P 2222 "./docs/a.txt" alice@h:"/srv/docs/a.txt"`, set.SCPUpload)
	assert.Equal(t, `scp -P 2222 alice@h:"/srv/docs/a.txt" "./docs/a.txt"`, set.SCPDownload)
	assert.Equal(t, `rsync -avz -e "ssh -p 2222" "./docs/a.txt" alice@h:"/srv/docs/a.txt"`, set.RsyncUpload)
	assert.Equal(t, `rsync -avz -e "ssh -p 2222" alice@h:"/srv/docs/a.txt" "./docs/a.txt"`, set.RsyncDownload)
}

func TestForDirectoryAddsRecursiveFlag(t *testing.T) {
	remote := prefs.Remote{User: "u", Host: "example.com", Port: "22", Base: "/data"}
	set := For(api.Entry{Name: "photos", RelPath: "photos", IsDir: true}, remote)

	assert.Contains(t, set.SCPUpload, "scp -P 22 -r ")
	assert.Contains(t, set.SCPDownload, "scp -P 22 -r ")
	// rsync -a already recurses, no extra flag.
	assert.NotContains(t, set.RsyncUpload, "-r ")
}

func TestForStripsTrailingBaseSlash(t *testing.T) {
	remote := prefs.Remote{User: "u", Host: "h", Port: "22", Base: "/srv/share/"}
	set := For(api.Entry{Name: "f", RelPath: "f"}, remote)

	assert.Contains(t, set.SCPUpload, `u@h:"/srv/share/f"`)
	assert.NotContains(t, set.SCPUpload, "share//f")
}

func TestForQuotesSpaces(t *testing.T) {
	remote := prefs.Remote{User: "u", Host: "h", Port: "22", Base: "/srv"}
	set := For(api.Entry{Name: "my file.txt", RelPath: "my file.txt"}, remote)

	assert.Contains(t, set.SCPUpload, `"./my file.txt"`)
	assert.Contains(t, set.SCPUpload, `u@h:"/srv/my file.txt"`)
}

func TestRenderSections(t *testing.T) {
	remote := prefs.Remote{User: "u", Host: "h", Port: "22", Base: "/srv"}
	out := For(api.Entry{Name: "f", RelPath: "f"}, remote).Render()

	assert.Contains(t, out, "# upload\n")
	assert.Contains(t, out, "# download\n")
}
