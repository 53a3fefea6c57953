// Package upload streams multi-file batches to the server as a single
// multipart request, reporting byte-level progress while the request is
// in flight. One batch is one request so the server applies its
// size/extension/collision policy atomically.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"sharedeck/internal/api"
)

// File is one local file queued for a batch.
type File struct {
	Name string // name sent to the server
	Path string // local absolute or cwd-relative path
	Size int64
}

// Progress is a snapshot of bytes sent over bytes total. Total of zero
// means the total is not determinable; the indicator then shows an
// in-progress state instead of a percentage.
type Progress struct {
	Sent  int64
	Total int64
}

// Percent returns progress in [0,100], or -1 when indeterminate.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	pct := float64(p.Sent) / float64(p.Total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Result is the server's account of an accepted batch.
type Result struct {
	Uploaded []string `json:"uploaded"`
	Errors   []string `json:"errors"`
}

// Gather stats the given paths into a batch, skipping directories.
func Gather(paths []string) ([]File, error) {
	var files []File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		files = append(files, File{Name: filepath.Base(p), Path: p, Size: info.Size()})
	}
	return files, nil
}

// GatherGlob walks dir and collects files whose slash-relative path
// matches pattern.
func GatherGlob(dir, pattern string) ([]File, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	var files []File
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		if !g.Match(filepath.ToSlash(rel)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, File{Name: d.Name(), Path: p, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Send posts the batch to endpoint as one multipart submission with the
// remote directory in the "path" field and each file as a "files" part.
// report, when non-nil, receives monotone progress snapshots from the
// writer. An empty batch is a no-op. On any failure the caller must not
// refresh its listing: partial server-side successes are reported through
// Result.Errors, not guessed at locally.
func Send(ctx context.Context, client *api.Client, endpoint, remotePath string, files []File, report func(Progress)) (*Result, error) {
	if len(files) == 0 {
		return &Result{}, nil
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	var sent atomic.Int64

	go func() {
		err := writeBatch(mw, remotePath, files, func(n int64) {
			if report != nil {
				report(Progress{Sent: sent.Add(n), Total: total})
			}
		})
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		logrus.WithFields(logrus.Fields{"status": resp.StatusCode, "files": len(files)}).Warn("upload rejected")
		return nil, &api.RequestError{Status: resp.StatusCode, Body: errorBody(body)}
	}

	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		// Older servers answer 2xx with an empty body; the batch still
		// succeeded.
		return &Result{}, nil
	}
	return result, nil
}

func writeBatch(mw *multipart.Writer, remotePath string, files []File, count func(int64)) error {
	if err := mw.WriteField("path", remotePath); err != nil {
		return err
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.Name)
		if err != nil {
			return err
		}
		src, err := os.Open(f.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, &countingReader{r: src, count: count})
		src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func errorBody(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return string(body)
}

// countingReader reports file bytes as they are consumed by the
// multipart encoder, which is what drives the progress indicator.
type countingReader struct {
	r     io.Reader
	count func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.count != nil {
		c.count(int64(n))
	}
	return n, err
}
