package community

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

const (
	// fallbackFileName replaces names that sanitize to nothing usable
	fallbackFileName = "download.bin"

	partSuffix      = ".part"
	maxPartAttempts = 16
)

// renameFile is swapped in tests to simulate a failing commit
var renameFile = os.Rename

// Download fetches the artifact of itemID for device into
// <cache root>/community/official_v2/<item id>/<file name> and returns that path.
// itemID may also be an item name. The file is streamed to a unique .part
// file and renamed into place only after the transfer succeeded.
func (p *OfficialProvider) Download(ctx context.Context, itemID, device string, onProgress ProgressFunc) (string, error) {
	entry, ok := p.entryForDownload(itemID)
	if !ok {
		return "", itemNotFound(itemID)
	}

	c := p.CDN()
	m, err := p.manifest(ctx, c, entry)
	if err != nil {
		return "", err
	}

	key, dl, ok := m.SelectDownload(device)
	if !ok {
		return "", hubErrors.NewNotFoundError(hubErrors.CodeNoDownloadEntry, "manifest has no download entries").
			WithContext("item", entry.ID)
	}
	if key != device {
		p.logger.Debug("using fallback download entry",
			zap.String("item", entry.ID), zap.String("device", device), zap.String("key", key))
	}

	fileName, err := downloadFileName(dl)
	if err != nil {
		return "", withItem(err, entry.ID)
	}

	var src string
	if dl.URL != nil && strings.TrimSpace(*dl.URL) != "" {
		src = c.Convert(strings.TrimSpace(*dl.URL))
	} else {
		src = repoBaseURL(c, entry) + "/" + escapePath(fileName)
	}

	var want string
	if p.verifySum && dl.SHA256 != nil {
		want = strings.ToLower(strings.TrimSpace(*dl.SHA256))
	}

	dir := filepath.Join(p.DownloadRoot(), SanitizeFileName(entry.ID))
	target := SanitizeFileName(fileName)

	p.logger.Info("downloading",
		zap.String("item", entry.ID), zap.String("key", key), zap.String("url", src))

	final, err := p.downloadTo(ctx, src, dir, target, want, onProgress)
	if err != nil {
		return "", withItem(err, entry.ID)
	}
	p.logger.Info("download complete", zap.String("item", entry.ID), zap.String("path", final))
	return final, nil
}

// downloadFileName prefers the explicit file name and otherwise takes the
// last path segment of the download URL
func downloadFileName(dl models.ManifestDownload) (string, error) {
	if name := strings.TrimSpace(dl.FileName); name != "" {
		return name, nil
	}
	if dl.URL != nil {
		if u, err := url.Parse(strings.TrimSpace(*dl.URL)); err == nil {
			if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
				return name, nil
			}
		}
	}
	return "", hubErrors.NewValidationError(hubErrors.CodeNoFileName, "download entry has no file name")
}

// escapePath escapes each segment of a repository relative path
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// SanitizeFileName replaces characters that are invalid in file names on
// common filesystems with '_'. Names that end up empty or as "." or ".."
// become a fixed fallback.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return fallbackFileName
	}
	return out
}

func (p *OfficialProvider) downloadTo(ctx context.Context, src, dir, name, wantSum string, onProgress ProgressFunc) (final string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", hubErrors.NewFileSystemError(err, "failed to create download directory").WithContext("path", dir)
	}

	tmp, err := createPartFile(dir, name)
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				p.logger.Warn("failed to remove partial download", zap.String("path", tmpPath), zap.Error(rmErr))
			}
		}
	}()

	emit(onProgress, models.Progress{Progress: 0, Status: models.StatusDownloading})

	resp, err := p.fetcher.open(ctx, src)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var sum hash.Hash
	dst := io.Writer(tmp)
	if wantSum != "" {
		sum = sha256.New()
		dst = io.MultiWriter(tmp, sum)
	}

	pw := newProgressWriter(dst, resp.ContentLength, onProgress)
	if _, err = io.Copy(pw, resp.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", hubErrors.WrapError(ctxErr, hubErrors.ErrorTypeTimeout, hubErrors.CodeDownloadCancelled, "download aborted").
				WithContext("url", src)
		}
		return "", hubErrors.NewNetworkError(err, "download interrupted").WithContext("url", src)
	}
	if resp.ContentLength > 0 && pw.written != resp.ContentLength {
		return "", hubErrors.NewNetworkError(io.ErrUnexpectedEOF,
			fmt.Sprintf("incomplete download: got %d of %d bytes", pw.written, resp.ContentLength)).
			WithContext("url", src)
	}

	if sum != nil {
		if got := hex.EncodeToString(sum.Sum(nil)); got != wantSum {
			return "", hubErrors.NewError(hubErrors.ErrorTypeValidation, hubErrors.CodeChecksumMismatch, "checksum mismatch").
				WithContext("url", src).
				WithContext("expected", wantSum).
				WithContext("actual", got)
		}
	}

	if err = tmp.Sync(); err != nil {
		return "", hubErrors.NewFileSystemError(err, "failed to flush download").WithContext("path", tmpPath)
	}
	if err = tmp.Close(); err != nil {
		return "", hubErrors.NewFileSystemError(err, "failed to close download").WithContext("path", tmpPath)
	}

	final = filepath.Join(dir, name)
	if err = renameFile(tmpPath, final); err != nil {
		return "", hubErrors.NewFileSystemError(err, "failed to commit download").WithContext("path", final)
	}

	emit(onProgress, models.Progress{Progress: 1, Status: models.StatusFinished})
	return final, nil
}

// createPartFile exclusively creates <unix nanos>.<name>.part in dir,
// moving the timestamp forward on collision
func createPartFile(dir, name string) (*os.File, error) {
	stamp := time.Now().UnixNano()
	var lastErr error
	for i := 0; i < maxPartAttempts; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%d.%s%s", stamp+int64(i), name, partSuffix))
		f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, hubErrors.NewFileSystemError(err, "failed to create temporary file").WithContext("path", p)
		}
		lastErr = err
	}
	return nil, hubErrors.NewFileSystemError(lastErr, "failed to allocate a unique temporary file").WithContext("dir", dir)
}

func emit(fn ProgressFunc, p models.Progress) {
	if fn != nil {
		fn(p)
	}
}

const (
	progressInterval = 200 * time.Millisecond
	progressStep     = 0.01
)

// progressWriter counts bytes and reports progress at most every
// progressInterval or every progressStep of the known total
type progressWriter struct {
	w       io.Writer
	fn      ProgressFunc
	total   int64
	written int64

	lastBytes int64
	lastEmit  time.Time
	now       func() time.Time
}

func newProgressWriter(w io.Writer, total int64, fn ProgressFunc) *progressWriter {
	return &progressWriter{w: w, fn: fn, total: total, lastEmit: time.Now(), now: time.Now}
}

func (pw *progressWriter) Write(b []byte) (int, error) {
	n, err := pw.w.Write(b)
	pw.written += int64(n)
	if pw.fn != nil && n > 0 {
		pw.maybeEmit()
	}
	return n, err
}

func (pw *progressWriter) maybeEmit() {
	now := pw.now()
	due := now.Sub(pw.lastEmit) >= progressInterval
	if pw.total > 0 {
		step := int64(float64(pw.total) * progressStep)
		if step < 1 {
			step = 1
		}
		due = due || pw.written-pw.lastBytes >= step
	}
	if !due {
		return
	}
	pw.lastEmit = now
	pw.lastBytes = pw.written
	pw.fn(models.Progress{Progress: pw.fraction(), Status: models.StatusDownloading})
}

// fraction is 0 while the total is unknown
func (pw *progressWriter) fraction() float64 {
	if pw.total <= 0 {
		return 0
	}
	f := float64(pw.written) / float64(pw.total)
	if f > 1 {
		f = 1
	}
	return f
}
