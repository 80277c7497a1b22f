package report

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/glcompile/internal/ctxlog"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/verify"
)

// DefaultUploadTimeout bounds a single artifact upload.
const DefaultUploadTimeout = 30 * time.Second

// UploadConfig describes where artifacts of successful jobs are PUT.
type UploadConfig struct {
	// BaseURL receives one request per artifact at <BaseURL>/<device>/<job>/<file>.
	BaseURL string
	Timeout time.Duration
}

// Uploader PUTs the artifacts of every successful job to an HTTP endpoint,
// typically an object store bucket or a pre-signed prefix.
type Uploader struct {
	base   *url.URL
	client *http.Client
}

// NewUploader validates cfg and creates the shared client.
func NewUploader(cfg UploadConfig) (*Uploader, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upload URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("upload URL %q must use http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("upload URL %q has no host", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &Uploader{base: base, client: &http.Client{Timeout: timeout}}, nil
}

// Report uploads every artifact of res. Failed jobs are skipped.
func (u *Uploader) Report(ctx context.Context, res JobResult) error {
	if res.Status != status.Success {
		return nil
	}
	logger := ctxlog.FromContext(ctx).With("reporter", "upload", "job", res.Job)

	var errs []error
	for _, a := range res.Artifacts {
		if err := u.put(ctx, u.target(res, a), a); err != nil {
			logger.Warn("Artifact upload failed.", "path", a.Path, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		logger.Info("Uploaded artifacts.", "count", len(res.Artifacts), "size", humanize.Bytes(uint64(res.TotalSize())))
	}
	return errors.Join(errs...)
}

// Close releases idle connections.
func (u *Uploader) Close() error {
	u.client.CloseIdleConnections()
	return nil
}

func (u *Uploader) target(res JobResult, a verify.Artifact) string {
	t := *u.base
	t.Path = path.Join("/", strings.TrimSuffix(u.base.Path, "/"), res.Device, res.Job, filepath.Base(a.Path))
	return t.String()
}

func (u *Uploader) put(ctx context.Context, target string, a verify.Artifact) error {
	file, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("failed to open artifact '%s': %w", a.Path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", a.Path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(a.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload '%s': %w", a.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload of '%s' failed with status: %s", a.Path, resp.Status)
	}
	return nil
}
