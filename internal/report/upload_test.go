package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/glcompile/internal/pipeline"
	"github.com/specialistvlad/glcompile/internal/status"
	"github.com/specialistvlad/glcompile/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadServer struct {
	mu     sync.Mutex
	bodies map[string]string
	status int
}

func (s *uploadServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.bodies[r.URL.Path] = string(body)
	w.WriteHeader(s.status)
}

func artifactResult(t *testing.T) JobResult {
	t.Helper()
	dir := t.TempDir()
	isa := filepath.Join(dir, "Tahiti_triangle_vert.isa")
	bin := filepath.Join(dir, "Tahiti_triangle.bin")
	require.NoError(t, os.WriteFile(isa, []byte("v_mov_b32"), 0o644))
	require.NoError(t, os.WriteFile(bin, []byte{1, 2, 3}, 0o644))

	return JobResult{
		Job:    "triangle",
		Device: "Tahiti",
		Status: status.Success,
		Artifacts: []verify.Artifact{
			{Expected: pipeline.Expected{Category: pipeline.CategoryISA, Stage: pipeline.Vertex, Path: isa}, Size: 9},
			{Expected: pipeline.Expected{Category: pipeline.CategoryBinary, Path: bin}, Size: 3},
		},
	}
}

func TestUploader_PutsEveryArtifact(t *testing.T) {
	srv := &uploadServer{bodies: map[string]string{}, status: http.StatusOK}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	u, err := NewUploader(UploadConfig{BaseURL: ts.URL + "/bucket/ci/"})
	require.NoError(t, err)
	defer u.Close()

	require.NoError(t, u.Report(context.Background(), artifactResult(t)))

	assert.Equal(t, map[string]string{
		"/bucket/ci/Tahiti/triangle/Tahiti_triangle_vert.isa": "v_mov_b32",
		"/bucket/ci/Tahiti/triangle/Tahiti_triangle.bin":      "\x01\x02\x03",
	}, srv.bodies)
}

func TestUploader_SkipsFailedJobs(t *testing.T) {
	srv := &uploadServer{bodies: map[string]string{}, status: http.StatusOK}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	u, err := NewUploader(UploadConfig{BaseURL: ts.URL})
	require.NoError(t, err)

	res := artifactResult(t)
	res.Status = status.OutputVerificationFailed
	require.NoError(t, u.Report(context.Background(), res))
	assert.Empty(t, srv.bodies)
}

func TestUploader_ServerErrorIsReported(t *testing.T) {
	srv := &uploadServer{bodies: map[string]string{}, status: http.StatusForbidden}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	u, err := NewUploader(UploadConfig{BaseURL: ts.URL})
	require.NoError(t, err)

	err = u.Report(context.Background(), artifactResult(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403 Forbidden")
	assert.Contains(t, err.Error(), "Tahiti_triangle.bin")
}

func TestUploader_MissingArtifact(t *testing.T) {
	srv := &uploadServer{bodies: map[string]string{}, status: http.StatusOK}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	u, err := NewUploader(UploadConfig{BaseURL: ts.URL})
	require.NoError(t, err)

	res := artifactResult(t)
	require.NoError(t, os.Remove(res.Artifacts[1].Path))

	err = u.Report(context.Background(), res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open artifact")
	assert.Len(t, srv.bodies, 1, "the remaining artifact is still uploaded")
}

func TestNewUploader_InvalidURL(t *testing.T) {
	testCases := []struct {
		url       string
		expectErr string
	}{
		{url: "ftp://example.com/x", expectErr: "must use http or https"},
		{url: "http:///nohost", expectErr: "has no host"},
		{url: "relative/path", expectErr: "must use http or https"},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			_, err := NewUploader(UploadConfig{BaseURL: tc.url})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}
