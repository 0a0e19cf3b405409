package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const svgBody = `<svg xmlns="http://www.w3.org/2000/svg" width="2" height="2"/>`

type imageServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newImageServer(t *testing.T, body []byte) *imageServer {
	t.Helper()
	s := &imageServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/missing"):
			http.NotFound(w, r)
		case strings.HasPrefix(r.URL.Path, "/text"):
			_, _ = w.Write([]byte("<html>not an image</html>"))
		case strings.HasPrefix(r.URL.Path, "/json"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		case strings.HasPrefix(r.URL.Path, "/svg"):
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write([]byte(svgBody))
		default:
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(body)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func TestFileName_StableAndExtensionFromPath(t *testing.T) {
	a := FileName("https://example.com/image.jpg?x=1")
	b := FileName("https://example.com/image.jpg?x=2")
	require.Equal(t, a, FileName("https://example.com/image.jpg?x=1"))
	require.True(t, strings.HasSuffix(a, ".jpg"))
	require.True(t, strings.HasSuffix(b, ".jpg"))
	require.NotEqual(t, a, b, "digest covers the full URL including the query")
	require.Len(t, strings.TrimSuffix(a, ".jpg"), 40)
}

func TestFileName_DefaultExtension(t *testing.T) {
	for _, u := range []string{
		"https://example.com/image",
		"https://example.com",
		"https://example.com/dir.v2/image",
		"https://example.com/a.verylongextension",
		"https://example.com/a.j%20g",
	} {
		require.True(t, strings.HasSuffix(FileName(u), ".img"), u)
	}
	require.True(t, strings.HasSuffix(FileName("https://cdn.example.com/x/Card.WEBP#frag"), ".WEBP"))
	require.True(t, strings.HasSuffix(FileName("https://cdn.example.com/x/Card.JPG"), ".JPG"))
}

func TestExpired_Boundaries(t *testing.T) {
	now := time.Now()
	require.False(t, Expired(now, now, DefaultTTL), "written now")
	require.False(t, Expired(now.Add(-10*time.Second), now, time.Minute), "10s old")
	require.False(t, Expired(now.Add(-time.Minute), now, time.Minute), "exactly at ttl")
	require.True(t, Expired(now.Add(-100*time.Second), now, time.Minute), "100s old")
	require.True(t, Expired(now.Add(time.Hour), now, time.Minute), "future mtime")
}

func TestFileURL(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join(t.TempDir(), "test.png"))
	require.NoError(t, err)
	got, err := FileURL(abs)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "file:///"), got)
	require.True(t, strings.HasSuffix(got, "/test.png"), got)

	_, err = FileURL("relative/test.png")
	var urlErr *FileURLError
	require.ErrorAs(t, err, &urlErr)
}

func TestCache_FetchesOnceWithinTTL(t *testing.T) {
	body := pngBytes(t)
	srv := newImageServer(t, body)
	dir := filepath.Join(t.TempDir(), "cold", "images")
	c := New(Options{Dir: dir, HTTP: srv.Client()})

	remote := srv.URL + "/cards/p1.png?v=3"
	local, ok := c.Lookup(context.Background(), remote)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(local, "file://"))

	stored, err := os.ReadFile(filepath.Join(dir, FileName(remote)))
	require.NoError(t, err)
	require.Equal(t, body, stored, "bytes stored verbatim")

	again := c.Resolve(context.Background(), remote)
	require.Equal(t, local, again)
	require.Equal(t, int32(1), srv.hits.Load(), "fresh entry must not refetch")
}

func TestCache_RefetchesExpiredEntry(t *testing.T) {
	body := pngBytes(t)
	srv := newImageServer(t, body)
	dir := t.TempDir()
	remote := srv.URL + "/p1.png"

	path := filepath.Join(dir, FileName(remote))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	c := New(Options{Dir: dir, HTTP: srv.Client()})
	_, ok := c.Lookup(context.Background(), remote)
	require.True(t, ok)
	require.Equal(t, int32(1), srv.hits.Load())

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, body, stored)
}

func TestCache_FailuresFallBackToRemote(t *testing.T) {
	srv := newImageServer(t, pngBytes(t))
	c := New(Options{Dir: t.TempDir(), HTTP: srv.Client()})

	for _, remote := range []string{
		srv.URL + "/missing.png",
		srv.URL + "/text.png",
		srv.URL + "/json.png",
		"http://127.0.0.1:1/unreachable.png",
	} {
		_, ok := c.Lookup(context.Background(), remote)
		require.False(t, ok, remote)
		require.Equal(t, remote, c.Resolve(context.Background(), remote), remote)
	}

	_, ok := c.Lookup(context.Background(), "")
	require.False(t, ok)
}

func TestCache_StoresImageTypesWithoutDecoder(t *testing.T) {
	srv := newImageServer(t, pngBytes(t))
	dir := t.TempDir()
	c := New(Options{Dir: dir, HTTP: srv.Client()})
	remote := srv.URL + "/svg/card.svg"

	first, ok := c.Lookup(context.Background(), remote)
	require.True(t, ok)
	for range 2 {
		again, ok := c.Lookup(context.Background(), remote)
		require.True(t, ok)
		require.Equal(t, first, again)
	}
	require.Equal(t, int32(1), srv.hits.Load(), "svg must be served from disk after the first fetch")

	stored, err := os.ReadFile(filepath.Join(dir, FileName(remote)))
	require.NoError(t, err)
	require.Equal(t, svgBody, string(stored))
}

func TestCheckPayload(t *testing.T) {
	raster := pngBytes(t)
	require.NoError(t, checkPayload(raster, ""))
	require.NoError(t, checkPayload([]byte(svgBody), "image/svg+xml"))
	require.NoError(t, checkPayload([]byte("\x00\x00\x01\x00"), "image/x-icon; charset=binary"))
	require.Error(t, checkPayload([]byte("<html></html>"), "text/html; charset=utf-8"))
	require.Error(t, checkPayload([]byte(`{}`), "application/json"))
	require.Error(t, checkPayload([]byte("plain"), ""))
	require.Error(t, checkPayload(raster[:20], "image/png"), "truncated known format is rejected")
}

func TestCache_UnwritableDirFallsBack(t *testing.T) {
	srv := newImageServer(t, pngBytes(t))
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	c := New(Options{Dir: filepath.Join(blocker, "images"), HTTP: srv.Client()})
	remote := srv.URL + "/p1.png"
	require.Equal(t, remote, c.Resolve(context.Background(), remote))

	err := c.write(filepath.Join(c.Dir(), "x.png"), []byte("data"))
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
}

func TestCache_ConcurrentWritersSameKey(t *testing.T) {
	body := pngBytes(t)
	srv := newImageServer(t, body)
	dir := t.TempDir()
	c := New(Options{Dir: dir, HTTP: srv.Client(), TTL: time.Nanosecond, Now: func() time.Time {
		return time.Now().Add(time.Hour) // always stale
	}})
	remote := srv.URL + "/p1.png"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Lookup(context.Background(), remote)
		}()
	}
	wg.Wait()

	stored, err := os.ReadFile(filepath.Join(dir, FileName(remote)))
	require.NoError(t, err)
	require.Equal(t, body, stored)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPassthrough(t *testing.T) {
	require.Equal(t, "https://x/y.png", Passthrough{}.Resolve(context.Background(), "https://x/y.png"))
}

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})
	require.Equal(t, DefaultDir(), c.Dir())
	require.Equal(t, DefaultTTL, c.ttl)
}
