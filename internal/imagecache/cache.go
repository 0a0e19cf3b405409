// Package imagecache keeps a local, content-addressed copy of remote card
// images so the launcher does not refetch artwork on every start.
//
// Files are named after the SHA-1 digest of the image URL and keep the
// URL's extension. An entry younger than the TTL is served without any
// network call; older or missing entries are refetched and overwritten. Any
// failure yields "no cached result" so callers fall back to the remote URL.
package imagecache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	// Decoders for payload validation only; bytes are stored verbatim.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultTTL is how long a cached image stays fresh.
const DefaultTTL = 24 * time.Hour

const (
	defaultExt   = "img"
	maxExtLen    = 8
	maxImageSize = 16 << 20
)

// Resolver maps a remote image URL to the URL the UI should display.
type Resolver interface {
	Resolve(ctx context.Context, remote string) string
}

// Passthrough returns remote URLs unchanged. It is used when caching is
// disabled.
type Passthrough struct{}

// Resolve implements Resolver.
func (Passthrough) Resolve(_ context.Context, remote string) string { return remote }

// Options configure a Cache.
type Options struct {
	Dir    string        // defaults to DefaultDir()
	TTL    time.Duration // defaults to DefaultTTL
	HTTP   *http.Client  // defaults to http.DefaultClient
	Logger *slog.Logger
	Now    func() time.Time
}

// Cache is a TTL-expiring directory of downloaded images.
type Cache struct {
	dir  string
	ttl  time.Duration
	http *http.Client
	log  *slog.Logger
	now  func() time.Time
}

// Ensure Cache implements Resolver at compile time.
var _ Resolver = (*Cache)(nil)

// DefaultDir returns the per-user temporary cache directory.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "drova-launcher", "images")
}

// New builds a Cache. The directory is created lazily on first write.
func New(opts Options) *Cache {
	c := &Cache{
		dir:  strings.TrimSpace(opts.Dir),
		ttl:  opts.TTL,
		http: opts.HTTP,
		log:  opts.Logger,
		now:  opts.Now,
	}
	if c.dir == "" {
		c.dir = DefaultDir()
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.log = c.log.With("component", "imagecache")
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Resolve implements Resolver: it returns a file:// URL for the cached copy
// or remote itself when no cached copy can be produced.
func (c *Cache) Resolve(ctx context.Context, remote string) string {
	if local, ok := c.Lookup(ctx, remote); ok {
		return local
	}
	return remote
}

// Lookup returns a file:// URL for remote, fetching it when the cached copy
// is missing or stale. ok is false on any failure.
func (c *Cache) Lookup(ctx context.Context, remote string) (string, bool) {
	local, err := c.lookup(ctx, remote)
	if err != nil {
		c.log.Debug("image cache miss", "url", remote, "error", err)
		return "", false
	}
	if local == "" {
		return "", false
	}
	return local, true
}

func (c *Cache) lookup(ctx context.Context, remote string) (string, error) {
	if strings.TrimSpace(remote) == "" {
		return "", nil
	}
	filePath := filepath.Join(c.dir, FileName(remote))

	if info, err := os.Stat(filePath); err == nil && info.Mode().IsRegular() {
		if !Expired(info.ModTime(), c.now(), c.ttl) {
			return FileURL(filePath)
		}
	}

	data, err := c.fetch(ctx, remote)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}
	if err := c.write(filePath, data); err != nil {
		return "", err
	}
	return FileURL(filePath)
}

// fetch downloads remote. A nil slice with nil error means the server did
// not produce a usable image.
func (c *Cache) fetch(ctx context.Context, remote string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug("image fetch rejected", "url", remote, "status", resp.StatusCode)
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}
	if err := checkPayload(data, resp.Header.Get("Content-Type")); err != nil {
		return nil, err
	}
	return data, nil
}

// checkPayload accepts data that decodes as a known raster format. Formats
// without a registered decoder (svg, avif, ico) are accepted when the server
// labels them image/*.
func checkPayload(data []byte, contentType string) error {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return nil
	}
	if !errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("payload is not an image: %w", err)
	}
	mediaType, _, perr := mime.ParseMediaType(contentType)
	if perr != nil || !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("payload is not an image: content type %q", contentType)
	}
	return nil
}

// write stores data at filePath through a temp file and rename so
// concurrent writers of the same key never leave a torn file.
func (c *Cache) write(filePath string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return &WriteError{Path: c.dir, Err: err}
	}
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return &WriteError{Path: filePath, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &WriteError{Path: filePath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &WriteError{Path: filePath, Err: err}
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		cleanup()
		return &WriteError{Path: filePath, Err: err}
	}
	return nil
}

// FileName derives the cache file name for remote: the hex SHA-1 of the
// whole URL string plus the extension of its path component.
func FileName(remote string) string {
	sum := sha1.Sum([]byte(remote))
	return hex.EncodeToString(sum[:]) + "." + extension(remote)
}

func extension(remote string) string {
	p := remote
	if u, err := url.Parse(remote); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" || len(ext) > maxExtLen || !isAlnum(ext) {
		return defaultExt
	}
	return ext
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Expired reports whether a file modified at modified is stale at now. An
// age equal to ttl is still fresh; a modification time in the future is
// treated as stale.
func Expired(modified, now time.Time, ttl time.Duration) bool {
	age := now.Sub(modified)
	if age < 0 {
		return true
	}
	return age > ttl
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return "", &FileURLError{Path: p}
	}
	slashed := filepath.ToSlash(p)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed // C:/x -> /C:/x
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String(), nil
}

// WriteError reports a failure to store a fetched image. It is never fatal.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write cache file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileURLError reports a path that cannot be expressed as a file URL.
type FileURLError struct {
	Path string
}

func (e *FileURLError) Error() string {
	return fmt.Sprintf("cannot build file url for %q", e.Path)
}
