// Package media stores uploaded watch images and serves them back.
//
// Uploads are written through a storage.Disk under a generated name and
// referenced everywhere else by their public path, "/uploads/<name>".
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/metrics"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/storage"
)

// PublicPrefix is the URL prefix every stored upload is reachable under.
const PublicPrefix = "/uploads/"

// DefaultField is the multipart field carrying the watch image.
const DefaultField = "watchImage"

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Ingestor accepts image uploads and persists them on a disk.
type Ingestor struct {
	disk     storage.Disk
	maxBytes int64
	now      func() time.Time
}

// New returns an Ingestor writing to disk. maxBytes <= 0 falls back to
// MAX_UPLOAD_BYTES.
func New(disk storage.Disk, maxBytes int64) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = config.Int64("MAX_UPLOAD_BYTES", 5<<20)
	}
	return &Ingestor{disk: disk, maxBytes: maxBytes, now: time.Now}
}

// Upload is a checked but not yet stored file.
type Upload struct {
	ing         *Ingestor
	header      *multipart.FileHeader
	contentType string
}

// Filename is the client-supplied name of the file.
func (u *Upload) Filename() string { return u.header.Filename }

// Stage parses the multipart body and checks the file under field without
// writing it. A request without that file returns (nil, nil). Callers
// must defer Cleanup on the same request.
func (i *Ingestor) Stage(r *http.Request, field string) (*Upload, error) {
	if !isMultipart(r) {
		return nil, nil
	}
	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(nil, r.Body, i.maxBytes+1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, i.tooLarge()
			}
			return nil, apperr.BadRequest("invalid multipart body: %v", err)
		}
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, apperr.Validation("Please upload a single image")
	}
	fh := files[0]
	if fh.Size > i.maxBytes {
		return nil, i.tooLarge()
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return nil, apperr.Validation("Please upload an image file (jpg, jpeg, png, gif or webp)")
	}

	ct, err := sniff(fh)
	if err != nil {
		return nil, apperr.Unexpected(fmt.Errorf("media: read upload: %w", err))
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, apperr.Validation("Please upload an image file (jpg, jpeg, png, gif or webp)")
	}

	return &Upload{ing: i, header: fh, contentType: ct}, nil
}

// Save writes the upload and returns its public path. The file is durable
// when Save returns.
func (u *Upload) Save(ctx context.Context) (string, error) {
	f, err := u.header.Open()
	if err != nil {
		return "", apperr.Unexpected(fmt.Errorf("media: open upload: %w", err))
	}
	defer f.Close()

	name := u.ing.name(u.header.Filename)
	if err := u.ing.disk.Put(ctx, name, f, u.contentType); err != nil {
		return "", apperr.Unexpected(fmt.Errorf("media: store %s: %w", name, err))
	}
	metrics.UploadsStored.Inc()
	return PublicPrefix + name, nil
}

// Cleanup removes the temporary files ParseMultipartForm spilled to disk.
// The server only does this for the request it created, not for the
// copies routing and middleware hand to handlers.
func Cleanup(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// Open streams a stored upload by its bare name.
func (i *Ingestor) Open(ctx context.Context, name string) (io.ReadCloser, storage.Info, error) {
	return i.disk.Open(ctx, name)
}

// ServeHTTP serves uploads by name. Mount it with the prefix stripped.
func (i *Ingestor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if _, err := storage.CleanName(name); err != nil {
		http.NotFound(w, r)
		return
	}

	rc, info, err := i.Open(r.Context(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	h := w.Header()
	if info.ContentType != "" {
		h.Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.LastModified.IsZero() {
		h.Set("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	}
	h.Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.Copy(w, rc)
}

// name builds "<unixnano>_<base><ext>" with spaces replaced by underscores.
func (i *Ingestor) name(original string) string {
	original = filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(original, filepath.Ext(original))
	base = sanitize(base)
	if base == "" {
		base = "image"
	}
	return strconv.FormatInt(i.now().UnixNano(), 10) + "_" + base + ext
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

func (i *Ingestor) tooLarge() error {
	return apperr.Validation("Please upload an image smaller than %d MB", (i.maxBytes+(1<<20)-1)>>20)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}
