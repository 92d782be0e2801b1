// Package upload stores product images posted as multipart files and builds
// their public URLs. Files are named by upload time plus the original
// extension, matching the layout already used by deployed frontends.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoImage         = errors.New("no image attached")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type Stored struct {
	Name string
	URL  string
}

type Saver struct {
	Dir     string
	BaseURL string // public prefix, e.g. http://localhost:3000/uploads

	now func() time.Time
}

func NewSaver(dir, baseURL string) *Saver {
	return &Saver{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (s *Saver) Save(fh *multipart.FileHeader) (Stored, error) {
	if fh == nil {
		return Stored{}, ErrNoImage
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return Stored{}, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Stored{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return Stored{}, err
	}
	defer src.Close()

	name := strconv.FormatInt(s.now().UnixMilli(), 10) + ext
	path := filepath.Join(s.Dir, name)
	if _, err := os.Stat(path); err == nil {
		// Same-millisecond upload; disambiguate.
		name = strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + uuid.NewString()[:8] + ext
		path = filepath.Join(s.Dir, name)
	}

	dst, err := os.Create(path)
	if err != nil {
		return Stored{}, err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return Stored{}, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return Stored{}, err
	}

	return Stored{Name: name, URL: s.BaseURL + "/" + name}, nil
}

// Remove deletes a previously stored file. Used to avoid orphan images when
// product creation fails after the upload already landed on disk.
func (s *Saver) Remove(name string) {
	if name == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.Dir, name))
}
