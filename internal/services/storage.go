package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"quillpress/internal/config"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII filename that is safe to store.
// It may return an empty string.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ImageStore keeps uploaded post images in a single directory.
// Uploads with the same sanitised name overwrite each other.
type ImageStore struct {
	dir     string
	allowed map[string]bool
	maxSize int64
}

func NewImageStore(cfg config.UploadConfig) *ImageStore {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &ImageStore{dir: cfg.Dir, allowed: allowed, maxSize: cfg.MaxSize}
}

// Allowed reports whether filename carries one of the allowed extensions
func (s *ImageStore) Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return s.allowed[strings.ToLower(filename[i+1:])]
}

// Save writes an uploaded image and returns the stored filename
func (s *ImageStore) Save(header *multipart.FileHeader) (string, error) {
	if !s.Allowed(header.Filename) {
		return "", ValidationError{"image": "Images only!"}
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", ValidationError{"image": fmt.Sprintf("File is larger than %d bytes.", s.maxSize)}
	}

	name := SecureFilename(header.Filename)
	if name == "" || !s.Allowed(name) {
		return "", ValidationError{"image": "Invalid file name."}
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// Path resolves a stored filename to its location on disk
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}
