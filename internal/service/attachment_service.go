package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/pkg/storage"
)

// AttachmentStore owns the physical files behind memo image references.
// It is the only component that creates or deletes attachment files; memo
// records hold the returned reference string and never touch storage
// directly.
//
// Remove is idempotent: a reference whose backing file is already gone is
// success, because callers may retry after a partial failure.
type AttachmentStore interface {
	Store(file *multipart.FileHeader) (string, error)
	Remove(ref string) error
}

// maxImageSize caps uploads at 10MB
const maxImageSize = 10 * 1024 * 1024

// s3Timeout bounds object-store round-trips so a dead endpoint surfaces as
// an error instead of a hung request
const s3Timeout = 10 * time.Second

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// validateImage checks extension and size before any bytes hit storage
func validateImage(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("%w: unsupported image format %s", common.ErrInvalidInput, ext)
	}
	if file.Size > maxImageSize {
		return fmt.Errorf("%w: file exceeds 10MB", common.ErrInvalidInput)
	}
	return nil
}

// savedName builds a stored filename that cannot collide even when two
// uploads share the same original name
func savedName(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}

// localAttachmentStore keeps attachment files on the local disk under a
// single uploads directory, served statically by the router
type localAttachmentStore struct {
	uploadDir string
	baseURL   string
}

// NewLocalAttachmentStore creates a disk-backed AttachmentStore
func NewLocalAttachmentStore(uploadDir, baseURL string) AttachmentStore {
	return &localAttachmentStore{
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *localAttachmentStore) Store(file *multipart.FileHeader) (string, error) {
	if err := validateImage(file); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create upload dir: %v", common.ErrFileSystem, err)
	}

	name := savedName(file.Filename)
	savePath := filepath.Join(s.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", common.ErrFileSystem, err)
	}
	defer src.Close()

	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", common.ErrFileSystem, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(savePath)
		return "", fmt.Errorf("%w: write file: %v", common.ErrFileSystem, err)
	}

	return s.baseURL + "/" + name, nil
}

func (s *localAttachmentStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	// Only the basename is trusted; the reference may be a full URL path
	path := filepath.Join(s.uploadDir, filepath.Base(ref))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: remove %s: %v", common.ErrFileSystem, path, err)
	}
	return nil
}

// s3AttachmentStore keeps attachment files in S3-compatible object storage
type s3AttachmentStore struct {
	client *storage.S3Client
}

// NewS3AttachmentStore creates an object-store-backed AttachmentStore
func NewS3AttachmentStore(client *storage.S3Client) AttachmentStore {
	return &s3AttachmentStore{client: client}
}

func (s *s3AttachmentStore) Store(file *multipart.FileHeader) (string, error) {
	if err := validateImage(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", common.ErrFileSystem, err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()

	key := savedName(file.Filename)
	ref, err := s.client.Upload(ctx, key, src, contentTypeByExt(filepath.Ext(file.Filename)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrFileSystem, err)
	}
	return ref, nil
}

func (s *s3AttachmentStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s3Timeout)
	defer cancel()

	// DeleteObject on a missing key succeeds, which gives us idempotency
	if err := s.client.Delete(ctx, keyFromRef(ref)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrFileSystem, err)
	}
	return nil
}

// keyFromRef recovers the object key from a stored reference URL
func keyFromRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return strings.TrimPrefix(u.Path, "/")
}

// contentTypeByExt returns content type from file extension
func contentTypeByExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}
