// AngelaMos | 2026
// service.go

package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/circlepicks/backend/internal/core"
)

const (
	MaxFileSize = 10 << 20
	MaxFiles    = 10

	BucketExperienceImages = "experience-images"
	BucketAvatars          = "avatars"
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type Storage interface {
	Put(
		ctx context.Context,
		bucket, key string,
		r io.Reader,
		size int64,
		contentType string,
	) (string, error)
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage, now: time.Now}
}

// Upload stores every file under the caller's namespace and returns their
// public URLs in order. The whole batch is validated before the first byte
// is written. A storage failure part way through leaves earlier files in
// place.
func (s *Service) Upload(
	ctx context.Context,
	userID, bucket string,
	files []*multipart.FileHeader,
) ([]string, error) {
	if bucket == "" {
		bucket = BucketExperienceImages
	}
	if bucket != BucketExperienceImages && bucket != BucketAvatars {
		return nil, core.Invalid("bucket must be one of: %s %s",
			BucketExperienceImages, BucketAvatars)
	}

	if err := Validate(files); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.put(ctx, userID, bucket, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, nil
}

// Validate checks count, content type and size for the whole batch and
// reports the first offending file.
func Validate(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return core.Invalid("at least one file is required")
	}
	if len(files) > MaxFiles {
		return core.Invalid("at most %d files may be uploaded at once", MaxFiles)
	}

	for _, fh := range files {
		ct := contentType(fh)
		if _, ok := extensions[ct]; !ok {
			return core.Invalid("file %q has unsupported type %q", fh.Filename, ct)
		}
		if fh.Size > MaxFileSize {
			return core.Invalid("file %q is %.1f MiB, the limit is 10 MiB",
				fh.Filename, float64(fh.Size)/(1<<20))
		}
	}

	return nil
}

// ObjectKey builds <user>/<unix millis>-<random>.<ext>.
func ObjectKey(userID string, at time.Time, contentType string) (string, error) {
	suffix, err := core.GenerateSecureToken(6)
	if err != nil {
		return "", fmt.Errorf("generate suffix: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s.%s",
		userID, at.UnixMilli(), suffix, extensions[contentType]), nil
}

func (s *Service) put(
	ctx context.Context,
	userID, bucket string,
	fh *multipart.FileHeader,
) (string, error) {
	ct := contentType(fh)

	key, err := ObjectKey(userID, s.now(), ct)
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close() //nolint:errcheck

	return s.storage.Put(ctx, bucket, key, f, fh.Size, ct)
}

func contentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
