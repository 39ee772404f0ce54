// Package uploads accepts product images and hands them to the configured
// object store.
package uploads

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/storage"
)

const keyPrefix = "images"

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Result is returned to the client after a successful upload.
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Service stores uploaded images.
type Service interface {
	Upload(ctx context.Context, filename string, body io.Reader, size int64) (*Result, error)
}

type service struct {
	store    storage.ObjectStore
	maxBytes int64
	logg     *logger.Logger
}

// NewService builds the upload service. maxBytes bounds every upload.
func NewService(store storage.ObjectStore, maxBytes int64, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object store required")
	}
	if maxBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload limit must be positive")
	}
	return &service{store: store, maxBytes: maxBytes, logg: logg}, nil
}

func (s *service) Upload(ctx context.Context, filename string, body io.Reader, size int64) (*Result, error) {
	if body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if size > s.maxBytes {
		return nil, s.tooLarge(size)
	}

	// Read one byte past the limit so an understated size is still caught.
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.tooLarge(int64(len(data)))
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}

	detected := mimetype.Detect(data)
	contentType := strings.ToLower(detected.String())
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedMedia, "only jpeg and png images are accepted").
			WithDetails(map[string]any{"content_type": contentType, "filename": filename})
	}

	key := keyPrefix + "/" + uuid.NewString() + ext
	obj, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"key":          obj.Key,
			"content_type": obj.ContentType,
			"size":         obj.Size,
		})
		s.logg.Info(logCtx, "upload.stored")
	}

	return &Result{
		URL:         obj.URL,
		Key:         obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}, nil
}

func (s *service) tooLarge(size int64) error {
	return pkgerrors.New(pkgerrors.CodePayloadTooLarge, "file exceeds upload limit").
		WithDetails(map[string]any{"max_bytes": s.maxBytes, "size": size})
}
