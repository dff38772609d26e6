package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/storage"
	"github.com/GuoYangtuo/potato-timer/internal/validation"
)

type UploadService struct {
	store    storage.Storage
	maxBytes int64
}

func NewUploadService(store storage.Storage, maxBytes int64) *UploadService {
	return &UploadService{
		store:    store,
		maxBytes: maxBytes,
	}
}

// UploadResult describes a stored media file.
type UploadResult struct {
	URL  string
	Type string // image or video
	Size int64
}

// Save classifies and stores one uploaded file. Keys are random, prefixed
// by kind and upload date, so original filenames never collide or leak.
func (s *UploadService) Save(ctx context.Context, filename, contentType string, size int64, file io.Reader) (*UploadResult, error) {
	if size <= 0 {
		return nil, apperror.Validation("file", "file is empty")
	}
	if size > s.maxBytes {
		return nil, apperror.Validation("file", fmt.Sprintf("file exceeds the %dMB limit", s.maxBytes>>20))
	}

	kind := validation.MediaKind(contentType, filename)
	if kind == "" {
		return nil, apperror.Validation("file", "only image and video files are accepted")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s/%s%s", kind, time.Now().UTC().Format("2006/01/02"), uuid.NewString(), ext)

	// The size header is a claim; cap the read at the real limit.
	err := s.store.Save(ctx, key, io.LimitReader(file, s.maxBytes), contentType)
	if err != nil {
		return nil, apperror.Store(err)
	}

	return &UploadResult{
		URL:  s.store.URL(key),
		Type: kind,
		Size: size,
	}, nil
}
