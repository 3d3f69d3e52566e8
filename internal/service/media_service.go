package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrMediaTooLarge    = errors.New("media file too large")
)

var allowedExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	"mp4": {}, "mov": {}, "avi": {}, "mkv": {}, "webm": {},
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// MediaService stages uploaded media on local disk until a post runs.
type MediaService interface {
	// Stage validates the upload and copies it into folder under a fresh
	// name, returning its absolute path.
	Stage(fh *multipart.FileHeader, folder string) (string, error)
	Remove(path string)
}

type mediaService struct {
	maxBytes int64
}

func NewMediaService(maxBytes int64) MediaService {
	return &mediaService{maxBytes: maxBytes}
}

func (s *mediaService) Stage(fh *multipart.FileHeader, folder string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedMedia, ext)
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrMediaTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer src.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading file content: %w", err)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == types.Unknown {
		return "", ErrUnsupportedMedia
	}
	if _, ok := allowedExtensions[kind.Extension]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("error creating media folder: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	name := id + "_" + unsafeName.ReplaceAllString(filepath.Base(fh.Filename), "_")
	dst, err := filepath.Abs(filepath.Join(folder, name))
	if err != nil {
		return "", err
	}

	if err := writeFile(dst, io.MultiReader(bytes.NewReader(head[:n]), src)); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("error saving media file: %w", err)
	}

	slog.Info("media staged", "path", dst, "type", kind.MIME.Value)
	return dst, nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *mediaService) Remove(path string) {
	removeMedia(path)
}
