package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/presetbase/presetbase-go/internal/infrastructure/gateway"
	"github.com/presetbase/presetbase-go/internal/infrastructure/media"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
)

// UploadService validates media files before forwarding them upstream.
// Images must clear the minimum dimensions and are normalized to square
// WebP; audio clips must fit the demo length cap.
type UploadService struct {
	client   *gateway.Client
	images   *media.ImageValidator
	audio    *media.AudioValidator
	logger   *logging.ChanneledLogger
	maxBytes int64
}

// NewUploadService creates the upload service.
func NewUploadService(client *gateway.Client, images *media.ImageValidator, audio *media.AudioValidator, logger *logging.ChanneledLogger, maxBytes int64) *UploadService {
	return &UploadService{
		client:   client,
		images:   images,
		audio:    audio,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// UploadImage validates and normalizes an image, then forwards it with the
// given form fields.
func (s *UploadService) UploadImage(ctx context.Context, field string, header *multipart.FileHeader, fields map[string]string) error {
	data, err := s.readFile(header)
	if err != nil {
		return err
	}

	if err := s.images.Validate(field, data); err != nil {
		return err
	}

	normalized, err := s.images.Normalize(data)
	if err != nil {
		return fmt.Errorf("failed to process image %s: %w", header.Filename, err)
	}

	form := gateway.NewFormPayload()
	for name, value := range fields {
		form.Set(name, value)
	}
	form.AddFile(gateway.FilePart{
		Field:       field,
		Filename:    webpName(header.Filename),
		ContentType: "image/webp",
		Data:        normalized,
	})

	if err := s.client.Upload(ctx, form); err != nil {
		s.logger.Media().Error("Image upload failed",
			"field", field, "filename", header.Filename, "error", err.Error())
		return err
	}

	s.logger.Media().Info("Image uploaded",
		"field", field, "filename", header.Filename, "bytes", len(normalized))
	return nil
}

// UploadAudio validates an audio clip, then forwards it unchanged.
func (s *UploadService) UploadAudio(ctx context.Context, field string, header *multipart.FileHeader, fields map[string]string) error {
	data, err := s.readFile(header)
	if err != nil {
		return err
	}

	if err := s.audio.Validate(field, data); err != nil {
		return err
	}

	form := gateway.NewFormPayload()
	for name, value := range fields {
		form.Set(name, value)
	}
	form.AddFile(gateway.FilePart{
		Field:       field,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})

	if err := s.client.Upload(ctx, form); err != nil {
		s.logger.Media().Error("Audio upload failed",
			"field", field, "filename", header.Filename, "error", err.Error())
		return err
	}

	s.logger.Media().Info("Audio uploaded",
		"field", field, "filename", header.Filename, "bytes", len(data))
	return nil
}

func (s *UploadService) readFile(header *multipart.FileHeader) ([]byte, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return nil, &media.ValidationError{
			Field:   header.Filename,
			Message: fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes),
		}
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
	}
	return data, nil
}

func webpName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + ".webp"
}
