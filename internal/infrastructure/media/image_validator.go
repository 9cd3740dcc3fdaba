// Package media validates and normalizes uploaded image and audio
// attachments before they are forwarded upstream.
package media

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ImageValidator checks artwork uploads against minimum dimensions and
// re-encodes them to webp.
type ImageValidator struct {
	minWidth  int
	minHeight int
	quality   int
}

// NewImageValidator creates a validator with the given constraints.
func NewImageValidator(minWidth, minHeight, quality int) *ImageValidator {
	return &ImageValidator{
		minWidth:  minWidth,
		minHeight: minHeight,
		quality:   quality,
	}
}

// ValidationError is a client-side validation failure: the upload is
// rejected before any upstream call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate decodes the image and checks its dimensions.
func (v *ImageValidator) Validate(field string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Field: field, Message: "file is not a decodable image"}
	}

	bounds := img.Bounds()
	if bounds.Dx() < v.minWidth || bounds.Dy() < v.minHeight {
		return &ValidationError{
			Field: field,
			Message: fmt.Sprintf("image is %dx%d; minimum is %dx%d",
				bounds.Dx(), bounds.Dy(), v.minWidth, v.minHeight),
		}
	}

	return nil
}

// Normalize square-crops the image and re-encodes it as webp. Save as WebP
// using the webp library, NOT imaging.Save().
func (v *ImageValidator) Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	size := bounds.Dx()
	if bounds.Dy() < size {
		size = bounds.Dy()
	}
	cropped := imaging.CropCenter(img, size, size)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, cropped, &webp.Options{Quality: float32(v.quality)}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}

	return buf.Bytes(), nil
}
