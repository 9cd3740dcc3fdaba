package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateAcceptsLargeEnoughImage(t *testing.T) {
	v := NewImageValidator(100, 100, 85)
	assert.NoError(t, v.Validate("cover", pngBytes(t, 120, 150)))
}

func TestValidateRejectsUndersizedImage(t *testing.T) {
	v := NewImageValidator(100, 100, 85)

	err := v.Validate("cover", pngBytes(t, 99, 200))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "cover", validationErr.Field)
	assert.Contains(t, validationErr.Message, "99x200")
}

func TestValidateRejectsGarbage(t *testing.T) {
	v := NewImageValidator(100, 100, 85)
	assert.Error(t, v.Validate("cover", []byte("not an image")))
}

func TestNormalizeSquareCropsAndEncodesWebP(t *testing.T) {
	v := NewImageValidator(10, 10, 85)

	out, err := v.Normalize(pngBytes(t, 200, 120))
	require.NoError(t, err)

	// WebP files start with a RIFF container tagged WEBP.
	require.Greater(t, len(out), 12)
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}
