package media

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV assembles a minimal RIFF/WAVE header with the given byte rate and
// data chunk size. The data chunk carries no actual samples; only the
// declared size matters for duration.
func buildWAV(byteRate, dataLen uint32) []byte {
	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:2], 1)  // PCM
	binary.LittleEndian.PutUint16(fmtChunk[2:4], 2)  // stereo
	binary.LittleEndian.PutUint32(fmtChunk[4:8], 44100)
	binary.LittleEndian.PutUint32(fmtChunk[8:12], byteRate)
	binary.LittleEndian.PutUint16(fmtChunk[12:14], 4)
	binary.LittleEndian.PutUint16(fmtChunk[14:16], 16)

	var out []byte
	out = append(out, []byte("RIFF")...)
	out = append(out, 0, 0, 0, 0)
	out = append(out, []byte("WAVE")...)

	out = append(out, []byte("fmt ")...)
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(len(fmtChunk)))
	out = append(out, size...)
	out = append(out, fmtChunk...)

	out = append(out, []byte("data")...)
	binary.LittleEndian.PutUint32(size, dataLen)
	out = append(out, size...)
	return out
}

func TestValidateAcceptsShortClip(t *testing.T) {
	v := NewAudioValidator(15)

	// 176400 bytes/s for 10 seconds.
	clip := buildWAV(176400, 1764000)
	assert.NoError(t, v.Validate("audio", clip))
}

func TestValidateRejectsLongClip(t *testing.T) {
	v := NewAudioValidator(15)

	// 20 seconds at 176400 bytes/s.
	clip := buildWAV(176400, 3528000)
	err := v.Validate("audio", clip)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "audio", validationErr.Field)
	assert.Contains(t, validationErr.Message, "20.0s")
}

func TestValidateRejectsNonWAV(t *testing.T) {
	v := NewAudioValidator(15)

	err := v.Validate("audio", []byte("ID3\x04not a wav"))
	assert.Error(t, err)
}

func TestWavDurationSeconds(t *testing.T) {
	seconds, err := wavDurationSeconds(buildWAV(176400, 882000))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, seconds, 0.001)
}

func TestWavDurationRejectsMissingChunks(t *testing.T) {
	header := append([]byte("RIFF"), 0, 0, 0, 0)
	header = append(header, []byte("WAVE")...)

	_, err := wavDurationSeconds(header)
	assert.Error(t, err)
}
