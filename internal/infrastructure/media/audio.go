package media

import (
	"encoding/binary"
	"fmt"
)

// AudioValidator checks preset demo clips against a maximum duration.
// Demos are uploaded as WAV; the duration comes straight from the header.
type AudioValidator struct {
	maxSeconds int
}

// NewAudioValidator creates a validator with the given duration cap.
func NewAudioValidator(maxSeconds int) *AudioValidator {
	return &AudioValidator{maxSeconds: maxSeconds}
}

// Validate parses the WAV header and rejects clips longer than the cap.
func (v *AudioValidator) Validate(field string, data []byte) error {
	seconds, err := wavDurationSeconds(data)
	if err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}

	if seconds > float64(v.maxSeconds) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("audio is %.1fs; maximum is %ds", seconds, v.maxSeconds),
		}
	}

	return nil
}

// wavDurationSeconds reads a RIFF/WAVE header and computes the duration from
// the fmt chunk's byte rate and the data chunk's length.
func wavDurationSeconds(data []byte) (float64, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("file is not a WAV audio clip")
	}

	var byteRate uint32
	var dataLen uint32

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return 0, fmt.Errorf("truncated WAV fmt chunk")
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataLen = chunkSize
		}

		// Chunks are word-aligned.
		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if byteRate == 0 || dataLen == 0 {
		return 0, fmt.Errorf("WAV header is missing fmt or data chunk")
	}

	return float64(dataLen) / float64(byteRate), nil
}
