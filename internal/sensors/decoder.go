package sensors

import (
	"encoding/binary"
	"fmt"
)

const (
	// BytesPerChannel is the size of a single little-endian uint16 ADC count
	BytesPerChannel = 2
	MaxChannels     = 2
)

// MalformedFrameError is returned when a notification payload does not match
// the configured channel count.
type MalformedFrameError struct {
	Length   int
	Channels int
}

func (e *MalformedFrameError) Error() string {
	if e.Channels < 1 || e.Channels > MaxChannels {
		return fmt.Sprintf("malformed frame: unsupported channel count %d", e.Channels)
	}
	return fmt.Sprintf("malformed frame: got %d bytes, expected %d for %d channel(s)", e.Length, e.Channels*BytesPerChannel, e.Channels)
}

// Decode splits a raw notification payload into one ADC count per channel.
// Every channel is an unsigned little-endian 16-bit integer.
func Decode(frame []byte, channels int) ([]uint16, error) {
	if channels < 1 || channels > MaxChannels || len(frame) != channels*BytesPerChannel {
		return nil, &MalformedFrameError{Length: len(frame), Channels: channels}
	}
	result := make([]uint16, channels)
	for i := range result {
		result[i] = binary.LittleEndian.Uint16(frame[i*BytesPerChannel:])
	}
	return result, nil
}

// Encode is the inverse of Decode, used by transports that synthesize frames
func Encode(values []uint16) []byte {
	frame := make([]byte, len(values)*BytesPerChannel)
	for i, value := range values {
		binary.LittleEndian.PutUint16(frame[i*BytesPerChannel:], value)
	}
	return frame
}
