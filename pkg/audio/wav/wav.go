// Package wav reads and writes RIFF/WAVE files carrying 16-bit PCM audio.
//
// Only uncompressed PCM (format tag 1) with 16-bit samples is supported,
// which is what the recording clients in the grievance workflow produce.
// Decoded audio is kept as raw little-endian int16 bytes so it can be fed
// directly into the pcm and mfcc packages.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// Errors returned by Decode.
var (
	ErrNotWave        = errors.New("wav: not a RIFF/WAVE stream")
	ErrUnsupported    = errors.New("wav: unsupported encoding (want 16-bit PCM)")
	ErrMissingChunk   = errors.New("wav: missing fmt or data chunk")
	ErrTruncatedChunk = errors.New("wav: truncated chunk")
)

// maxChunkSize caps a single chunk read. Verification recordings are a
// few seconds of PCM16; a header claiming more than this is corrupt.
const maxChunkSize = 64 << 20

// readChunk reads a chunk body without trusting the declared size for
// the allocation, so a corrupt header cannot force a huge buffer.
func readChunk(r io.Reader, size uint32) ([]byte, error) {
	if size > maxChunkSize {
		return nil, ErrTruncatedChunk
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil || uint32(len(buf)) != size {
		return nil, ErrTruncatedChunk
	}
	return buf, nil
}

// Audio is decoded PCM16 audio. Data holds little-endian int16 samples,
// interleaved when Channels > 1.
type Audio struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// Duration returns the play time of the audio.
func (a *Audio) Duration() time.Duration {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return 0
	}
	frames := len(a.Data) / (2 * a.Channels)
	return time.Duration(frames) * time.Second / time.Duration(a.SampleRate)
}

// Mono returns the audio downmixed to a single channel by averaging.
// If the audio is already mono, the receiver is returned unchanged.
func (a *Audio) Mono() *Audio {
	if a.Channels <= 1 {
		return a
	}
	frameBytes := 2 * a.Channels
	frames := len(a.Data) / frameBytes
	out := make([]byte, frames*2)
	for f := 0; f < frames; f++ {
		sum := 0
		for c := 0; c < a.Channels; c++ {
			off := f*frameBytes + c*2
			s := int16(a.Data[off]) | int16(a.Data[off+1])<<8
			sum += int(s)
		}
		avg := int16(sum / a.Channels)
		out[f*2] = byte(avg)
		out[f*2+1] = byte(avg >> 8)
	}
	return &Audio{SampleRate: a.SampleRate, Channels: 1, Data: out}
}

// Decode parses a WAVE stream and returns its PCM16 payload.
// Unknown chunks are skipped; the fmt chunk must precede the data chunk.
func Decode(r io.Reader) (*Audio, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWave, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	var (
		audio   Audio
		haveFmt bool
	)
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrTruncatedChunk
			}
			buf, err := readChunk(r, size)
			if err != nil {
				return nil, err
			}
			format := binary.LittleEndian.Uint16(buf[0:2])
			channels := binary.LittleEndian.Uint16(buf[2:4])
			rate := binary.LittleEndian.Uint32(buf[4:8])
			bits := binary.LittleEndian.Uint16(buf[14:16])
			if format != 1 || bits != 16 {
				return nil, ErrUnsupported
			}
			if channels == 0 || rate == 0 {
				return nil, ErrUnsupported
			}
			audio.SampleRate = int(rate)
			audio.Channels = int(channels)
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, ErrMissingChunk
			}
			buf, err := readChunk(r, size)
			if err != nil {
				return nil, err
			}
			// Whole samples only.
			audio.Data = buf[:len(buf)/2*2]
			return &audio, nil

		default:
			// Skip unknown chunk, honoring RIFF word alignment.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, ErrTruncatedChunk
			}
		}
	}
	return nil, ErrMissingChunk
}

// Encode writes the audio as a minimal WAVE file (fmt + data chunks).
func Encode(w io.Writer, a *Audio) error {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return ErrUnsupported
	}
	dataLen := len(a.Data)
	blockAlign := a.Channels * 2
	byteRate := a.SampleRate * blockAlign

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataLen))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(a.Channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(a.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], 16)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataLen))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(a.Data)
	return err
}
