// Package audio decodes Sun/NeXT (.au) sound effects for the ebiten audio player.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// AUDecoder holds a decoded .au file as signed 16-bit little-endian stereo PCM,
// the layout ebiten's audio.Player expects.
type AUDecoder struct {
	data       []byte
	sampleRate int
	offset     int64
}

type auHeader struct {
	Magic      uint32
	DataOffset uint32
	DataSize   uint32
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64 // ".snd"
	auEncodingULaw  = 1
	auEncodingPCM16 = 3
	auUnknownSize   = 0xffffffff
)

// μ-law decompression table (converts μ-law byte to 16-bit PCM)
var mulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// DecodeAU decodes a μ-law or 16-bit linear .au file. Mono input is
// duplicated into both channels.
func DecodeAU(r io.Reader) (*AUDecoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read AU file: %w", err)
	}
	if len(data) < 24 {
		return nil, fmt.Errorf("AU file too short: %d bytes", len(data))
	}

	var header auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if header.Magic != auMagic {
		return nil, fmt.Errorf("invalid AU magic number: 0x%08x", header.Magic)
	}
	if header.Channels < 1 || header.Channels > 2 {
		return nil, fmt.Errorf("unsupported AU channel count: %d", header.Channels)
	}
	start := int(header.DataOffset)
	if start < 24 || start > len(data) {
		return nil, fmt.Errorf("invalid AU data offset: %d", start)
	}
	body := data[start:]
	if header.DataSize != auUnknownSize && int(header.DataSize) < len(body) {
		body = body[:header.DataSize]
	}

	var samples []int16
	switch header.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = mulawTable[b]
		}
	case auEncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
		}
	default:
		return nil, fmt.Errorf("unsupported AU encoding: %d", header.Encoding)
	}

	return &AUDecoder{
		data:       toStereo(samples, int(header.Channels)),
		sampleRate: int(header.SampleRate),
	}, nil
}

func toStereo(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(left))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(right))
	}
	return out
}

// Read implements io.Reader.
func (d *AUDecoder) Read(p []byte) (int, error) {
	if d.offset >= int64(len(d.data)) {
		return 0, io.EOF
	}
	n := copy(p, d.data[d.offset:])
	d.offset += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (d *AUDecoder) Seek(offset int64, whence int) (int64, error) {
	next := offset
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		next += d.offset
	case io.SeekEnd:
		next += int64(len(d.data))
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	d.offset = next
	return next, nil
}

// Length returns the decoded stream size in bytes.
func (d *AUDecoder) Length() int64 {
	return int64(len(d.data))
}

// SampleRate returns the file's sample rate in Hz.
func (d *AUDecoder) SampleRate() int {
	return d.sampleRate
}
