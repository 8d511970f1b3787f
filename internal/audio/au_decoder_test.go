package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func auFile(encoding, channels uint32, body []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, auHeader{
		Magic:      auMagic,
		DataOffset: 24,
		DataSize:   uint32(len(body)),
		Encoding:   encoding,
		SampleRate: 8000,
		Channels:   channels,
	})
	buf.Write(body)
	return buf.Bytes()
}

func TestDecodeAU_MonoULawBecomesStereo(t *testing.T) {
	d, err := DecodeAU(bytes.NewReader(auFile(auEncodingULaw, 1, []byte{0x00, 0xff})))
	if err != nil {
		t.Fatalf("DecodeAU: %v", err)
	}
	if d.SampleRate() != 8000 {
		t.Errorf("sample rate = %d", d.SampleRate())
	}
	if d.Length() != 8 {
		t.Fatalf("length = %d, want 8 (2 frames x 2 channels x 2 bytes)", d.Length())
	}

	pcm, _ := io.ReadAll(d)
	left := int16(binary.LittleEndian.Uint16(pcm[0:]))
	right := int16(binary.LittleEndian.Uint16(pcm[2:]))
	if left != -32124 || right != -32124 {
		t.Errorf("first frame = (%d, %d), want both -32124", left, right)
	}
	if last := int16(binary.LittleEndian.Uint16(pcm[6:])); last != 0 {
		t.Errorf("last sample = %d, want 0", last)
	}
}

func TestDecodeAU_StereoPCM16(t *testing.T) {
	body := []byte{0x01, 0x00, 0xff, 0xff}
	d, err := DecodeAU(bytes.NewReader(auFile(auEncodingPCM16, 2, body)))
	if err != nil {
		t.Fatalf("DecodeAU: %v", err)
	}
	pcm, _ := io.ReadAll(d)
	if got := int16(binary.LittleEndian.Uint16(pcm[0:])); got != 256 {
		t.Errorf("left = %d, want 256", got)
	}
	if got := int16(binary.LittleEndian.Uint16(pcm[2:])); got != -1 {
		t.Errorf("right = %d, want -1", got)
	}
}

func TestDecodeAU_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"太短", []byte{1, 2, 3}},
		{"魔数错误", append([]byte("RIFF"), make([]byte, 20)...)},
		{"不支持的编码", auFile(27, 1, []byte{0})},
		{"声道数错误", auFile(auEncodingULaw, 6, []byte{0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAU(bytes.NewReader(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAUDecoder_Seek(t *testing.T) {
	d, err := DecodeAU(bytes.NewReader(auFile(auEncodingULaw, 1, []byte{0, 0, 0})))
	if err != nil {
		t.Fatal(err)
	}
	if pos, err := d.Seek(-4, io.SeekEnd); err != nil || pos != 8 {
		t.Errorf("Seek end = %d, %v", pos, err)
	}
	if _, err := d.Seek(-100, io.SeekCurrent); err == nil {
		t.Error("negative seek should fail")
	}
}
