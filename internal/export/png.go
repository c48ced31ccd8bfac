package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
	"os"
)

const metresPerInch = 0.0254

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// EncodePNG writes img as PNG with a pHYs chunk recording dpi.
// The standard encoder does not emit pHYs, so the chunk is spliced in
// before the first IDAT.
func EncodePNG(w io.Writer, img image.Image, dpi int) error {
	if dpi <= 0 {
		return fmt.Errorf("%w: dpi %d must be positive", ErrInvalidInput, dpi)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	out, err := insertPHYs(buf.Bytes(), dpi)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// PixelsPerMetre converts a DPI to the pHYs unit.
func PixelsPerMetre(dpi int) uint32 {
	return uint32(math.Round(float64(dpi) / metresPerInch))
}

func insertPHYs(data []byte, dpi int) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("%w: not a png stream", ErrInvalidInput)
	}

	ppm := PixelsPerMetre(dpi)
	payload := make([]byte, 9)
	binary.BigEndian.PutUint32(payload[0:4], ppm)
	binary.BigEndian.PutUint32(payload[4:8], ppm)
	payload[8] = 1 // unit: metre
	chunk := makeChunk("pHYs", payload)

	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if typ == "IDAT" {
			out := make([]byte, 0, len(data)+len(chunk))
			out = append(out, data[:pos]...)
			out = append(out, chunk...)
			out = append(out, data[pos:]...)
			return out, nil
		}
		pos += 12 + length
	}
	return nil, fmt.Errorf("%w: png has no IDAT chunk", ErrInvalidInput)
}

func makeChunk(typ string, payload []byte) []byte {
	chunk := make([]byte, 8+len(payload)+4)
	binary.BigEndian.PutUint32(chunk[0:4], uint32(len(payload)))
	copy(chunk[4:8], typ)
	copy(chunk[8:], payload)
	crc := crc32.NewIEEE()
	_, _ = crc.Write(chunk[4 : 8+len(payload)])
	binary.BigEndian.PutUint32(chunk[8+len(payload):], crc.Sum32())
	return chunk
}

// ReadDPI returns the horizontal resolution stored in a PNG file's pHYs chunk.
func ReadDPI(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-controlled pool path
	if err != nil {
		return 0, err
	}
	return DPIFromPNG(data)
}

// DPIFromPNG parses the pHYs chunk of an encoded PNG.
func DPIFromPNG(data []byte) (int, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, fmt.Errorf("%w: not a png stream", ErrInvalidInput)
	}
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if pos+12+length > len(data) {
			break
		}
		switch typ {
		case "pHYs":
			if length != 9 || data[pos+16] != 1 {
				return 0, ErrNoDPI
			}
			ppm := binary.BigEndian.Uint32(data[pos+8 : pos+12])
			return int(math.Round(float64(ppm) * metresPerInch)), nil
		case "IDAT":
			return 0, ErrNoDPI
		}
		pos += 12 + length
	}
	return 0, ErrNoDPI
}
