package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DefaultSVGSize is the raster edge length used for an SVG without a viewBox.
const DefaultSVGSize = 2048

// Extensions lists the file extensions Load understands, lower-case with dot.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".svg"}

// IsSupported reports whether path has an extension Load can decode.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads and decodes the image at path and converts it to grayscale.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the configured input directory
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return FromImage(img)
}

// Decode turns encoded bytes into an image. ext is a hint used only to route
// SVG documents to the vector rasterizer; raster formats are sniffed from
// their magic bytes. JPEG EXIF orientation is applied so the picture comes
// out upright.
func Decode(data []byte, ext string) (image.Image, error) {
	if strings.EqualFold(ext, ".svg") {
		return decodeSVG(bytes.NewReader(data))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, err
	}
	if format == "jpeg" {
		img = applyOrientation(img, Orientation(data))
	}
	return img, nil
}

// Orientation returns the EXIF orientation tag (1..8) of a JPEG, or 1 when the
// file has no EXIF block or the tag is missing.
func Orientation(data []byte) int {
	raw, err := exif.SearchAndExtractExif(data)
	if err != nil || raw == nil {
		return 1
	}
	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return 1
	}
	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		if v, ok := entry.Value.([]uint16); ok && len(v) > 0 && v[0] >= 1 && v[0] <= 8 {
			return int(v[0])
		}
	}
	return 1
}

// applyOrientation undoes the camera rotation recorded in an EXIF tag.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// decodeSVG rasterizes an SVG document at its viewBox size on white.
func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = DefaultSVGSize, DefaultSVGSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return dst, nil
}
