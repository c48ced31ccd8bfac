package raster

import "fmt"

// DefaultThreshold is the luminance cut-off used when none is configured.
const DefaultThreshold = 160

// Binarize maps every pixel to Black when its luminance is at or below
// threshold and to White otherwise. The result always has DepthBinary.
func Binarize(img *Image, threshold int) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: threshold %d outside [0,255]", ErrInvalidInput, threshold)
	}

	var lut [256]uint8
	for v := range lut {
		if v <= threshold {
			lut[v] = Black
		} else {
			lut[v] = White
		}
	}

	out := img.Clone()
	for i, v := range out.Gray.Pix {
		out.Gray.Pix[i] = lut[v]
	}
	out.Depth = DepthBinary
	return out, nil
}
