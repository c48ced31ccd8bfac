package raster

import "fmt"

// StructuringElement names the neighbourhood shape used by Thicken.
// A square of side 2r+1 grows strokes by r pixels in every direction,
// diagonals included.
const StructuringElement = "square"

// Thicken dilates dark strokes by radius pixels using a square structuring
// element. Pixels outside the image count as white, so ink never bleeds in
// from the border. Radius 0 returns an identical copy.
//
// Square dilation is separable: a horizontal minimum filter followed by a
// vertical one gives the same result as the full 2D window. On a binary image
// "minimum" is "any ink in the window"; on a gray image it darkens towards
// the darkest neighbour.
func Thicken(img *Image, radius int) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative thicken radius %d", ErrInvalidInput, radius)
	}
	if radius == 0 {
		return img.Clone(), nil
	}

	w, h := img.Width(), img.Height()
	tmp := img.Clone()
	src := img.Gray
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		out := tmp.Gray.Pix[y*tmp.Gray.Stride:]
		for x := 0; x < w; x++ {
			out[x] = windowMin(row, x, radius, w)
		}
	}

	out := tmp.Clone()
	col := make([]uint8, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = tmp.Gray.Pix[y*tmp.Gray.Stride+x]
		}
		for y := 0; y < h; y++ {
			out.Gray.Pix[y*out.Gray.Stride+x] = windowMin(col, y, radius, h)
		}
	}
	return out, nil
}

// windowMin returns the minimum of line[i-r .. i+r], clipped to [0, n).
func windowMin(line []uint8, i, r, n int) uint8 {
	lo := max(i-r, 0)
	hi := min(i+r, n-1)
	m := White
	for j := lo; j <= hi; j++ {
		if line[j] < m {
			m = line[j]
			if m == Black {
				break
			}
		}
	}
	return m
}
