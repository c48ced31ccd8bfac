package raster

import "image"

// NearWhite is the luminance at and above which a pixel counts as margin.
const NearWhite = 250

// Trim crops img to the bounding box of its non-near-white pixels.
// When nothing but margin is found it returns an unchanged copy together with
// ErrBlankImage; callers treat that as a warning and keep going.
func Trim(img *Image) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}

	box, ok := ContentBounds(img)
	if !ok {
		return img.Clone(), ErrBlankImage
	}
	if box == img.Gray.Rect {
		return img.Clone(), nil
	}

	out := &Image{
		Gray:  image.NewGray(image.Rect(0, 0, box.Dx(), box.Dy())),
		Depth: img.Depth,
	}
	for y := 0; y < box.Dy(); y++ {
		start := (box.Min.Y+y)*img.Gray.Stride + box.Min.X
		copy(out.Gray.Pix[y*out.Gray.Stride:], img.Gray.Pix[start:start+box.Dx()])
	}
	return out, nil
}

// ContentBounds returns the smallest rectangle holding every pixel darker
// than NearWhite. ok is false for a blank image.
func ContentBounds(img *Image) (image.Rectangle, bool) {
	w, h := img.Width(), img.Height()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := img.Gray.Pix[y*img.Gray.Stride : y*img.Gray.Stride+w]
		for x, v := range row {
			if v >= NearWhite {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = y
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
