package raster

// laplacian is the 3x3 edge kernel. Flat regions sum to zero.
var laplacian = [3][3]int{
	{-1, -1, -1},
	{-1, 8, -1},
	{-1, -1, -1},
}

// DetectEdges runs a Laplacian edge filter and inverts the response so that
// edges come out dark on a white background, ready for Binarize. Border
// pixels replicate their nearest neighbour. Intended for photographs, where
// a plain threshold would produce filled silhouettes instead of outlines.
func DetectEdges(img *Image) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}

	w, h := img.Width(), img.Height()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for ky := -1; ky <= 1; ky++ {
				sy := clamp(y+ky, 0, h-1)
				for kx := -1; kx <= 1; kx++ {
					sx := clamp(x+kx, 0, w-1)
					sum += laplacian[ky+1][kx+1] * int(img.At(sx, sy))
				}
			}
			out.Gray.Pix[y*out.Gray.Stride+x] = White - uint8(clamp(sum, 0, 255))
		}
	}
	return out, nil
}
