package raster

// InkThreshold splits ink from paper when measuring coverage.
const InkThreshold = 128

// InkCoverage returns the fraction of pixels darker than InkThreshold.
func InkCoverage(img *Image) float64 {
	if img.empty() {
		return 0
	}
	w, h := img.Width(), img.Height()
	ink := 0
	for y := 0; y < h; y++ {
		for _, v := range img.Gray.Pix[y*img.Gray.Stride : y*img.Gray.Stride+w] {
			if v < InkThreshold {
				ink++
			}
		}
	}
	return float64(ink) / float64(w*h)
}
