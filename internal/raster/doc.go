// Package raster holds the grayscale image type and the pure transforms that
// turn an arbitrary picture into a coloring page: binarization, outline
// thickening, margin trimming, edge detection and fitting onto a print canvas.
//
// Every transform takes an *Image and returns a new one. Inputs are never
// mutated, so an image can be handed from one stage to the next without
// copying and without locking.
//
// # Pixel model
//
// Pixels are 8-bit luminance values stored in an *image.Gray. Color inputs are
// reduced with the BT.601 integer weights used throughout the package:
//
//	Y = (299*R + 587*G + 114*B + 500) / 1000
//
// After Binarize an image only contains 0 (ink) and 255 (paper), and the
// Depth field records that fact so later stages and the exporter can check it.
package raster
