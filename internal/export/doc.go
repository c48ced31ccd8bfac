// Package export publishes finished pages to the output pool.
//
// Pages are encoded as 8-bit grayscale PNG with a pHYs chunk carrying the
// print resolution, so layout tools and the book assembler see the intended
// DPI without a sidecar file.
//
// # Atomic publish
//
// Every file is written to a hidden temporary file in the destination
// directory, synced, and renamed onto its final name. A reader listing the
// pool therefore sees either the complete previous state or the complete new
// file, never a partially written page. WriteFileAtomic is exported so the
// book assembler and the generator use the same mechanism for PDFs, manifests
// and downloaded sources.
package export
