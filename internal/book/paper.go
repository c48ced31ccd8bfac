package book

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Paper is a KDP trim size.
type Paper struct {
	Name string
	// WidthIn and HeightIn are the trim size in inches.
	WidthIn  float64
	HeightIn float64
}

// Supported trim sizes.
var (
	Letter = Paper{Name: "letter", WidthIn: 8.5, HeightIn: 11}
	A4     = Paper{Name: "a4", WidthIn: 8.27, HeightIn: 11.69}
)

var papers = map[string]Paper{
	Letter.Name: Letter,
	A4.Name:     A4,
}

// ParsePaper looks a paper up by name, case-insensitively.
func ParsePaper(name string) (Paper, error) {
	p, ok := papers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Paper{}, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidPaper, name, strings.Join(PaperNames(), ", "))
	}
	return p, nil
}

// PaperNames returns the supported paper names, sorted.
func PaperNames() []string {
	names := make([]string, 0, len(papers))
	for name := range papers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Pixels returns the trim size in pixels at dpi.
func (p Paper) Pixels(dpi int) (int, int) {
	return int(math.Round(p.WidthIn * float64(dpi))), int(math.Round(p.HeightIn * float64(dpi)))
}
