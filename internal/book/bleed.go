package book

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const mmPerInch = 25.4

// Bleed is extra paper added on every side of the trim size. The zero value
// means no bleed. Bleed implements pflag.Value so it can be bound to a flag.
type Bleed struct {
	text   string
	inches float64
}

// ParseBleed parses "none", a length in millimetres ("3mm") or a length in
// inches ("0.125in").
func ParseBleed(s string) (Bleed, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" || text == "none" || text == "0" {
		return Bleed{}, nil
	}

	var unit float64
	var num string
	switch {
	case strings.HasSuffix(text, "mm"):
		unit, num = 1/mmPerInch, strings.TrimSuffix(text, "mm")
	case strings.HasSuffix(text, "in"):
		unit, num = 1, strings.TrimSuffix(text, "in")
	default:
		return Bleed{}, fmt.Errorf("%w: %q needs a unit, e.g. 3mm or 0.125in", ErrInvalidBleed, s)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Bleed{}, fmt.Errorf("%w: %q", ErrInvalidBleed, s)
	}
	if v == 0 {
		return Bleed{}, nil
	}
	return Bleed{text: text, inches: v * unit}, nil
}

// Inches returns the bleed length in inches.
func (b Bleed) Inches() float64 { return b.inches }

// IsNone reports whether no bleed is applied.
func (b Bleed) IsNone() bool { return b.inches == 0 }

// Pixels returns round(inches * dpi).
func (b Bleed) Pixels(dpi int) int {
	return int(math.Round(b.inches * float64(dpi)))
}

// Validate checks that the bleed leaves room for content on a page of
// width x height pixels: 0 <= px < min(width, height)/2.
func (b Bleed) Validate(width, height, dpi int) error {
	px := b.Pixels(dpi)
	if px < 0 || 2*px >= min(width, height) {
		return fmt.Errorf("%w: %s is %dpx, too large for a %dx%d page", ErrInvalidBleed, b, px, width, height)
	}
	return nil
}

// String returns the bleed as the user wrote it, or "none".
func (b Bleed) String() string {
	if b.IsNone() {
		return "none"
	}
	return b.text
}

// Set parses s into b.
func (b *Bleed) Set(s string) error {
	parsed, err := ParseBleed(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Type names the flag value type in help output.
func (*Bleed) Type() string { return "bleed" }
