// Package cover renders the front cover image of a coloring book: a
// background picture fitted to a wide canvas, a translucent band across the
// top, and the title, subtitle and brand line drawn over it.
package cover
