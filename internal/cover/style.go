package cover

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
)

// Mode selects the color scheme of the text band.
type Mode string

// Supported modes.
const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want light or dark)", ErrInvalidMode, s)
	}
}

// palette holds the colors used for one mode.
type palette struct {
	canvas color.NRGBA
	band   color.NRGBA
	text   color.NRGBA
	shadow color.NRGBA
}

func (m Mode) palette() palette {
	if m == ModeDark {
		return palette{
			canvas: color.NRGBA{R: 20, G: 24, B: 32, A: 255},
			band:   color.NRGBA{A: 110},
			text:   color.NRGBA{R: 245, G: 247, B: 250, A: 255},
			shadow: color.NRGBA{A: 255},
		}
	}
	return palette{
		canvas: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		band:   color.NRGBA{R: 255, G: 255, B: 255, A: 90},
		text:   color.NRGBA{R: 20, G: 24, B: 32, A: 255},
		shadow: color.NRGBA{A: 255},
	}
}

// styleWords describes each style to the background generator.
var styleWords = map[string]string{
	"playful": "playful, friendly, vibrant composition",
	"elegant": "minimal, tasteful, refined composition",
	"cute":    "cute, friendly, kid-appeal composition",
}

// Styles returns the supported style names, sorted.
func Styles() []string {
	names := make([]string, 0, len(styleWords))
	for name := range styleWords {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseStyle validates a style name.
func ParseStyle(s string) (string, error) {
	style := strings.ToLower(strings.TrimSpace(s))
	if _, ok := styleWords[style]; !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrInvalidStyle, s, strings.Join(Styles(), ", "))
	}
	return style, nil
}

// BackgroundPrompt asks for text-free cover art with room for the title.
func BackgroundPrompt(theme, style string, mode Mode) string {
	bg := "Light background"
	if mode == ModeDark {
		bg = "Dark background"
	}
	return fmt.Sprintf("Front book cover background art. Children's coloring book. %s. %s. "+
		"Leave clean space for title. Avoid any text or watermarks. Theme: %s.", styleWords[style], bg, theme)
}
