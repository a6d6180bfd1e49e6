package prompt

import (
	"errors"
	"fmt"
)

// Style selects which instruction is sent alongside the image.
type Style string

const (
	StyleDetailed  Style = "detailed"
	StyleConcise   Style = "concise"
	StyleArtistic  Style = "artistic"
	StyleTechnical Style = "technical"
)

var ErrUnknownStyle = errors.New("unknown style")

var instructions = map[Style]string{
	StyleDetailed: "Generate a single paragraph prompt that could be used to recreate this image. " +
		"Include the main subject, artistic style, composition, colors, lighting, and mood " +
		"in a flowing descriptive paragraph. Focus on being comprehensive but concise.",
	StyleConcise: "Generate a short, punchy prompt of one or two sentences that could be used to " +
		"recreate this image. Name only the subject and the most distinctive visual qualities.",
	StyleArtistic: "Generate a single paragraph prompt that could be used to recreate this image, " +
		"written in the language of an art director: emphasize medium, artistic movement, brushwork " +
		"or rendering technique, palette, and emotional tone.",
	StyleTechnical: "Generate a single paragraph prompt that could be used to recreate this image, " +
		"written in the language of a photographer: emphasize camera angle, lens and focal length, " +
		"depth of field, lighting setup, and post-processing.",
}

// Styles returns every style in a stable order.
func Styles() []Style {
	return []Style{StyleDetailed, StyleConcise, StyleArtistic, StyleTechnical}
}

// ParseStyle validates a user-supplied style name.
func ParseStyle(name string) (Style, error) {
	s := Style(name)
	if _, ok := instructions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return s, nil
}

// Instruction returns the fixed instruction template for the style. The
// mapping never varies between calls.
func (s Style) Instruction() string {
	return instructions[s]
}
