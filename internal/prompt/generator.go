// Package prompt turns a validated image into a descriptive text prompt by
// way of a vision-language model.
package prompt

import (
	"context"
	"strings"

	"zr3/rprompt/internal/imaging"
)

// Model is the vision-language service the generator talks to.
type Model interface {
	Describe(ctx context.Context, instruction string, img *imaging.Image) (string, error)
}

type Generator struct {
	model Model
}

func NewGenerator(model Model) *Generator {
	return &Generator{model: model}
}

// Generate runs one image through the model with the style's instruction.
// The flow is strictly linear; any failure is terminal for the invocation.
func (g *Generator) Generate(ctx context.Context, img *imaging.Image, style Style) (string, error) {
	text, err := g.model.Describe(ctx, style.Instruction(), img)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
