// Package generator abstracts the external text-generation capability the
// pipeline orchestrates. The contract is deliberately thin: a prompt goes
// in, text comes out, and nothing about the output's shape, language or
// formatting is guaranteed. Every caller parses defensively.
package generator

import (
	"context"
)

// Generator produces free-form text from a prompt. Implementations must
// return an error wrapping domain.ErrGeneration on network, quota or
// service failure. The returned text may contain markdown fences, extra
// prose or any other drift; callers must strip and validate.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Generator interface; handy in tests.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
