package core

import "context"

// GenerateOptions carries per-call sampling parameters. Zero values fall
// back to the provider's defaults.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Generator is the text-generation collaborator. GenerateObject asks the
// provider for a JSON object and unmarshals it into out; it fails when the
// call errors or the output does not parse.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)
	GenerateObject(ctx context.Context, messages []Message, out any) error
}
