package document

import (
	language "github.com/hanpama/gqlshape/internal/language"
	shape "github.com/hanpama/gqlshape/internal/shape"
)

// Options configures a Resolver.
//
// Defaults:
// - Config:      shape.NewConfig()
// - Validation:  off; documents are only parsed
// - Concurrency: unlimited
type Options struct {
	Config shape.Config

	// ValidateAgainst enables the standard gqlparser validation rules for
	// every document. The schema must be the one the Resolver was built from.
	ValidateAgainst *language.ASTSchema

	// Concurrency limits how many definitions resolve at once. 0 means no limit.
	Concurrency int
}

type Option func(*Options)

func WithConfig(cfg shape.Config) Option { return func(o *Options) { o.Config = cfg } }
func WithConcurrency(n int) Option       { return func(o *Options) { o.Concurrency = n } }
func WithValidation(s *language.ASTSchema) Option {
	return func(o *Options) { o.ValidateAgainst = s }
}
