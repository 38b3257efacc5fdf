package shape

import (
	"fmt"

	naming "github.com/hanpama/gqlshape/internal/naming"
)

// InlineFragmentMode selects how fragment spreads appear in a shape.
type InlineFragmentMode string

const (
	// InlineFragmentsInline merges fragment fields into the surrounding shape.
	InlineFragmentsInline InlineFragmentMode = "inline"
	// InlineFragmentsCombine keeps fragments as named references that the
	// renderer intersects with the locally selected fields.
	InlineFragmentsCombine InlineFragmentMode = "combine"
)

func ParseInlineFragmentMode(s string) (InlineFragmentMode, error) {
	switch m := InlineFragmentMode(s); m {
	case "":
		return InlineFragmentsInline, nil
	case InlineFragmentsInline, InlineFragmentsCombine:
		return m, nil
	}
	return "", fmt.Errorf("unknown inline fragment mode %q", s)
}

// AvoidOptionals selects which entries may be emitted as optional.
type AvoidOptionals string

const (
	// AvoidOptionalsNone: a variable is optional when it is nullable or has a
	// default; a conditionally included field is optional.
	AvoidOptionalsNone AvoidOptionals = "none"
	// AvoidOptionalsDefaultValue: variables with a default value are required.
	AvoidOptionalsDefaultValue AvoidOptionals = "defaultValue"
	// AvoidOptionalsInputs: no variable is optional.
	AvoidOptionalsInputs AvoidOptionals = "inputValue"
	// AvoidOptionalsAll: nothing is optional; conditional fields become nullable.
	AvoidOptionalsAll AvoidOptionals = "all"
)

func ParseAvoidOptionals(s string) (AvoidOptionals, error) {
	switch p := AvoidOptionals(s); p {
	case "":
		return AvoidOptionalsNone, nil
	case AvoidOptionalsNone, AvoidOptionalsDefaultValue, AvoidOptionalsInputs, AvoidOptionalsAll:
		return p, nil
	}
	return "", fmt.Errorf("unknown avoidOptionals policy %q", s)
}

// Config carries the options recognized by the engine. The zero value inlines
// fragments, adds no typename and keeps names unchanged.
type Config struct {
	AddTypename         bool
	NonOptionalTypename bool
	SkipTypenameForRoot bool
	InlineFragmentTypes InlineFragmentMode
	AvoidOptionals      AvoidOptionals
	Naming              naming.Policy
}

type Option func(*Config)

func WithAddTypename() Option         { return func(c *Config) { c.AddTypename = true } }
func WithNonOptionalTypename() Option { return func(c *Config) { c.NonOptionalTypename = true } }
func WithSkipTypenameForRoot() Option { return func(c *Config) { c.SkipTypenameForRoot = true } }
func WithInlineFragments(m InlineFragmentMode) Option {
	return func(c *Config) { c.InlineFragmentTypes = m }
}
func WithAvoidOptionals(p AvoidOptionals) Option {
	return func(c *Config) { c.AvoidOptionals = p }
}
func WithNaming(p naming.Policy) Option { return func(c *Config) { c.Naming = p } }

// NewConfig starts from inline fragments, no avoided optionals and the
// default naming policy, then applies opts.
func NewConfig(opts ...Option) Config {
	c := Config{
		InlineFragmentTypes: InlineFragmentsInline,
		AvoidOptionals:      AvoidOptionalsNone,
		Naming:              naming.Default(),
	}
	for _, f := range opts {
		f(&c)
	}
	return c
}

func (c Config) combineFragments() bool { return c.InlineFragmentTypes == InlineFragmentsCombine }
