// Package config reads the YAML file accepted by the gqlshape command.
//
//	schema: [schema.graphql]
//	documents: [queries/*.graphql]
//	addTypename: true
//	inlineFragmentTypes: combine
//	avoidOptionals: defaultValue
//	namingConvention: pascal-case
//	typesPrefix: Gql
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	naming "github.com/hanpama/gqlshape/internal/naming"
	shape "github.com/hanpama/gqlshape/internal/shape"
)

// File mirrors the configuration file. Empty strings select defaults.
type File struct {
	Schema    []string `yaml:"schema"`
	Documents []string `yaml:"documents"`

	AddTypename         bool   `yaml:"addTypename"`
	NonOptionalTypename bool   `yaml:"nonOptionalTypename"`
	SkipTypenameForRoot bool   `yaml:"skipTypeNameForRoot"`
	InlineFragmentTypes string `yaml:"inlineFragmentTypes"`
	AvoidOptionals      string `yaml:"avoidOptionals"`

	NamingConvention      string `yaml:"namingConvention"`
	TypesPrefix           string `yaml:"typesPrefix"`
	TypesSuffix           string `yaml:"typesSuffix"`
	FragmentSuffix        string `yaml:"fragmentSuffix"`
	DedupeOperationSuffix bool   `yaml:"dedupeOperationSuffix"`
	DedupeFragmentSuffix  bool   `yaml:"dedupeFragmentSuffix"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML, rejecting unknown keys. An empty document yields the
// zero File.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// ShapeConfig validates the enumerated values and builds the engine options.
func (f *File) ShapeConfig() (shape.Config, error) {
	mode, err := shape.ParseInlineFragmentMode(f.InlineFragmentTypes)
	if err != nil {
		return shape.Config{}, err
	}
	avoid, err := shape.ParseAvoidOptionals(f.AvoidOptionals)
	if err != nil {
		return shape.Config{}, err
	}
	policy, err := f.NamingPolicy()
	if err != nil {
		return shape.Config{}, err
	}

	opts := []shape.Option{
		shape.WithInlineFragments(mode),
		shape.WithAvoidOptionals(avoid),
		shape.WithNaming(policy),
	}
	if f.AddTypename {
		opts = append(opts, shape.WithAddTypename())
	}
	if f.NonOptionalTypename {
		opts = append(opts, shape.WithNonOptionalTypename())
	}
	if f.SkipTypenameForRoot {
		opts = append(opts, shape.WithSkipTypenameForRoot())
	}
	return shape.NewConfig(opts...), nil
}

// NamingPolicy builds the naming policy. The convention defaults to
// pascal-case.
func (f *File) NamingPolicy() (naming.Policy, error) {
	policy := naming.Default()
	if f.NamingConvention != "" {
		c, err := naming.ParseConvention(f.NamingConvention)
		if err != nil {
			return naming.Policy{}, err
		}
		policy.Convention = c
	}
	policy.TypePrefix = f.TypesPrefix
	policy.TypeSuffix = f.TypesSuffix
	if f.FragmentSuffix != "" {
		policy.FragmentSuffix = f.FragmentSuffix
	}
	policy.DedupeOperationSuffix = f.DedupeOperationSuffix
	policy.DedupeFragmentSuffix = f.DedupeFragmentSuffix
	return policy, nil
}
