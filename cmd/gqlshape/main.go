package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/hanpama/gqlshape/internal/config"
	"github.com/hanpama/gqlshape/internal/document"
	"github.com/hanpama/gqlshape/internal/eventbus"
	"github.com/hanpama/gqlshape/internal/language"
	"github.com/hanpama/gqlshape/internal/logging"
	"github.com/hanpama/gqlshape/internal/otel"
	"github.com/hanpama/gqlshape/internal/schema"
	"github.com/hanpama/gqlshape/internal/shape"
)

const rootUsage = `gqlshape — GraphQL selection set shape resolver

USAGE:
  gqlshape <command> [flags]

COMMANDS:
  resolve          Resolve the operations and fragments of GraphQL documents into shapes
  schema           Load and validate SDL, print the normalized schema as JSON
  help             Show help for any command
`

const resolveUsage = `resolve FLAGS:
  -config <file>                  YAML configuration file
  -schema <file|glob>             GraphQL SDL source. Repeatable; adds to config "schema"
  -documents <file|glob>          GraphQL document. Repeatable; adds to config "documents"
  -out <file>                     Write JSON to file (default: stdout)
  -pretty                         Indent JSON output
  -validate                       Run GraphQL validation on each document (default: false)
  -concurrency N                  Definitions resolved at once per document (default: unlimited)
  -add-typename                   Add an optional __typename to every shape
  -non-optional-typename          Add a required __typename to every shape
  -skip-typename-for-root         Leave __typename off root operation types
  -inline-fragment-types <mode>   inline | combine (default: inline)
  -avoid-optionals <policy>       none | defaultValue | inputValue | all (default: none)
  -naming <convention>            keep | pascal-case | camel-case | snake-case |
                                  constant-case | kebab-case (default: pascal-case)
  -log.level <level>              debug | info | warn | error (default: warn)
  -otel.endpoint <addr>           OTLP collector endpoint
  -otel.service <name>            OpenTelemetry service name (default: gqlshape)
Flags override values from -config.
`

const schemaUsage = `schema FLAGS:
  -schema <file|glob>  GraphQL SDL source. Repeatable (required)
  -out <file>          Write JSON to file (default: stdout)
  (Validation always runs; exits non-zero on errors)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("gqlshape", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "resolve":
		return cmdResolve(cmdArgs)
	case "schema":
		return cmdSchema(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "resolve":
		fmt.Print(resolveUsage)
	case "schema":
		fmt.Print(schemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdResolve(args []string) error {
	configFile := ""
	outFile := ""
	pretty := false
	validate := false
	concurrency := 0
	addTypename := false
	nonOptionalTypename := false
	skipTypenameForRoot := false
	inlineFragmentTypes := ""
	avoidOptionals := ""
	namingConvention := ""
	logLevel := "warn"
	otelEndpoint := ""
	otelService := "gqlshape"
	var schemaFiles, documentFiles stringListFlag

	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configFile, "config", configFile, "YAML configuration file")
	fs.Var(&schemaFiles, "schema", "GraphQL SDL source")
	fs.Var(&documentFiles, "documents", "GraphQL document")
	fs.StringVar(&outFile, "out", outFile, "Write JSON to file")
	fs.BoolVar(&pretty, "pretty", pretty, "Indent JSON output")
	fs.BoolVar(&validate, "validate", validate, "Validate documents")
	fs.IntVar(&concurrency, "concurrency", concurrency, "Definitions resolved at once")
	fs.BoolVar(&addTypename, "add-typename", addTypename, "Add an optional __typename")
	fs.BoolVar(&nonOptionalTypename, "non-optional-typename", nonOptionalTypename, "Add a required __typename")
	fs.BoolVar(&skipTypenameForRoot, "skip-typename-for-root", skipTypenameForRoot, "Leave __typename off root types")
	fs.StringVar(&inlineFragmentTypes, "inline-fragment-types", inlineFragmentTypes, "inline or combine")
	fs.StringVar(&avoidOptionals, "avoid-optionals", avoidOptionals, "Optional avoidance policy")
	fs.StringVar(&namingConvention, "naming", namingConvention, "Naming convention")
	fs.StringVar(&logLevel, "log.level", logLevel, "Log level")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, resolveUsage)
		return err
	}

	file := &config.File{}
	if configFile != "" {
		var err error
		if file, err = config.Load(configFile); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	// Only flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "add-typename":
			file.AddTypename = addTypename
		case "non-optional-typename":
			file.NonOptionalTypename = nonOptionalTypename
		case "skip-typename-for-root":
			file.SkipTypenameForRoot = skipTypenameForRoot
		case "inline-fragment-types":
			file.InlineFragmentTypes = inlineFragmentTypes
		case "avoid-optionals":
			file.AvoidOptionals = avoidOptionals
		case "naming":
			file.NamingConvention = namingConvention
		}
	})
	file.Schema = append(file.Schema, schemaFiles...)
	file.Documents = append(file.Documents, documentFiles...)
	if len(file.Schema) == 0 || len(file.Documents) == 0 {
		fmt.Fprint(os.Stderr, resolveUsage)
		return fmt.Errorf("at least one -schema and one -documents source is required")
	}
	cfg, err := file.ShapeConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	defer logging.Attach(logger)()
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sources, err := readSources(file.Schema)
	if err != nil {
		return err
	}
	astSchema, err := language.LoadSchema(sources...)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	sch := schema.BuildFromAST(astSchema)

	docSources, err := readSources(file.Documents)
	if err != nil {
		return err
	}
	docs := make([]*language.QueryDocument, len(docSources))
	var fragments []*shape.Fragment
	for i, src := range docSources {
		doc, err := language.ParseQuery(src.Name, src.Input)
		if err != nil {
			return fmt.Errorf("parse %s: %w", src.Name, err)
		}
		if validate {
			if err := language.ValidateQuery(astSchema, doc); err != nil {
				return fmt.Errorf("validate %s: %w", src.Name, err)
			}
		}
		docs[i] = doc
		fragments = append(fragments, shape.FragmentsFromDocument(doc.Fragments)...)
	}

	resolver := document.New(sch, document.WithConfig(cfg), document.WithConcurrency(concurrency))
	results := make([]*document.Result, 0, len(docs))
	for i, doc := range docs {
		// Fragments of every document are visible to spreads in any of them.
		res, err := resolver.ResolveDocument(context.Background(), docSources[i].Name, doc, fragments...)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return writeJSON(outFile, results, pretty)
}

func cmdSchema(args []string) error {
	outFile := ""
	var schemaFiles stringListFlag
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.Var(&schemaFiles, "schema", "GraphQL SDL source")
	fs.StringVar(&outFile, "out", outFile, "Write JSON to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, schemaUsage)
		return err
	}
	if len(schemaFiles) == 0 {
		fmt.Fprint(os.Stderr, schemaUsage)
		return fmt.Errorf("-schema is required")
	}
	sources, err := readSources(schemaFiles)
	if err != nil {
		return err
	}
	sch, err := schema.Load(sources...)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	return writeJSON(outFile, sch, true)
}

// readSources expands globs and reads every matching file once, in sorted
// order per pattern.
func readSources(patterns []string) ([]*language.Source, error) {
	var sources []*language.Source
	seen := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		sort.Strings(matches)
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, &language.Source{Name: path, Input: string(data)})
		}
	}
	return sources, nil
}

func writeJSON(outFile string, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outFile, data, 0644)
}
