// Package document resolves every definition of an executable GraphQL
// document: each operation yields a response shape and variable shapes, each
// fragment definition yields the shape of its selection set on its own type
// condition. Definitions are independent and resolve in parallel.
package document

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	language "github.com/hanpama/gqlshape/internal/language"
	reqid "github.com/hanpama/gqlshape/internal/reqid"
	schema "github.com/hanpama/gqlshape/internal/schema"
	shape "github.com/hanpama/gqlshape/internal/shape"
)

// AnonymousOperation is the name given to an operation without one.
const AnonymousOperation = "Anonymous"

// Operation is the resolved form of one operation definition.
type Operation struct {
	Name              string                 `json:"name"`
	Operation         string                 `json:"operation"`
	TypeName          string                 `json:"typeName"`
	VariablesTypeName string                 `json:"variablesTypeName"`
	Variables         []*shape.VariableShape `json:"variables"`
	Shape             *shape.ResolvedShape   `json:"shape"`
}

// Fragment is the resolved form of one fragment definition.
type Fragment struct {
	Name          string               `json:"name"`
	TypeCondition string               `json:"typeCondition"`
	Shape         *shape.ResolvedShape `json:"shape"`
}

// Result holds the definitions of one document in source order.
type Result struct {
	Source     string       `json:"source"`
	Operations []*Operation `json:"operations"`
	Fragments  []*Fragment  `json:"fragments"`
}

// Resolver resolves documents against one schema. It is safe for concurrent use.
type Resolver struct {
	sch *schema.Schema
	opt Options
}

func New(sch *schema.Schema, opts ...Option) *Resolver {
	op := Options{Config: shape.NewConfig()}
	for _, f := range opts {
		f(&op)
	}
	return &Resolver{sch: sch, opt: op}
}

// Resolve parses source and resolves its definitions. Fragments from extra
// are available to spreads in addition to the document's own; extra
// fragments are not resolved themselves. The first failing definition
// cancels the rest and is returned as a *DefinitionError.
func (r *Resolver) Resolve(ctx context.Context, name, source string, extra ...*shape.Fragment) (*Result, error) {
	doc, err := language.ParseQuery(name, source)
	if err != nil {
		return nil, err
	}
	if r.opt.ValidateAgainst != nil {
		if err := language.ValidateQuery(r.opt.ValidateAgainst, doc); err != nil {
			return nil, err
		}
	}
	return r.ResolveDocument(ctx, name, doc, extra...)
}

// ResolveDocument resolves an already parsed document.
func (r *Resolver) ResolveDocument(ctx context.Context, name string, doc *language.QueryDocument, extra ...*shape.Fragment) (*Result, error) {
	if _, ok := reqid.FromContext(ctx); !ok {
		ctx, _ = reqid.NewContext(ctx)
	}
	start := time.Now()
	eventbus.Publish(ctx, events.DocumentStart{Source: name, Definitions: len(doc.Operations) + len(doc.Fragments)})

	fragments := append(shape.FragmentsFromDocument(doc.Fragments), extra...)
	res := &Result{
		Source:     name,
		Operations: make([]*Operation, len(doc.Operations)),
		Fragments:  make([]*Fragment, len(doc.Fragments)),
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.opt.Concurrency > 0 {
		g.SetLimit(r.opt.Concurrency)
	}
	for i, op := range doc.Operations {
		g.Go(func() error {
			out, err := r.resolveOperation(gctx, name, i, op, fragments)
			if err != nil {
				return err
			}
			res.Operations[i] = out
			return nil
		})
	}
	for i, def := range doc.Fragments {
		g.Go(func() error {
			out, err := r.resolveFragment(gctx, name, len(doc.Operations)+i, def, fragments)
			if err != nil {
				return err
			}
			res.Fragments[i] = out
			return nil
		})
	}
	err := g.Wait()
	eventbus.Publish(ctx, events.DocumentFinish{Source: name, Err: err, Duration: time.Since(start)})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolveOperation(ctx context.Context, source string, index int, op *language.OperationDefinition, fragments []*shape.Fragment) (*Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := op.Name
	if name == "" {
		name = AnonymousOperation
	}
	kind := string(op.Operation)
	if kind == "" {
		kind = string(language.Query)
	}

	start := time.Now()
	eventbus.Publish(ctx, events.ResolveStart{Source: source, Index: index, Definition: name, Kind: events.DefinitionKind(kind)})
	out, err := r.buildOperation(name, kind, op, fragments)
	finish := events.ResolveFinish{Source: source, Index: index, Definition: name, Kind: events.DefinitionKind(kind), Err: err, Duration: time.Since(start)}
	if out != nil {
		finish.Members = len(out.Shape.Members)
	}
	eventbus.Publish(ctx, finish)
	if err != nil {
		return nil, &DefinitionError{Source: source, Definition: kind + " " + name, Position: op.Position, Err: err}
	}
	return out, nil
}

func (r *Resolver) buildOperation(name, kind string, op *language.OperationDefinition, fragments []*shape.Fragment) (*Operation, error) {
	cfg := r.opt.Config
	resolved, err := shape.ResolveOperation(op, r.sch, fragments, cfg)
	if err != nil {
		return nil, err
	}
	vars, err := shape.ResolveVariables(op.VariableDefinitions, r.sch, cfg)
	if err != nil {
		return nil, err
	}
	return &Operation{
		Name:              name,
		Operation:         kind,
		TypeName:          cfg.Naming.OperationTypeName(name, kind),
		VariablesTypeName: cfg.Naming.VariablesTypeName(name, kind),
		Variables:         vars,
		Shape:             resolved,
	}, nil
}

func (r *Resolver) resolveFragment(ctx context.Context, source string, index int, def *language.FragmentDefinition, fragments []*shape.Fragment) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	eventbus.Publish(ctx, events.ResolveStart{Source: source, Index: index, Definition: def.Name, Kind: events.FragmentDefinition})
	resolved, err := shape.ResolveFragment(def.Name, r.sch, fragments, r.opt.Config)
	finish := events.ResolveFinish{Source: source, Index: index, Definition: def.Name, Kind: events.FragmentDefinition, Err: err, Duration: time.Since(start)}
	if resolved != nil {
		finish.Members = len(resolved.Members)
	}
	eventbus.Publish(ctx, finish)
	if err != nil {
		return nil, &DefinitionError{Source: source, Definition: fmt.Sprintf("fragment %s", def.Name), Position: def.Position, Err: err}
	}
	return &Fragment{Name: def.Name, TypeCondition: def.TypeCondition, Shape: resolved}, nil
}
