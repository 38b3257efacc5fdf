package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

const petsSDL = `
type Query {
  node(id: ID!): Node
  pet: Pet
  search(term: String!): [SearchResult!]!
  dog: Dog
  viewer: User!
  pets(filter: PetFilter, color: Color, first: Int): [Pet]
}

type Mutation {
  renameDog(id: ID!, name: String!): Dog
}

interface Node {
  id: ID!
}

type Dog implements Node {
  id: ID!
  name: String
  barks: Boolean
  owner: User
}

type Cat implements Node {
  id: ID!
  name: String
  meows: Boolean
}

type User implements Node {
  id: ID!
  login: String!
  pets: [Node!]!
}

union Pet = Dog | Cat

union SearchResult = Dog | Cat

enum Color {
  BROWN
  BLACK
}

input PetFilter {
  name: String
  color: Color
}
`

func mustSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL(petsSDL)
	require.NoError(t, err)
	return sch
}

func mustParseQuery(t *testing.T, src string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery("query.graphql", src)
	require.NoError(t, err)
	return doc
}

// resolveQuery resolves the first operation of src against petsSDL.
func resolveQuery(t *testing.T, src string, cfg Config) (*ResolvedShape, error) {
	t.Helper()
	sch := mustSchema(t)
	doc := mustParseQuery(t, src)
	require.NotEmpty(t, doc.Operations)
	return ResolveOperation(doc.Operations[0], sch, FragmentsFromDocument(doc.Fragments), cfg)
}

func mustResolveQuery(t *testing.T, src string, cfg Config) *ResolvedShape {
	t.Helper()
	shape, err := resolveQuery(t, src, cfg)
	require.NoError(t, err)
	return shape
}

// link returns the nested shape of the link field responseName on the single
// shape of s.
func link(t *testing.T, s *ResolvedShape, responseName string) *ResolvedShape {
	t.Helper()
	single := s.Single()
	require.NotNil(t, single, "expected a single shape on %s", s.ParentType)
	f := single.Field(responseName)
	require.NotNil(t, f, "field %s missing on %s", responseName, s.ParentType)
	require.Equal(t, LinkField, f.Kind)
	return f.Shape
}

func responseNames(a *ShapeAlternative) []string {
	names := make([]string, 0, len(a.Fields))
	for _, f := range a.Fields {
		names = append(names, f.ResponseName())
	}
	return names
}

func memberTypes(s *ResolvedShape) []string {
	names := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		names = append(names, m.TypeName)
	}
	return names
}
