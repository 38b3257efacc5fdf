package shape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypename(t *testing.T) {
	const query = `{ dog { id } pet { ... on Cat { meows } } }`

	t.Run("off by default", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig())
		require.Nil(t, got.Single().Field("__typename"))
		require.Equal(t, []string{"id"}, responseNames(link(t, got, "dog").Single()))
	})

	t.Run("added first and optional", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig(WithAddTypename()))
		dog := link(t, got, "dog").Single()
		require.Equal(t, []string{"__typename", "id"}, responseNames(dog))
		tn := dog.Fields[0]
		require.Equal(t, TypenameField, tn.Kind)
		require.Equal(t, "Dog", tn.Value)
		require.True(t, tn.Optional)
		require.False(t, tn.Nullable)
		require.Equal(t, "String!", tn.Type.String())

		cat := link(t, got, "pet").Member("Cat")
		require.Equal(t, "Cat", cat.Field("__typename").Value)
		require.NotNil(t, got.Single().Field("__typename"))
	})

	t.Run("non-optional", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig(WithNonOptionalTypename()))
		tn := link(t, got, "dog").Single().Field("__typename")
		require.NotNil(t, tn)
		require.False(t, tn.Optional)
	})

	t.Run("skipped for root", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig(WithAddTypename(), WithSkipTypenameForRoot()))
		require.Nil(t, got.Single().Field("__typename"))
		require.NotNil(t, link(t, got, "dog").Single().Field("__typename"))
	})

	t.Run("explicit selection is kept in place", func(t *testing.T) {
		got := mustResolveQuery(t, `{ dog { id __typename } }`, NewConfig(WithAddTypename()))
		dog := link(t, got, "dog").Single()
		require.Equal(t, []string{"id", "__typename"}, responseNames(dog))
		require.False(t, dog.Field("__typename").Optional)
	})

	t.Run("aliased typename does not replace the implicit one", func(t *testing.T) {
		got := mustResolveQuery(t, `{ dog { kind: __typename } }`, NewConfig(WithAddTypename()))
		dog := link(t, got, "dog").Single()
		require.Equal(t, []string{"__typename", "kind"}, responseNames(dog))
		require.Equal(t, TypenameField, dog.Field("kind").Kind)
		require.Equal(t, "Dog", dog.Field("kind").Value)
	})
}

func TestSkipInclude(t *testing.T) {
	const query = `
		query ($x: Boolean!) {
			dog {
				id @include(if: $x)
				name @skip(if: true)
				barks @include(if: false)
				owner @skip(if: false) { login }
				... on Dog @skip(if: true) { name }
				... @include(if: $x) { barks }
			}
		}
	`

	t.Run("literal and variable arguments", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig())
		dog := link(t, got, "dog").Single()
		require.Equal(t, []string{"id", "owner", "barks"}, responseNames(dog))
		require.True(t, dog.Field("id").Optional)
		require.False(t, dog.Field("id").Nullable)
		require.False(t, dog.Field("owner").Optional)
		require.True(t, dog.Field("barks").Optional)
	})

	t.Run("avoid all optionals makes conditional fields nullable", func(t *testing.T) {
		got := mustResolveQuery(t, query, NewConfig(WithAvoidOptionals(AvoidOptionalsAll)))
		id := link(t, got, "dog").Single().Field("id")
		require.False(t, id.Optional)
		require.True(t, id.Nullable)
	})

	t.Run("unconditional occurrence wins", func(t *testing.T) {
		got := mustResolveQuery(t, `query ($x: Boolean!) { dog { id @include(if: $x) id } }`, NewConfig())
		require.False(t, link(t, got, "dog").Single().Field("id").Optional)
	})

	t.Run("conditional spread", func(t *testing.T) {
		got := mustResolveQuery(t, `
			query ($x: Boolean!) { dog { ...F @include(if: $x) ...G @skip(if: true) } }
			fragment F on Dog { name }
			fragment G on Dog { barks }
		`, NewConfig())
		dog := link(t, got, "dog").Single()
		require.Equal(t, []string{"name"}, responseNames(dog))
		require.True(t, dog.Field("name").Optional)
	})

	t.Run("conditional link", func(t *testing.T) {
		got := mustResolveQuery(t, `query ($x: Boolean!) { dog @include(if: $x) { id } }`, NewConfig())
		dog := got.Single().Field("dog")
		require.True(t, dog.Optional)
		// Conditions do not leak into the nested shape.
		require.False(t, dog.Shape.Single().Field("id").Optional)
	})

	t.Run("conditional copy of a merged link", func(t *testing.T) {
		const query = `query ($x: Boolean!) {
  node(id: "1") {
    ... on Dog { owner { id } }
    ... on Dog @include(if: $x) { owner { login } }
  }
}`
		got := mustResolveQuery(t, query, NewConfig())
		owner := got.Member("Dog").Field("owner")
		require.False(t, owner.Optional)
		nested := owner.Shape.Single()
		require.Equal(t, []string{"id", "login"}, responseNames(nested))
		require.False(t, nested.Field("id").Optional)
		require.True(t, nested.Field("login").Optional)
	})

	t.Run("conditional spread into a merged link", func(t *testing.T) {
		const query = `query ($x: Boolean!) {
  dog { owner { id } ...OwnerLogin @skip(if: $x) }
}
fragment OwnerLogin on Dog { owner { id login } }`
		got := mustResolveQuery(t, query, NewConfig())
		owner := link(t, got, "dog").Single().Field("owner")
		require.False(t, owner.Optional)
		nested := owner.Shape.Single()
		// id is also selected unconditionally.
		require.False(t, nested.Field("id").Optional)
		require.True(t, nested.Field("login").Optional)

		got = mustResolveQuery(t, query, NewConfig(WithAvoidOptionals(AvoidOptionalsAll)))
		login := link(t, link(t, got, "dog"), "owner").Single().Field("login")
		require.False(t, login.Optional)
		require.True(t, login.Nullable)
	})

	t.Run("every copy conditional", func(t *testing.T) {
		const query = `query ($x: Boolean!, $y: Boolean!) {
  dog { owner @include(if: $x) { id } owner @include(if: $y) { login } }
}`
		got := mustResolveQuery(t, query, NewConfig())
		owner := link(t, got, "dog").Single().Field("owner")
		require.True(t, owner.Optional)
		nested := owner.Shape.Single()
		require.False(t, nested.Field("id").Optional)
		require.False(t, nested.Field("login").Optional)
	})
}

func TestBuildShape_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, err error)
	}{
		{
			name:  "unknown field",
			query: `{ dog { tail } }`,
			check: func(t *testing.T, err error) {
				var e *FieldNotFoundError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "Dog", e.Type)
				require.Equal(t, "tail", e.Field)
			},
		},
		{
			name:  "unknown nested field keeps its path",
			query: `{ dog { owner { email } } }`,
			check: func(t *testing.T, err error) {
				var e *FieldNotFoundError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "User", e.Type)
				require.Contains(t, err.Error(), "Query.dog: Dog.owner:")
			},
		},
		{
			name:  "field missing on one member",
			query: `{ node(id: "1") { login } }`,
			check: func(t *testing.T, err error) {
				var e *FieldNotFoundError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "Dog", e.Type)
			},
		},
		{
			name:  "selection on leaf",
			query: `{ dog { name { length } } }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:  "composite without selection",
			query: `{ dog }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "Query", e.Type)
			},
		},
		{
			name:  "inline fragment that can never match",
			query: `{ dog { ... on Cat { meows } } }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "Dog", e.Type)
			},
		},
		{
			name:  "object condition outside the union",
			query: `{ pet { ... on User { login } } }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "Pet", e.Type)
			},
		},
		{
			name:  "inline fragment on scalar type",
			query: `{ dog { ... on String { x } } }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
				require.Equal(t, "String", e.Type)
			},
		},
		{
			name:  "alias reused for different fields",
			query: `{ dog { x: name x: barks } }`,
			check: func(t *testing.T, err error) {
				var e *MalformedSelectionError
				require.ErrorAs(t, err, &e)
			},
		},
		{
			name:  "meta field off the root",
			query: `{ dog { __schema { description } } }`,
			check: func(t *testing.T, err error) {
				var e *FieldNotFoundError
				require.ErrorAs(t, err, &e)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveQuery(t, tt.query, NewConfig())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestInlineFragmentNarrowing(t *testing.T) {
	got := mustResolveQuery(t, `
		{
			node(id: "1") {
				... on Pet { ... on Dog { barks } }
				... on Node { id }
				... on Cat { ... on Node { name: id } }
			}
		}
	`, NewConfig())
	node := link(t, got, "node")
	require.Equal(t, []string{"Dog", "Cat", "User"}, memberTypes(node))
	require.Equal(t, []string{"barks", "id"}, responseNames(node.Member("Dog")))
	require.Equal(t, []string{"id", "name"}, responseNames(node.Member("Cat")))
	require.Equal(t, []string{"id"}, responseNames(node.Member("User")))
}
