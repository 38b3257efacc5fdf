package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	language "github.com/hanpama/gqlshape/internal/language"
	reqid "github.com/hanpama/gqlshape/internal/reqid"
	schema "github.com/hanpama/gqlshape/internal/schema"
	shape "github.com/hanpama/gqlshape/internal/shape"
)

func loadSchema(t *testing.T) (*schema.Schema, *language.ASTSchema) {
	t.Helper()
	src := &language.Source{Name: "schema.graphql", Input: mustReadFile(t, "testdata/schema.graphql")}
	ast, err := language.LoadSchema(src)
	require.NoError(t, err)
	return schema.BuildFromAST(ast), ast
}

func TestResolveSnapshot(t *testing.T) {
	sch, ast := loadSchema(t)
	r := New(sch, WithValidation(ast), WithConfig(shape.NewConfig(shape.WithAddTypename())))

	res, err := r.Resolve(context.Background(), "operations.graphql", mustReadFile(t, "testdata/operations.graphql"))
	require.NoError(t, err)

	actual, err := json.MarshalIndent(res, "", "  ")
	require.NoError(t, err)

	snapshotPath := filepath.Join("testdata", "operations_snapshot.json")

	// If snapshot doesn't exist, create it
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		err := os.WriteFile(snapshotPath, actual, 0644)
		require.NoError(t, err, "failed to write snapshot file")
		t.Logf("Created snapshot file: %s", snapshotPath)
		return
	}

	expected, err := os.ReadFile(snapshotPath)
	require.NoError(t, err, "failed to read snapshot file")

	if diff := cmp.Diff(string(expected), string(actual)); diff != "" {
		t.Errorf("Resolution snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Definitions(t *testing.T) {
	sch, _ := loadSchema(t)
	res, err := New(sch).Resolve(context.Background(), "operations.graphql", mustReadFile(t, "testdata/operations.graphql"))
	require.NoError(t, err)

	require.Equal(t, "operations.graphql", res.Source)
	require.Len(t, res.Operations, 3)
	require.Len(t, res.Fragments, 2)

	viewer := res.Operations[0]
	require.Equal(t, "GetViewer", viewer.Name)
	require.Equal(t, "query", viewer.Operation)
	require.Equal(t, "GetViewerQuery", viewer.TypeName)
	require.Equal(t, "GetViewerQueryVariables", viewer.VariablesTypeName)
	require.Len(t, viewer.Variables, 1)
	require.False(t, viewer.Variables[0].Optional)

	pets := viewer.Shape.Single().Field("viewer").Shape.Single().Field("pets")
	require.True(t, pets.Optional)
	require.Equal(t, shape.AlternationShape, pets.Shape.Kind)

	// Without dedupe the suffix is appended even when the name already ends with it.
	require.Equal(t, "PetsQueryQuery", res.Operations[1].TypeName)
	require.True(t, res.Operations[1].Variables[0].Optional)

	adopt := res.Operations[2]
	require.Equal(t, "mutation", adopt.Operation)
	require.Equal(t, "AdoptMutation", adopt.TypeName)
	require.Equal(t, "Mutation", adopt.Shape.ParentType)

	petFields := res.Fragments[0]
	require.Equal(t, "PetFields", petFields.Name)
	require.Equal(t, "Pet", petFields.TypeCondition)
	require.Equal(t, "PetFields_Dog_Fragment", petFields.Shape.Member("Dog").Name)

	require.Equal(t, "NodeId", res.Fragments[1].Name)
	require.Len(t, res.Fragments[1].Shape.Members, 3)
}

func TestResolve_DedupeAndAnonymous(t *testing.T) {
	sch, _ := loadSchema(t)
	cfg := shape.NewConfig()
	cfg.Naming.DedupeOperationSuffix = true
	res, err := New(sch, WithConfig(cfg)).Resolve(context.Background(), "q.graphql", `
		query PetsQuery { pets { ... on Dog { id } } }
		{ viewer { login } }
	`)
	require.NoError(t, err)
	require.Equal(t, "PetsQuery", res.Operations[0].TypeName)
	require.Equal(t, AnonymousOperation, res.Operations[1].Name)
	require.Equal(t, "AnonymousQuery", res.Operations[1].TypeName)
}

func TestResolve_ExtraFragments(t *testing.T) {
	sch, _ := loadSchema(t)
	lib, err := language.ParseQuery("lib.graphql", `fragment UserLogin on User { login }`)
	require.NoError(t, err)

	res, err := New(sch).Resolve(context.Background(), "q.graphql", `query Me { viewer { ...UserLogin } }`,
		shape.FragmentsFromDocument(lib.Fragments)...)
	require.NoError(t, err)
	require.Empty(t, res.Fragments)
	viewer := res.Operations[0].Shape.Single().Field("viewer").Shape.Single()
	require.NotNil(t, viewer.Field("login"))
}

func TestResolve_Errors(t *testing.T) {
	sch, ast := loadSchema(t)

	t.Run("syntax", func(t *testing.T) {
		_, err := New(sch).Resolve(context.Background(), "bad.graphql", `query {`)
		require.Error(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := New(sch, WithValidation(ast)).Resolve(context.Background(), "bad.graphql", `{ viewer { email } }`)
		require.Error(t, err)
	})

	t.Run("definition", func(t *testing.T) {
		_, err := New(sch, WithConcurrency(1)).Resolve(context.Background(), "bad.graphql", "query Ok { viewer { login } }\nquery Broken { viewer { email } }")
		var defErr *DefinitionError
		require.ErrorAs(t, err, &defErr)
		require.Equal(t, "query Broken", defErr.Definition)
		require.Equal(t, 2, defErr.Position.Line)
		require.Contains(t, defErr.Error(), "bad.graphql:2:1")

		var notFound *shape.FieldNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "email", notFound.Field)
	})

	t.Run("fragment", func(t *testing.T) {
		_, err := New(sch).Resolve(context.Background(), "bad.graphql", `fragment F on User { ...Missing }`)
		var defErr *DefinitionError
		require.ErrorAs(t, err, &defErr)
		require.Equal(t, "fragment F", defErr.Definition)
		var unknown *shape.UnknownFragmentError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(sch).Resolve(ctx, "q.graphql", `{ viewer { login } }`)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolve_Events(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	var mu sync.Mutex
	var finished []events.ResolveFinish
	runs := map[string]bool{}
	var docs []events.DocumentFinish
	eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
		mu.Lock()
		defer mu.Unlock()
		finished = append(finished, e)
		rid, _ := reqid.FromContext(ctx)
		runs[rid] = true
	})
	eventbus.Subscribe(func(_ context.Context, e events.DocumentFinish) {
		mu.Lock()
		defer mu.Unlock()
		docs = append(docs, e)
	})

	sch, _ := loadSchema(t)
	_, err := New(sch).Resolve(context.Background(), "operations.graphql", mustReadFile(t, "testdata/operations.graphql"))
	require.NoError(t, err)

	require.Len(t, finished, 5)
	require.Len(t, runs, 1)
	kinds := map[events.DefinitionKind]int{}
	for _, e := range finished {
		require.NoError(t, e.Err)
		require.Equal(t, "operations.graphql", e.Source)
		kinds[e.Kind]++
	}
	require.Equal(t, map[events.DefinitionKind]int{"query": 2, "mutation": 1, events.FragmentDefinition: 2}, kinds)
	indexes := map[int]string{}
	for _, e := range finished {
		indexes[e.Index] = e.Definition
	}
	require.Equal(t, map[int]string{0: "GetViewer", 1: "PetsQuery", 2: "Adopt", 3: "PetFields", 4: "NodeId"}, indexes)
	require.Len(t, docs, 1)
	require.NoError(t, docs[0].Err)
}

func mustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	return string(content)
}
