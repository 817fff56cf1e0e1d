package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSqliteStore(t *testing.T) *SqliteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relations.db")
	store, err := NewSqliteStore(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewSqliteStore_InvalidPath(t *testing.T) {
	_, err := NewSqliteStore("/nonexistent/dir/relations.db", false)
	assert.Error(t, err)
}

func TestSqliteStore_SaveAndExists(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	rel := testRelation("a-1", "d-1", graph.RelationTypeContains)
	ok, err := store.Save(ctx, rel)
	require.NoError(t, err)
	assert.True(t, ok)

	exists, err := store.Exists(ctx, rel.From, rel.To, rel.Type)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, rel.From, rel.To, "Unknown")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSqliteStore_Save_UpsertTypeGroup(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	rel := testRelation("a-1", "d-1", graph.RelationTypeContains)
	_, err := store.Save(ctx, rel)
	require.NoError(t, err)

	rel.TypeGroup = graph.TypeGroupAlarm
	_, err = store.Save(ctx, rel)
	require.NoError(t, err)

	found, err := store.FindAllByFrom(ctx, rel.From)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, graph.TypeGroupAlarm, found[0].TypeGroup)
}

func TestSqliteStore_Save_DefaultTypeGroup(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	rel := testRelation("a-1", "d-1", graph.RelationTypeContains)
	_, err := store.Save(ctx, rel)
	require.NoError(t, err)

	found, err := store.FindAllByFrom(ctx, rel.From)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, graph.TypeGroupCommon, found[0].TypeGroup)
}

func TestSqliteStore_Delete(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	rel := testRelation("a-1", "d-1", graph.RelationTypeContains)
	_, err := store.Save(ctx, rel)
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, rel)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, rel)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSqliteStore_FindEndpointLookups(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	root := graph.EntityID{EntityType: graph.EntityTypeAsset, ID: "a-1"}
	device := graph.EntityID{EntityType: graph.EntityTypeDevice, ID: "d-1"}
	user := graph.EntityID{EntityType: graph.EntityTypeUser, ID: "u-1"}

	rels := []graph.Relation{
		{From: root, To: device, Type: graph.RelationTypeContains},
		{From: root, To: user, Type: graph.RelationTypeManages},
		{From: user, To: device, Type: graph.RelationTypeManages},
	}
	for _, rel := range rels {
		_, err := store.Save(ctx, rel)
		require.NoError(t, err)
	}

	found, err := store.FindAllByFrom(ctx, root)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = store.FindAllByFromAndType(ctx, root, graph.RelationTypeContains)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, device, found[0].To)

	found, err = store.FindAllByTo(ctx, device)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = store.FindAllByToAndType(ctx, device, graph.RelationTypeContains)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, root, found[0].From)
}

func TestSqliteStore_DeleteOutbound(t *testing.T) {
	store := newTestSqliteStore(t)
	ctx := context.Background()

	root := graph.EntityID{EntityType: graph.EntityTypeAsset, ID: "a-1"}
	rels := []graph.Relation{
		{From: root, To: graph.EntityID{EntityType: graph.EntityTypeDevice, ID: "d-1"}, Type: graph.RelationTypeContains},
		{From: root, To: graph.EntityID{EntityType: graph.EntityTypeDevice, ID: "d-2"}, Type: graph.RelationTypeContains},
		{From: graph.EntityID{EntityType: graph.EntityTypeTenant, ID: "t-1"}, To: root, Type: graph.RelationTypeContains},
	}
	for _, rel := range rels {
		_, err := store.Save(ctx, rel)
		require.NoError(t, err)
	}

	ok, err := store.DeleteOutbound(ctx, root)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := store.FindAllByFrom(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = store.FindAllByTo(ctx, root)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestSqliteStore_WALMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relations-wal.db")
	store, err := NewSqliteStore(path, true)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Save(context.Background(), testRelation("a-1", "d-1", graph.RelationTypeContains))
	assert.NoError(t, err)
}
