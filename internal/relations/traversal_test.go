package relations

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/JamesPrial/relation-graph-core/internal/storage"
	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a relation store and counts endpoint lookups, so
// tests can assert how many times the traversal expanded a node.
type countingStore struct {
	storage.RelationStore
	fetches atomic.Int64
	mu      sync.Mutex
	failOn  map[graph.EntityID]error
}

func newCountingStore(inner storage.RelationStore) *countingStore {
	return &countingStore{RelationStore: inner, failOn: make(map[graph.EntityID]error)}
}

func (c *countingStore) failFetch(id graph.EntityID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failOn[id] = err
}

func (c *countingStore) FindAllByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error) {
	c.fetches.Add(1)
	c.mu.Lock()
	err := c.failOn[from]
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.RelationStore.FindAllByFrom(ctx, from)
}

func (c *countingStore) FindAllByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error) {
	c.fetches.Add(1)
	c.mu.Lock()
	err := c.failOn[to]
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.RelationStore.FindAllByTo(ctx, to)
}

func entity(id string) graph.EntityID {
	return graph.EntityID{EntityType: graph.EntityTypeGeneral, ID: id}
}

func edge(from, to string) graph.Relation {
	return graph.Relation{From: entity(from), To: entity(to), Type: graph.RelationTypeContains}
}

func seedGraph(t *testing.T, relations ...graph.Relation) *countingStore {
	t.Helper()
	inner := storage.NewMemoryStore()
	for _, rel := range relations {
		_, err := inner.Save(context.Background(), rel)
		require.NoError(t, err)
	}
	return newCountingStore(inner)
}

func keys(discovered map[graph.RelationKey]graph.Relation) []graph.RelationKey {
	result := make([]graph.RelationKey, 0, len(discovered))
	for key := range discovered {
		result = append(result, key)
	}
	return result
}

func TestTraverse_LevelZero_NoStoreAccess(t *testing.T) {
	store := seedGraph(t, edge("A", "B"))
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 0)
	require.NoError(t, err)
	assert.Empty(t, discovered)
	assert.Zero(t, store.fetches.Load())
}

func TestTraverse_SingleLevel(t *testing.T) {
	store := seedGraph(t,
		edge("A", "B"),
		edge("A", "C"),
		edge("B", "D"),
	)
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []graph.RelationKey{
		edge("A", "B").Key(),
		edge("A", "C").Key(),
	}, keys(discovered))
	// Only the root is expanded at level 1
	assert.Equal(t, int64(1), store.fetches.Load())
}

func TestTraverse_Acyclic_Unbounded(t *testing.T) {
	store := seedGraph(t,
		edge("A", "B"),
		edge("A", "C"),
		edge("B", "D"),
		edge("C", "D"),
		edge("D", "E"),
	)
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1<<30)
	require.NoError(t, err)

	assert.ElementsMatch(t, []graph.RelationKey{
		edge("A", "B").Key(),
		edge("A", "C").Key(),
		edge("B", "D").Key(),
		edge("C", "D").Key(),
		edge("D", "E").Key(),
	}, keys(discovered))

	// A, B, C, D, E each expanded exactly once, even though two paths
	// lead into D
	assert.Equal(t, int64(5), store.fetches.Load())
}

func TestTraverse_Cycle_Terminates(t *testing.T) {
	store := seedGraph(t,
		edge("A", "B"),
		edge("B", "C"),
		edge("C", "A"),
	)
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1<<30)
	require.NoError(t, err)

	assert.ElementsMatch(t, []graph.RelationKey{
		edge("A", "B").Key(),
		edge("B", "C").Key(),
		edge("C", "A").Key(),
	}, keys(discovered))

	// The root is pre-claimed, so the cycle edge back to A does not
	// trigger a second expansion
	assert.Equal(t, int64(3), store.fetches.Load())
}

func TestTraverse_DirectionTo(t *testing.T) {
	store := seedGraph(t,
		edge("A", "C"),
		edge("B", "C"),
		edge("X", "A"),
	)
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("C"), graph.DirectionTo, 1<<30)
	require.NoError(t, err)

	assert.ElementsMatch(t, []graph.RelationKey{
		edge("A", "C").Key(),
		edge("B", "C").Key(),
		edge("X", "A").Key(),
	}, keys(discovered))
}

func TestTraverse_EdgesIntoVisitedNodesAreKept(t *testing.T) {
	// Diamond: D is reachable through both B and C; only one branch
	// expands D but both edges must appear in the result.
	store := seedGraph(t,
		edge("A", "B"),
		edge("A", "C"),
		edge("B", "D"),
		edge("C", "D"),
	)
	tr := newTraverser(store, 4)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1<<30)
	require.NoError(t, err)

	assert.Contains(t, discovered, edge("B", "D").Key())
	assert.Contains(t, discovered, edge("C", "D").Key())
	assert.Equal(t, int64(4), store.fetches.Load())
}

func TestTraverse_StoreErrorFailsWholeTraversal(t *testing.T) {
	store := seedGraph(t,
		edge("A", "B"),
		edge("A", "C"),
		edge("B", "D"),
	)
	storeErr := fmt.Errorf("store unavailable")
	store.failFetch(entity("B"), storeErr)

	tr := newTraverser(store, 4)
	_, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1<<30)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestTraverse_ConcurrencyLimitOfOne(t *testing.T) {
	store := seedGraph(t,
		edge("A", "B"),
		edge("A", "C"),
		edge("B", "D"),
		edge("C", "E"),
	)
	tr := newTraverser(store, 1)

	discovered, err := tr.Traverse(context.Background(), entity("A"), graph.DirectionFrom, 1<<30)
	require.NoError(t, err)
	assert.Len(t, discovered, 4)
}

func TestTraverse_ContextCanceled(t *testing.T) {
	store := seedGraph(t, edge("A", "B"))
	tr := newTraverser(store, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Traverse(ctx, entity("A"), graph.DirectionFrom, 1<<30)
	assert.Error(t, err)
}

func TestVisitedSet_TryAdd(t *testing.T) {
	var set visitedSet
	assert.True(t, set.TryAdd(entity("A")))
	assert.False(t, set.TryAdd(entity("A")))
	assert.True(t, set.TryAdd(entity("B")))
}

func TestVisitedSet_TryAdd_Concurrent(t *testing.T) {
	var set visitedSet
	id := entity("A")

	const goroutines = 32
	var wins atomic.Int64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if set.TryAdd(id) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
}
