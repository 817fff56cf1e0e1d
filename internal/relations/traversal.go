package relations

import (
	"context"
	"sync"

	"github.com/JamesPrial/relation-graph-core/internal/storage"
	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// defaultMaxConcurrentFetches bounds in-flight store lookups when the
// service is constructed without an explicit limit.
const defaultMaxConcurrentFetches = 16

// visitedSet is a concurrency-safe set of entity ids with an atomic
// check-and-insert. One instance lives for the duration of a single
// traversal and is shared by all of its branches; it is never
// process-wide state.
type visitedSet struct {
	m sync.Map
}

// TryAdd inserts id and reports whether it was absent. The load-or-store
// is atomic: two branches racing on the same id see exactly one true.
func (s *visitedSet) TryAdd(id graph.EntityID) bool {
	_, loaded := s.m.LoadOrStore(id, struct{}{})
	return !loaded
}

// traverser performs one bounded, deduplicated, concurrent breadth
// expansion over the relation graph. A fresh traverser is created per
// query and discarded afterwards.
type traverser struct {
	store   storage.RelationStore
	fetches *semaphore.Weighted
	visited visitedSet
}

func newTraverser(store storage.RelationStore, maxConcurrentFetches int64) *traverser {
	return &traverser{
		store:   store,
		fetches: semaphore.NewWeighted(maxConcurrentFetches),
	}
}

// Traverse expands from root in the given direction for at most maxLevel
// rounds and returns the deduplicated set of discovered relations. A
// maxLevel of zero yields the empty set without touching the store. Every
// entity is expanded at most once per traversal, which guarantees
// termination on cyclic graphs; relations into already-visited entities
// are still part of the result.
func (t *traverser) Traverse(ctx context.Context, root graph.EntityID, direction graph.SearchDirection, maxLevel int) (map[graph.RelationKey]graph.Relation, error) {
	if maxLevel == 0 {
		return map[graph.RelationKey]graph.Relation{}, nil
	}
	t.visited.TryAdd(root)
	return t.expand(ctx, root, direction, maxLevel)
}

// expand fetches the relations incident to root, claims each unvisited
// child, and recurses concurrently into the claimed children one level
// down. Results merge at the join; a failure in any branch fails the
// whole expansion.
func (t *traverser) expand(ctx context.Context, root graph.EntityID, direction graph.SearchDirection, level int) (map[graph.RelationKey]graph.Relation, error) {
	relations, err := t.fetch(ctx, root, direction)
	if err != nil {
		return nil, err
	}

	discovered := make(map[graph.RelationKey]graph.Relation, len(relations))
	var children []graph.EntityID
	for _, relation := range relations {
		discovered[relation.Key()] = relation
		child := direction.Target(relation)
		if t.visited.TryAdd(child) {
			children = append(children, child)
		}
	}

	if len(children) == 0 || level == 1 {
		return discovered, nil
	}

	// Each branch owns its result slot; merging happens only after the
	// join. The errgroup cancels siblings and surfaces the first error,
	// so a failed branch can never pass as an empty result.
	branches := make([]map[graph.RelationKey]graph.Relation, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			sub, err := t.expand(gctx, child, direction, level-1)
			if err != nil {
				return err
			}
			branches[i] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sub := range branches {
		for key, relation := range sub {
			discovered[key] = relation
		}
	}

	return discovered, nil
}

// fetch looks up the relations incident to id in the search direction.
// The semaphore bounds how many lookups the whole traversal has in
// flight, so fan-out on dense graphs cannot grow without limit.
func (t *traverser) fetch(ctx context.Context, id graph.EntityID, direction graph.SearchDirection) ([]graph.Relation, error) {
	if err := t.fetches.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer t.fetches.Release(1)

	if direction == graph.DirectionFrom {
		return t.store.FindAllByFrom(ctx, id)
	}
	return t.store.FindAllByTo(ctx, id)
}
