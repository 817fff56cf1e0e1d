package relations

import (
	"context"
	"log/slog"
	"math"

	"github.com/JamesPrial/relation-graph-core/internal/storage"
	apperrors "github.com/JamesPrial/relation-graph-core/pkg/errors"
	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/JamesPrial/relation-graph-core/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// Service exposes the relation operations: direct edge lookups, relation
// CRUD, cascade delete, and the bounded graph-search query. All validation
// happens synchronously before the store is touched; store failures are
// forwarded to the caller unchanged, with no retries at this layer.
type Service struct {
	store                storage.RelationStore
	logger               *slog.Logger
	maxConcurrentFetches int64
}

// NewService creates a relation service on top of the given store.
// maxConcurrentFetches bounds in-flight store lookups per traversal; zero
// or a negative value uses the configuration default.
func NewService(store storage.RelationStore, maxConcurrentFetches int) *Service {
	if maxConcurrentFetches <= 0 {
		maxConcurrentFetches = defaultMaxConcurrentFetches
	}
	return &Service{
		store:                store,
		logger:               logging.GetGlobalLogger("relations"),
		maxConcurrentFetches: int64(maxConcurrentFetches),
	}
}

// CheckRelation reports whether the relation identified by (from, to, type) exists
func (s *Service) CheckRelation(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	s.logger.DebugContext(ctx, "Executing checkRelation",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("type", relationType),
	)
	if err := validateKey(from, to, relationType); err != nil {
		return false, err
	}
	return s.store.Exists(ctx, from, to, relationType)
}

// SaveRelation stores a relation
func (s *Service) SaveRelation(ctx context.Context, relation graph.Relation) (bool, error) {
	s.logger.DebugContext(ctx, "Executing saveRelation",
		slog.String("from", relation.From.String()),
		slog.String("to", relation.To.String()),
		slog.String("type", relation.Type),
	)
	if err := validateRelation(relation); err != nil {
		return false, err
	}
	return s.store.Save(ctx, relation)
}

// DeleteRelation removes a relation
func (s *Service) DeleteRelation(ctx context.Context, relation graph.Relation) (bool, error) {
	s.logger.DebugContext(ctx, "Executing deleteRelation",
		slog.String("from", relation.From.String()),
		slog.String("to", relation.To.String()),
		slog.String("type", relation.Type),
	)
	if err := validateRelation(relation); err != nil {
		return false, err
	}
	return s.store.Delete(ctx, relation)
}

// DeleteRelationByKey removes the relation identified by (from, to, type)
func (s *Service) DeleteRelationByKey(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	s.logger.DebugContext(ctx, "Executing deleteRelationByKey",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("type", relationType),
	)
	if err := validateKey(from, to, relationType); err != nil {
		return false, err
	}
	return s.store.DeleteByKey(ctx, from, to, relationType)
}

// DeleteEntityRelations removes every relation incident to the entity:
// each inbound relation is deleted individually and concurrently, while the
// outbound relations go through one bulk delete. The result is true only if
// every individual delete and the bulk delete reported true. Individual
// false results do not cancel the remaining deletes; a store error does.
func (s *Service) DeleteEntityRelations(ctx context.Context, entity graph.EntityID) (bool, error) {
	s.logger.DebugContext(ctx, "Executing deleteEntityRelations",
		slog.String("entity", entity.String()),
	)
	if err := validateEntity(entity); err != nil {
		return false, err
	}

	timer := logging.StartTimer(ctx, s.logger, "deleteEntityRelations")

	inbound, err := s.store.FindAllByTo(ctx, entity)
	if err != nil {
		timer.EndWithError(err)
		return false, err
	}

	inboundResults := make([]bool, len(inbound))
	var outboundResult bool

	g, gctx := errgroup.WithContext(ctx)
	for i, relation := range inbound {
		i, relation := i, relation
		g.Go(func() error {
			ok, err := s.store.Delete(gctx, relation)
			if err != nil {
				return err
			}
			inboundResults[i] = ok
			return nil
		})
	}
	g.Go(func() error {
		ok, err := s.store.DeleteOutbound(gctx, entity)
		if err != nil {
			return err
		}
		outboundResult = ok
		return nil
	})

	if err := g.Wait(); err != nil {
		timer.EndWithError(err)
		return false, err
	}
	timer.End()

	return allTrue(inboundResults) && outboundResult, nil
}

// FindByFrom returns all relations whose From endpoint is from
func (s *Service) FindByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error) {
	s.logger.DebugContext(ctx, "Executing findByFrom", slog.String("from", from.String()))
	if err := validateEntity(from); err != nil {
		return nil, err
	}
	return s.store.FindAllByFrom(ctx, from)
}

// FindByFromAndType returns outgoing relations of an exact type
func (s *Service) FindByFromAndType(ctx context.Context, from graph.EntityID, relationType string) ([]graph.Relation, error) {
	s.logger.DebugContext(ctx, "Executing findByFromAndType",
		slog.String("from", from.String()),
		slog.String("type", relationType),
	)
	if err := validateEntity(from); err != nil {
		return nil, err
	}
	if err := validateType(relationType); err != nil {
		return nil, err
	}
	return s.store.FindAllByFromAndType(ctx, from, relationType)
}

// FindByTo returns all relations whose To endpoint is to
func (s *Service) FindByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error) {
	s.logger.DebugContext(ctx, "Executing findByTo", slog.String("to", to.String()))
	if err := validateEntity(to); err != nil {
		return nil, err
	}
	return s.store.FindAllByTo(ctx, to)
}

// FindByToAndType returns incoming relations of an exact type
func (s *Service) FindByToAndType(ctx context.Context, to graph.EntityID, relationType string) ([]graph.Relation, error) {
	s.logger.DebugContext(ctx, "Executing findByToAndType",
		slog.String("to", to.String()),
		slog.String("type", relationType),
	)
	if err := validateEntity(to); err != nil {
		return nil, err
	}
	if err := validateType(relationType); err != nil {
		return nil, err
	}
	return s.store.FindAllByToAndType(ctx, to, relationType)
}

// FindByQuery discovers every relation reachable from the query root within
// the level bound and keeps those matching at least one filter. Ordering of
// the result is traversal order and not guaranteed stable across runs.
func (s *Service) FindByQuery(ctx context.Context, query graph.RelationsQuery) ([]graph.Relation, error) {
	s.logger.DebugContext(ctx, "Executing findByQuery",
		slog.String("root", query.Parameters.Root.String()),
		slog.String("direction", string(query.Parameters.Direction)),
		slog.Int("maxLevel", query.Parameters.MaxLevel),
		slog.Int("filters", len(query.Filters)),
	)

	if len(query.Filters) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeQueryFiltersMissing, "query filters are not set")
	}
	if err := validateEntity(query.Parameters.Root); err != nil {
		return nil, err
	}
	if !query.Parameters.Direction.Valid() {
		return nil, apperrors.ValidationInvalid("direction", "must be FROM or TO")
	}

	// A zero level bound yields the empty result without any store
	// access; a negative bound means unbounded.
	maxLevel := query.Parameters.MaxLevel
	if maxLevel < 0 {
		maxLevel = math.MaxInt
	}

	timer := logging.StartTimer(ctx, s.logger, "findByQuery")

	tr := newTraverser(s.store, s.maxConcurrentFetches)
	discovered, err := tr.Traverse(ctx, query.Parameters.Root, query.Parameters.Direction, maxLevel)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	results := make([]graph.Relation, 0, len(discovered))
	for _, relation := range discovered {
		if matchesAny(query.Filters, relation, query.Parameters.Direction) {
			results = append(results, relation)
		}
	}

	timer.End()
	s.logger.DebugContext(ctx, "Query completed",
		slog.Int("discovered", len(discovered)),
		slog.Int("matched", len(results)),
	)

	return results, nil
}

// allTrue folds a list of boolean outcomes: true only when every element
// is true.
func allTrue(results []bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
