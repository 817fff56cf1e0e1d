package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/JamesPrial/relation-graph-core/pkg/logging"
)

// MemoryStore is a mutex-guarded in-memory relation store. It is the
// default backend and the reference for the SQLite backend's behavior.
type MemoryStore struct {
	mu        sync.RWMutex
	relations map[graph.RelationKey]graph.Relation
	byFrom    map[graph.EntityID]map[graph.RelationKey]struct{}
	byTo      map[graph.EntityID]map[graph.RelationKey]struct{}
	logger    *slog.Logger
}

// NewMemoryStore creates a new in-memory relation store
func NewMemoryStore() *MemoryStore {
	logger := logging.GetGlobalLogger("storage.memory")

	logger.Info("Creating memory relation store")

	return &MemoryStore{
		relations: make(map[graph.RelationKey]graph.Relation),
		byFrom:    make(map[graph.EntityID]map[graph.RelationKey]struct{}),
		byTo:      make(map[graph.EntityID]map[graph.RelationKey]struct{}),
		logger:    logger,
	}
}

// Exists reports whether the relation identified by (from, to, type) is stored
func (m *MemoryStore) Exists(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.relations[graph.RelationKey{From: from, To: to, Type: relationType}]
	return exists, nil
}

// Save stores or overwrites a relation
func (m *MemoryStore) Save(ctx context.Context, relation graph.Relation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := relation.Key()
	m.relations[key] = relation
	m.index(m.byFrom, relation.From, key)
	m.index(m.byTo, relation.To, key)

	m.logger.DebugContext(ctx, "Relation stored",
		slog.String("from", relation.From.String()),
		slog.String("to", relation.To.String()),
		slog.String("type", relation.Type),
	)

	return true, nil
}

// Delete removes a relation, reporting whether it was present
func (m *MemoryStore) Delete(ctx context.Context, relation graph.Relation) (bool, error) {
	return m.DeleteByKey(ctx, relation.From, relation.To, relation.Type)
}

// DeleteByKey removes the relation identified by (from, to, type)
func (m *MemoryStore) DeleteByKey(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := graph.RelationKey{From: from, To: to, Type: relationType}
	if _, exists := m.relations[key]; !exists {
		return false, nil
	}

	m.remove(key)
	return true, nil
}

// FindAllByFrom returns every relation whose From endpoint is from
func (m *MemoryStore) FindAllByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error) {
	return m.findIndexed(ctx, m.byFrom, from, "")
}

// FindAllByFromAndType returns outgoing relations of an exact type
func (m *MemoryStore) FindAllByFromAndType(ctx context.Context, from graph.EntityID, relationType string) ([]graph.Relation, error) {
	return m.findIndexed(ctx, m.byFrom, from, relationType)
}

// FindAllByTo returns every relation whose To endpoint is to
func (m *MemoryStore) FindAllByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error) {
	return m.findIndexed(ctx, m.byTo, to, "")
}

// FindAllByToAndType returns incoming relations of an exact type
func (m *MemoryStore) FindAllByToAndType(ctx context.Context, to graph.EntityID, relationType string) ([]graph.Relation, error) {
	return m.findIndexed(ctx, m.byTo, to, relationType)
}

// DeleteOutbound removes every relation originating at id
func (m *MemoryStore) DeleteOutbound(ctx context.Context, id graph.EntityID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keys := m.byFrom[id]
	for key := range keys {
		m.remove(key)
	}

	m.logger.DebugContext(ctx, "Outbound relations deleted",
		slog.String("entity", id.String()),
		slog.Int("count", len(keys)),
	)

	return true, nil
}

// Close closes the memory store (no-op)
func (m *MemoryStore) Close() error {
	return nil
}

// index adds key to the endpoint index, creating the bucket on first use.
// Callers must hold the write lock.
func (m *MemoryStore) index(idx map[graph.EntityID]map[graph.RelationKey]struct{}, endpoint graph.EntityID, key graph.RelationKey) {
	bucket, exists := idx[endpoint]
	if !exists {
		bucket = make(map[graph.RelationKey]struct{})
		idx[endpoint] = bucket
	}
	bucket[key] = struct{}{}
}

// remove deletes a relation and its index entries. Callers must hold the
// write lock.
func (m *MemoryStore) remove(key graph.RelationKey) {
	delete(m.relations, key)
	if bucket, exists := m.byFrom[key.From]; exists {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(m.byFrom, key.From)
		}
	}
	if bucket, exists := m.byTo[key.To]; exists {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(m.byTo, key.To)
		}
	}
}

func (m *MemoryStore) findIndexed(ctx context.Context, idx map[graph.EntityID]map[graph.RelationKey]struct{}, endpoint graph.EntityID, relationType string) ([]graph.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]graph.Relation, 0, len(idx[endpoint]))
	for key := range idx[endpoint] {
		if relationType != "" && key.Type != relationType {
			continue
		}
		results = append(results, m.relations[key])
	}

	return results, nil
}
