package storage

import (
	"context"

	"github.com/JamesPrial/relation-graph-core/pkg/graph"
)

// RelationStore is the durable home of entity relations. Boolean results
// report whether the operation took effect (a delete of a missing relation
// returns false, not an error); errors are reserved for store failures.
type RelationStore interface {
	Exists(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error)
	Save(ctx context.Context, relation graph.Relation) (bool, error)
	Delete(ctx context.Context, relation graph.Relation) (bool, error)
	DeleteByKey(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error)
	FindAllByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error)
	FindAllByFromAndType(ctx context.Context, from graph.EntityID, relationType string) ([]graph.Relation, error)
	FindAllByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error)
	FindAllByToAndType(ctx context.Context, to graph.EntityID, relationType string) ([]graph.Relation, error)
	// DeleteOutbound removes every relation whose From endpoint is id.
	DeleteOutbound(ctx context.Context, id graph.EntityID) (bool, error)
	Close() error
}
