package storage

import (
	"context"

	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Exists(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	args := m.Called(ctx, from, to, relationType)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, relation graph.Relation) (bool, error) {
	args := m.Called(ctx, relation)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, relation graph.Relation) (bool, error) {
	args := m.Called(ctx, relation)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) DeleteByKey(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	args := m.Called(ctx, from, to, relationType)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) FindAllByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Relation), args.Error(1)
}

func (m *MockStore) FindAllByFromAndType(ctx context.Context, from graph.EntityID, relationType string) ([]graph.Relation, error) {
	args := m.Called(ctx, from, relationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Relation), args.Error(1)
}

func (m *MockStore) FindAllByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error) {
	args := m.Called(ctx, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Relation), args.Error(1)
}

func (m *MockStore) FindAllByToAndType(ctx context.Context, to graph.EntityID, relationType string) ([]graph.Relation, error) {
	args := m.Called(ctx, to, relationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Relation), args.Error(1)
}

func (m *MockStore) DeleteOutbound(ctx context.Context, id graph.EntityID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
