package relations

import (
	apperrors "github.com/JamesPrial/relation-graph-core/pkg/errors"
	"github.com/JamesPrial/relation-graph-core/pkg/graph"
)

// validateRelation checks a full relation before any store access
func validateRelation(relation graph.Relation) error {
	return validateKey(relation.From, relation.To, relation.Type)
}

// validateKey checks the identity triple of a relation
func validateKey(from, to graph.EntityID, relationType string) error {
	if err := validateType(relationType); err != nil {
		return err
	}
	if from.IsZero() {
		return apperrors.ValidationRequired("from entity")
	}
	if to.IsZero() {
		return apperrors.ValidationRequired("to entity")
	}
	return nil
}

// validateType checks that the relation type is non-empty
func validateType(relationType string) error {
	if relationType == "" {
		return apperrors.ValidationRequired("relation type")
	}
	return nil
}

// validateEntity checks a bare entity id argument
func validateEntity(entity graph.EntityID) error {
	if entity.IsZero() {
		return apperrors.ValidationRequired("entity")
	}
	return nil
}
