package relations

import "github.com/JamesPrial/relation-graph-core/pkg/graph"

// matchesFilter reports whether a discovered relation satisfies a single
// query filter for the given search direction. An empty relation type on
// the filter matches any type; an empty entity-type set matches any
// target entity.
func matchesFilter(filter graph.TypeFilter, relation graph.Relation, direction graph.SearchDirection) bool {
	if filter.RelationType != "" && filter.RelationType != relation.Type {
		return false
	}
	if len(filter.EntityTypes) == 0 {
		return true
	}

	target := direction.Target(relation)
	for _, entityType := range filter.EntityTypes {
		if entityType == target.EntityType {
			return true
		}
	}
	return false
}

// matchesAny reports whether the relation satisfies at least one filter.
// The first match wins; filters are ORed together.
func matchesAny(filters []graph.TypeFilter, relation graph.Relation, direction graph.SearchDirection) bool {
	for _, filter := range filters {
		if matchesFilter(filter, relation, direction) {
			return true
		}
	}
	return false
}
