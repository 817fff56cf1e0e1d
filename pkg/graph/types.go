package graph

import "github.com/google/uuid"

// EntityType represents the category of an entity with predefined constants for type safety
type EntityType string

const (
	EntityTypeTenant    EntityType = "Tenant"
	EntityTypeCustomer  EntityType = "Customer"
	EntityTypeUser      EntityType = "User"
	EntityTypeDevice    EntityType = "Device"
	EntityTypeAsset     EntityType = "Asset"
	EntityTypeDashboard EntityType = "Dashboard"
	EntityTypeRule      EntityType = "Rule"
	EntityTypeGeneral   EntityType = "General"
)

// EntityID identifies an entity by its type and an opaque identifier.
// It is a comparable value type: equality and map-key hashing work by (type, id).
type EntityID struct {
	EntityType EntityType `json:"entityType" mapstructure:"entityType"`
	ID         string     `json:"id" mapstructure:"id"`
}

// NewEntityID mints a fresh entity id of the given type backed by a UUID.
func NewEntityID(entityType EntityType) EntityID {
	return EntityID{EntityType: entityType, ID: uuid.New().String()}
}

// IsZero reports whether the id is unset.
func (e EntityID) IsZero() bool {
	return e.EntityType == "" && e.ID == ""
}

func (e EntityID) String() string {
	return string(e.EntityType) + ":" + e.ID
}

// RelationTypeGroup classifies relations into groups of use
type RelationTypeGroup string

const (
	TypeGroupCommon     RelationTypeGroup = "Common"
	TypeGroupAlarm      RelationTypeGroup = "Alarm"
	TypeGroupDashboard  RelationTypeGroup = "Dashboard"
	TypeGroupRuleEngine RelationTypeGroup = "RuleEngine"
)

// Common relation types
const (
	RelationTypeContains = "Contains"
	RelationTypeManages  = "Manages"
)

// Relation is a directed, typed edge between two entities. Relations are
// value types, identified by (From, To, Type); TypeGroup is a classifier
// that does not participate in identity.
type Relation struct {
	From      EntityID          `json:"from" mapstructure:"from"`
	To        EntityID          `json:"to" mapstructure:"to"`
	Type      string            `json:"type" mapstructure:"type"`
	TypeGroup RelationTypeGroup `json:"typeGroup,omitempty" mapstructure:"typeGroup"`
}

// RelationKey is the comparable identity of a relation.
type RelationKey struct {
	From EntityID
	To   EntityID
	Type string
}

// Key returns the relation's identity for set membership and deduplication.
func (r Relation) Key() RelationKey {
	return RelationKey{From: r.From, To: r.To, Type: r.Type}
}

// SearchDirection selects which endpoint of an edge is the anchor being
// expanded from.
type SearchDirection string

const (
	// DirectionFrom follows outgoing edges from the anchor.
	DirectionFrom SearchDirection = "FROM"
	// DirectionTo follows incoming edges into the anchor.
	DirectionTo SearchDirection = "TO"
)

// Valid reports whether the direction is one of the known constants.
func (d SearchDirection) Valid() bool {
	return d == DirectionFrom || d == DirectionTo
}

// Target returns the endpoint a traversal steps to when expanding through
// the relation: the To endpoint when searching FROM, the From endpoint when
// searching TO. All direction branching in the system goes through here.
func (d SearchDirection) Target(r Relation) EntityID {
	if d == DirectionFrom {
		return r.To
	}
	return r.From
}

// Anchor returns the endpoint the relation was discovered at, the opposite
// of Target.
func (d SearchDirection) Anchor(r Relation) EntityID {
	if d == DirectionFrom {
		return r.From
	}
	return r.To
}

// SearchParameters describe where a relation search starts and how far it
// may expand. MaxLevel bounds the number of expansion rounds; zero yields
// an empty result and a negative value means unbounded.
type SearchParameters struct {
	Root      EntityID        `json:"rootId" mapstructure:"rootId"`
	Direction SearchDirection `json:"direction" mapstructure:"direction"`
	MaxLevel  int             `json:"maxLevel" mapstructure:"maxLevel"`
}

// TypeFilter matches relations by relation type and target entity types.
// An empty RelationType matches any relation type; an empty EntityTypes set
// matches any entity type.
type TypeFilter struct {
	RelationType string       `json:"relationType" mapstructure:"relationType"`
	EntityTypes  []EntityType `json:"entityTypes" mapstructure:"entityTypes"`
}

// RelationsQuery is a bounded reachability query: traversal parameters plus
// an OR-combined, non-empty list of filters applied to the discovered edges.
type RelationsQuery struct {
	Parameters SearchParameters `json:"parameters" mapstructure:"parameters"`
	Filters    []TypeFilter     `json:"filters" mapstructure:"filters"`
}
