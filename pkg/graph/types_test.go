package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityID(t *testing.T) {
	id := NewEntityID(EntityTypeDevice)
	assert.Equal(t, EntityTypeDevice, id.EntityType)
	assert.NotEmpty(t, id.ID)

	other := NewEntityID(EntityTypeDevice)
	assert.NotEqual(t, id, other)
}

func TestEntityID_IsZero(t *testing.T) {
	assert.True(t, EntityID{}.IsZero())
	assert.False(t, NewEntityID(EntityTypeAsset).IsZero())
	assert.False(t, EntityID{EntityType: EntityTypeAsset}.IsZero())
}

func TestEntityID_MapKeyEquality(t *testing.T) {
	a := EntityID{EntityType: EntityTypeDevice, ID: "d-1"}
	b := EntityID{EntityType: EntityTypeDevice, ID: "d-1"}
	c := EntityID{EntityType: EntityTypeAsset, ID: "d-1"}

	seen := map[EntityID]bool{a: true}
	assert.True(t, seen[b])
	assert.False(t, seen[c])
}

func TestRelation_Key(t *testing.T) {
	from := EntityID{EntityType: EntityTypeAsset, ID: "a-1"}
	to := EntityID{EntityType: EntityTypeDevice, ID: "d-1"}

	r1 := Relation{From: from, To: to, Type: RelationTypeContains, TypeGroup: TypeGroupCommon}
	r2 := Relation{From: from, To: to, Type: RelationTypeContains, TypeGroup: TypeGroupAlarm}
	r3 := Relation{From: from, To: to, Type: RelationTypeManages}

	// TypeGroup does not participate in identity
	assert.Equal(t, r1.Key(), r2.Key())
	assert.NotEqual(t, r1.Key(), r3.Key())
}

func TestSearchDirection_Target(t *testing.T) {
	from := EntityID{EntityType: EntityTypeAsset, ID: "a-1"}
	to := EntityID{EntityType: EntityTypeDevice, ID: "d-1"}
	rel := Relation{From: from, To: to, Type: RelationTypeContains}

	assert.Equal(t, to, DirectionFrom.Target(rel))
	assert.Equal(t, from, DirectionTo.Target(rel))
	assert.Equal(t, from, DirectionFrom.Anchor(rel))
	assert.Equal(t, to, DirectionTo.Anchor(rel))
}

func TestSearchDirection_Valid(t *testing.T) {
	assert.True(t, DirectionFrom.Valid())
	assert.True(t, DirectionTo.Valid())
	assert.False(t, SearchDirection("").Valid())
	assert.False(t, SearchDirection("SIDEWAYS").Valid())
}

func TestRelation_JSONMarshaling(t *testing.T) {
	rel := Relation{
		From:      EntityID{EntityType: EntityTypeAsset, ID: "a-1"},
		To:        EntityID{EntityType: EntityTypeDevice, ID: "d-1"},
		Type:      RelationTypeContains,
		TypeGroup: TypeGroupCommon,
	}

	data, err := json.Marshal(rel)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entityType":"Asset"`)
	assert.Contains(t, string(data), `"type":"Contains"`)

	var decoded Relation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rel, decoded)
}

func TestRelationsQuery_JSONUnmarshaling(t *testing.T) {
	payload := `{
		"parameters": {
			"rootId": {"entityType": "Asset", "id": "a-1"},
			"direction": "FROM",
			"maxLevel": 2
		},
		"filters": [
			{"relationType": "Contains", "entityTypes": ["Device"]}
		]
	}`

	var query RelationsQuery
	require.NoError(t, json.Unmarshal([]byte(payload), &query))
	assert.Equal(t, EntityID{EntityType: EntityTypeAsset, ID: "a-1"}, query.Parameters.Root)
	assert.Equal(t, DirectionFrom, query.Parameters.Direction)
	assert.Equal(t, 2, query.Parameters.MaxLevel)
	require.Len(t, query.Filters, 1)
	assert.Equal(t, []EntityType{EntityTypeDevice}, query.Filters[0].EntityTypes)
}
