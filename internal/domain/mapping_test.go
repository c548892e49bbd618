package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingTable_Lookup(t *testing.T) {
	mt := &MappingTable{Entries: []MappingEntry{
		{Index: 0, Tag: NewTag(TypeLogo, true), Visible: true},
		{Index: 3, Tag: NewTag(TypeQRCode, false), Visible: true},
	}}

	entry, ok := mt.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, TypeQRCode, entry.Tag.Type)

	_, ok = mt.Lookup(1)
	assert.False(t, ok)
}

func TestMappingTable_SemanticMarkerCount(t *testing.T) {
	mt := &MappingTable{Entries: []MappingEntry{
		{Index: 0, Tag: NewTag(TypeLogo, true)},
		{Index: 1, Tag: RoleTag{DisplayName: "Decoration"}}, // no semantic type
		{Index: 2, Tag: NewTag(TypeMessage, false)},
	}}

	assert.Equal(t, 2, mt.SemanticMarkerCount())
	assert.Equal(t, 0, (&MappingTable{}).SemanticMarkerCount())
}

func TestMappingTable_MaxIndex(t *testing.T) {
	assert.Equal(t, -1, (&MappingTable{}).MaxIndex())

	mt := &MappingTable{Entries: []MappingEntry{{Index: 2}, {Index: 7}, {Index: 5}}}
	assert.Equal(t, 7, mt.MaxIndex())
}

func TestMappingTable_JSONRoundTrip(t *testing.T) {
	mt := &MappingTable{Entries: []MappingEntry{
		{
			Index:   1,
			Tag:     RoleTag{Type: "custom-rectangle-1", Category: CategoryCustomShape, DisplayName: "Banner", Payload: map[string]any{"fill": "#ff0000"}},
			Visible: true,
			Locked:  true,
		},
	}}

	data, err := MarshalMappingTable(mt)
	require.NoError(t, err)

	got, err := UnmarshalMappingTable(data)
	require.NoError(t, err)
	assert.Equal(t, mt, got)
}
