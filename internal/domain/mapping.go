package domain

import (
	"encoding/json/v2"
	"fmt"
)

// MappingEntry restores one element's role tag and transient UI state after a
// document reload. Index is the element's position in the document's element
// list at serialization time; the format offers no stable identity, so
// position is the identity.
type MappingEntry struct {
	Index   int     `json:"index"`
	Tag     RoleTag `json:"tag"`
	Visible bool    `json:"visible"`
	Locked  bool    `json:"locked"`
}

// MappingTable is the side-table persisted alongside a design document. It is
// only valid against a document whose element ordering has not changed since
// the table was produced; it is regenerated immediately before every save.
type MappingTable struct {
	Entries []MappingEntry `json:"entries"`
}

// Lookup returns the entry for a position index, if present.
func (mt *MappingTable) Lookup(index int) (MappingEntry, bool) {
	for _, e := range mt.Entries {
		if e.Index == index {
			return e, true
		}
	}
	return MappingEntry{}, false
}

// MaxIndex returns the highest index referenced, or -1 for an empty table.
func (mt *MappingTable) MaxIndex() int {
	maxIdx := -1
	for _, e := range mt.Entries {
		if e.Index > maxIdx {
			maxIdx = e.Index
		}
	}
	return maxIdx
}

// SemanticMarkerCount counts entries carrying a semantic type. A table with
// zero markers cannot drive personalization.
func (mt *MappingTable) SemanticMarkerCount() int {
	n := 0
	for _, e := range mt.Entries {
		if e.Tag.Type != TypeNone {
			n++
		}
	}
	return n
}

// MarshalMappingTable serializes a mapping table to JSON.
func MarshalMappingTable(mt *MappingTable) ([]byte, error) {
	data, err := json.Marshal(mt)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping table: %w", err)
	}
	return data, nil
}

// UnmarshalMappingTable parses a serialized mapping table.
func UnmarshalMappingTable(data []byte) (*MappingTable, error) {
	var mt MappingTable
	if err := json.Unmarshal(data, &mt); err != nil {
		return nil, fmt.Errorf("unmarshal mapping table: %w", err)
	}
	return &mt, nil
}
