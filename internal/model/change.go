package model

import (
	"encoding/json"
	"fmt"
)

// ChangeKind is the kind of row mutation carried by a ChangeEvent.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	return string(k)
}

// IsValid checks whether the change kind is a known value.
func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	}
	return false
}

// ChangeEvent is a server-pushed notification that a row was inserted,
// updated, or deleted. Insert/update events carry the full new row;
// delete events carry the old row (at minimum its id). Records are kept
// as raw JSON so the subscription layer can forward events without
// interpreting business fields.
type ChangeEvent struct {
	Collection Collection      `json:"collection"`
	Kind       ChangeKind      `json:"kind"`
	New        json.RawMessage `json:"new_record,omitempty"`
	Old        json.RawMessage `json:"old_record,omitempty"`
}

// recordID is the minimal shape needed to identify a record.
type recordID struct {
	ID string `json:"id"`
}

// RecordID extracts the id of the record the event refers to: the new
// record for inserts/updates, the old record for deletes.
func (e ChangeEvent) RecordID() (string, error) {
	raw := e.New
	if e.Kind == ChangeDelete {
		raw = e.Old
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("change event %s/%s has no record payload", e.Collection, e.Kind)
	}
	var r recordID
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("parsing record id: %w", err)
	}
	if r.ID == "" {
		return "", fmt.Errorf("change event %s/%s record has empty id", e.Collection, e.Kind)
	}
	return r.ID, nil
}

// Validate checks the structural invariants of the event: a known kind,
// a known collection, and a record payload carrying a non-empty id.
func (e ChangeEvent) Validate() error {
	if !e.Collection.IsValid() {
		return fmt.Errorf("unknown collection %q", e.Collection)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("unknown change kind %q", e.Kind)
	}
	_, err := e.RecordID()
	return err
}

// DecodeChangeEvent parses a raw change-stream payload.
func DecodeChangeEvent(data []byte) (ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return ChangeEvent{}, fmt.Errorf("decoding change event: %w", err)
	}
	return e, nil
}

// NewChangeEvent builds an event from typed records, marshaling them to raw
// JSON. Either record may be nil.
func NewChangeEvent(collection Collection, kind ChangeKind, newRecord, oldRecord any) (ChangeEvent, error) {
	e := ChangeEvent{Collection: collection, Kind: kind}
	if newRecord != nil {
		data, err := json.Marshal(newRecord)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("marshaling new record: %w", err)
		}
		e.New = data
	}
	if oldRecord != nil {
		data, err := json.Marshal(oldRecord)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("marshaling old record: %w", err)
		}
		e.Old = data
	}
	return e, nil
}
