package model

import (
	"encoding/json"
	"testing"
)

func TestCollection_IsValid(t *testing.T) {
	for _, tc := range []struct {
		collection Collection
		want       bool
	}{
		{CollectionFireZones, true},
		{CollectionSecurityPoints, true},
		{CollectionTeamMembers, true},
		{CollectionNotifications, true},
		{CollectionMapConfigs, true},
		{CollectionLiveFeedSettings, true},
		{Collection(""), false},
		{Collection("bogus"), false},
	} {
		if got := tc.collection.IsValid(); got != tc.want {
			t.Errorf("Collection(%q).IsValid() = %v, want %v", tc.collection, got, tc.want)
		}
	}
}

func TestWatchedCollections(t *testing.T) {
	if len(WatchedCollections) != 3 {
		t.Fatalf("expected 3 watched collections, got %d", len(WatchedCollections))
	}
	for _, c := range WatchedCollections {
		if !c.IsValid() {
			t.Errorf("watched collection %q is not valid", c)
		}
	}
}

func TestChangeKind_IsValid(t *testing.T) {
	for _, tc := range []struct {
		kind ChangeKind
		want bool
	}{
		{ChangeInsert, true},
		{ChangeUpdate, true},
		{ChangeDelete, true},
		{ChangeKind(""), false},
		{ChangeKind("upsert"), false},
	} {
		if got := tc.kind.IsValid(); got != tc.want {
			t.Errorf("ChangeKind(%q).IsValid() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestChangeEvent_RecordID(t *testing.T) {
	insert := ChangeEvent{
		Collection: CollectionFireZones,
		Kind:       ChangeInsert,
		New:        json.RawMessage(`{"id":"fz-abc","name":"North paddock"}`),
	}
	id, err := insert.RecordID()
	if err != nil {
		t.Fatalf("RecordID: %v", err)
	}
	if id != "fz-abc" {
		t.Errorf("got id %q, want %q", id, "fz-abc")
	}

	del := ChangeEvent{
		Collection: CollectionFireZones,
		Kind:       ChangeDelete,
		Old:        json.RawMessage(`{"id":"fz-abc"}`),
	}
	id, err = del.RecordID()
	if err != nil {
		t.Fatalf("RecordID: %v", err)
	}
	if id != "fz-abc" {
		t.Errorf("got id %q, want %q", id, "fz-abc")
	}
}

func TestChangeEvent_Validate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		event   ChangeEvent
		wantErr bool
	}{
		{
			name: "valid insert",
			event: ChangeEvent{
				Collection: CollectionTeamMembers,
				Kind:       ChangeInsert,
				New:        json.RawMessage(`{"id":"tm-1"}`),
			},
		},
		{
			name: "insert without payload",
			event: ChangeEvent{
				Collection: CollectionTeamMembers,
				Kind:       ChangeInsert,
			},
			wantErr: true,
		},
		{
			name: "delete without old record",
			event: ChangeEvent{
				Collection: CollectionFireZones,
				Kind:       ChangeDelete,
				New:        json.RawMessage(`{"id":"fz-1"}`),
			},
			wantErr: true,
		},
		{
			name: "empty record id",
			event: ChangeEvent{
				Collection: CollectionFireZones,
				Kind:       ChangeUpdate,
				New:        json.RawMessage(`{"id":""}`),
			},
			wantErr: true,
		},
		{
			name: "unknown collection",
			event: ChangeEvent{
				Collection: Collection("weather"),
				Kind:       ChangeInsert,
				New:        json.RawMessage(`{"id":"w-1"}`),
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			event: ChangeEvent{
				Collection: CollectionFireZones,
				Kind:       ChangeKind("truncate"),
				New:        json.RawMessage(`{"id":"fz-1"}`),
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewChangeEvent_RoundTrip(t *testing.T) {
	zone := FireZone{ID: "fz-1", Name: "Silo hill", Severity: SeverityHigh, Status: ZoneActive}
	ev, err := NewChangeEvent(CollectionFireZones, ChangeUpdate, zone, nil)
	if err != nil {
		t.Fatalf("NewChangeEvent: %v", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := DecodeChangeEvent(data)
	if err != nil {
		t.Fatalf("DecodeChangeEvent: %v", err)
	}

	if decoded.Kind != ChangeUpdate || decoded.Collection != CollectionFireZones {
		t.Errorf("decoded envelope = %s/%s", decoded.Collection, decoded.Kind)
	}
	var got FireZone
	if err := json.Unmarshal(decoded.New, &got); err != nil {
		t.Fatalf("unmarshal new record: %v", err)
	}
	if got.ID != zone.ID || got.Status != zone.Status {
		t.Errorf("got %+v, want %+v", got, zone)
	}
}

func TestStatusEnums(t *testing.T) {
	if !ZoneContained.IsValid() || ZoneStatus("melted").IsValid() {
		t.Error("ZoneStatus validity")
	}
	if !SeverityCritical.IsValid() || Severity("extreme").IsValid() {
		t.Error("Severity validity")
	}
	if !MemberResponding.IsValid() || MemberStatus("afk").IsValid() {
		t.Error("MemberStatus validity")
	}
	if !PointBreached.IsValid() || PointStatus("ok").IsValid() {
		t.Error("PointStatus validity")
	}
	if !FeedOnline.IsValid() || FeedStatus("up").IsValid() {
		t.Error("FeedStatus validity")
	}
	if !PointType("drone_dock").IsValid() || PointType("").IsValid() {
		t.Error("PointType validity")
	}
}
