package live

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// fakeRemote implements Remote with canned collections and recorded calls.
type fakeRemote struct {
	mu sync.Mutex

	zones   []model.FireZone
	points  []model.SecurityPoint
	members []model.TeamMember

	zonesErr   error
	pointsErr  error
	membersErr error
	updateErr  error

	fetches       map[model.Collection]int
	statusUpdates []string // "id:status"
	locUpdates    []string // "id:lat,lng,visible"
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{fetches: make(map[model.Collection]int)}
}

func (r *fakeRemote) FetchFireZones(ctx context.Context) ([]model.FireZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[model.CollectionFireZones]++
	if r.zonesErr != nil {
		return nil, r.zonesErr
	}
	return append([]model.FireZone(nil), r.zones...), nil
}

func (r *fakeRemote) FetchSecurityPoints(ctx context.Context) ([]model.SecurityPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[model.CollectionSecurityPoints]++
	if r.pointsErr != nil {
		return nil, r.pointsErr
	}
	return append([]model.SecurityPoint(nil), r.points...), nil
}

func (r *fakeRemote) FetchTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[model.CollectionTeamMembers]++
	if r.membersErr != nil {
		return nil, r.membersErr
	}
	return append([]model.TeamMember(nil), r.members...), nil
}

func (r *fakeRemote) UpdateTeamMemberStatus(ctx context.Context, id string, status model.MemberStatus) (*model.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.statusUpdates = append(r.statusUpdates, id+":"+string(status))
	return &model.TeamMember{ID: id, Status: status}, nil
}

func (r *fakeRemote) UpdateTeamMemberLocation(ctx context.Context, id string, lat, lng float64, visibleOnMap bool) (*model.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.locUpdates = append(r.locUpdates, id)
	return &model.TeamMember{ID: id, Latitude: &lat, Longitude: &lng, VisibleOnMap: visibleOnMap}, nil
}

func mustEvent(t *testing.T, collection model.Collection, kind model.ChangeKind, newRec, oldRec any) model.ChangeEvent {
	t.Helper()
	ev, err := model.NewChangeEvent(collection, kind, newRec, oldRec)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	return ev
}

func seedStore(t *testing.T, seed Snapshot) (*Store, *fakeRemote) {
	t.Helper()
	remote := newFakeRemote()
	return NewStore(remote, seed, nil), remote
}

func TestStore_InsertIsIdempotent(t *testing.T) {
	store, _ := seedStore(t, Snapshot{})

	zone := model.FireZone{ID: "fz-1", Name: "North paddock", Status: model.ZoneActive}
	ev := mustEvent(t, model.CollectionFireZones, model.ChangeInsert, zone, nil)

	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply (duplicate): %v", err)
	}

	zones := store.FireZones()
	if len(zones) != 1 {
		t.Fatalf("got %d zones after duplicate insert, want 1", len(zones))
	}
	if zones[0].ID != "fz-1" {
		t.Errorf("zone id = %q", zones[0].ID)
	}
}

func TestStore_InsertPrependsZonesAndPoints(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		FireZones: []model.FireZone{{ID: "fz-old", Name: "Old burn"}},
	})

	ev := mustEvent(t, model.CollectionFireZones, model.ChangeInsert,
		model.FireZone{ID: "fz-new", Name: "New fire"}, nil)
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	zones := store.FireZones()
	if len(zones) != 2 || zones[0].ID != "fz-new" || zones[1].ID != "fz-old" {
		t.Errorf("order = %v, want most-recent-first", []string{zones[0].ID, zones[1].ID})
	}
}

func TestStore_UpdatePreservesCountAndPosition(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		FireZones: []model.FireZone{
			{ID: "fz-2", Name: "Silo hill", Status: model.ZoneMonitoring},
			{ID: "fz-1", Name: "North paddock", Status: model.ZoneActive},
		},
	})

	ev := mustEvent(t, model.CollectionFireZones, model.ChangeUpdate,
		model.FireZone{ID: "fz-1", Name: "North paddock", Status: model.ZoneContained}, nil)
	before := store.LastUpdated()
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	zones := store.FireZones()
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	// Position preserved, contents replaced.
	if zones[1].ID != "fz-1" || zones[1].Status != model.ZoneContained {
		t.Errorf("updated zone = %+v", zones[1])
	}
	if zones[0].Status != model.ZoneMonitoring {
		t.Errorf("untouched zone mutated: %+v", zones[0])
	}
	if !store.LastUpdated().After(before) {
		t.Error("LastUpdated did not advance")
	}
}

func TestStore_UpdateForAbsentIDIsDropped(t *testing.T) {
	store, _ := seedStore(t, Snapshot{})

	ev := mustEvent(t, model.CollectionFireZones, model.ChangeUpdate,
		model.FireZone{ID: "fz-ghost", Status: model.ZoneActive}, nil)
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n := len(store.FireZones()); n != 0 {
		t.Errorf("got %d zones, want 0", n)
	}
	if !store.LastUpdated().IsZero() {
		t.Error("LastUpdated advanced on a dropped update")
	}
}

func TestStore_DeleteIsNoOpOnAbsentID(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		SecurityPoints: []model.SecurityPoint{{ID: "sp-1", Name: "Main gate"}},
	})

	ev := mustEvent(t, model.CollectionSecurityPoints, model.ChangeDelete,
		nil, model.SecurityPoint{ID: "sp-404"})
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n := len(store.SecurityPoints()); n != 1 {
		t.Errorf("got %d points, want 1", n)
	}
	if !store.LastUpdated().IsZero() {
		t.Error("LastUpdated advanced on a no-op delete")
	}

	ev = mustEvent(t, model.CollectionSecurityPoints, model.ChangeDelete,
		nil, model.SecurityPoint{ID: "sp-1"})
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n := len(store.SecurityPoints()); n != 0 {
		t.Errorf("got %d points after delete, want 0", n)
	}
}

func TestStore_TeamMembersStayNameSorted(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		TeamMembers: []model.TeamMember{
			{ID: "tm-2", Name: "Zanele"},
			{ID: "tm-1", Name: "Andile"},
		},
	})

	// Seed is sorted on construction.
	members := store.TeamMembers()
	if members[0].Name != "Andile" || members[1].Name != "Zanele" {
		t.Fatalf("seed order = %v", []string{members[0].Name, members[1].Name})
	}

	// Insert lands in name order, not prepended.
	ev := mustEvent(t, model.CollectionTeamMembers, model.ChangeInsert,
		model.TeamMember{ID: "tm-3", Name: "Mpho"}, nil)
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	members = store.TeamMembers()
	want := []string{"Andile", "Mpho", "Zanele"}
	for i, name := range want {
		if members[i].Name != name {
			t.Fatalf("order[%d] = %q, want %q", i, members[i].Name, name)
		}
	}

	// A rename re-sorts.
	ev = mustEvent(t, model.CollectionTeamMembers, model.ChangeUpdate,
		model.TeamMember{ID: "tm-3", Name: "Bongani"}, nil)
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	members = store.TeamMembers()
	if members[1].Name != "Bongani" {
		t.Errorf("order after rename = %v", memberNames(members))
	}
}

func memberNames(members []model.TeamMember) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}

func TestStore_ScenarioZoneContained(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		FireZones: []model.FireZone{{ID: "fz-1", Status: model.ZoneActive}},
	})

	ev := mustEvent(t, model.CollectionFireZones, model.ChangeUpdate,
		model.FireZone{ID: "fz-1", Status: model.ZoneContained}, nil)
	if err := store.Apply(ev); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	zones := store.FireZones()
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want exactly 1", len(zones))
	}
	if zones[0].ID != "fz-1" || zones[0].Status != model.ZoneContained {
		t.Errorf("zone = %+v", zones[0])
	}
	if store.LastUpdated().IsZero() {
		t.Error("LastUpdated did not advance")
	}
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	store, _ := seedStore(t, Snapshot{
		FireZones: []model.FireZone{{ID: "fz-1", Name: "North paddock"}},
	})

	zones := store.FireZones()
	zones[0].Name = "tampered"

	if got := store.FireZones()[0].Name; got != "North paddock" {
		t.Errorf("store state mutated through a snapshot: %q", got)
	}
}

func TestStore_OnChangeNotifiesAndCancels(t *testing.T) {
	store, _ := seedStore(t, Snapshot{})

	var mu sync.Mutex
	fired := 0
	cancel := store.OnChange(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	insert := mustEvent(t, model.CollectionFireZones, model.ChangeInsert,
		model.FireZone{ID: "fz-1"}, nil)
	store.Apply(insert)
	store.Apply(insert) // duplicate: no mutation, no notify

	mu.Lock()
	got := fired
	mu.Unlock()
	if got != 1 {
		t.Errorf("observer fired %d times, want 1", got)
	}

	cancel()
	store.Apply(mustEvent(t, model.CollectionFireZones, model.ChangeInsert,
		model.FireZone{ID: "fz-2"}, nil))

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("observer fired after cancel")
	}
}

func TestStore_ApplyRejectsInvalidEvents(t *testing.T) {
	store, _ := seedStore(t, Snapshot{})

	// Notifications are not held live.
	ev := mustEvent(t, model.CollectionNotifications, model.ChangeInsert,
		model.Notification{ID: "nt-1", Title: "hi"}, nil)
	if err := store.Apply(ev); err == nil {
		t.Error("expected error for unwatched collection")
	}

	if err := store.Apply(model.ChangeEvent{
		Collection: model.CollectionFireZones,
		Kind:       model.ChangeInsert,
		New:        json.RawMessage(`{"id":""}`),
	}); err == nil {
		t.Error("expected error for record without id")
	}
}

func TestStore_WriteThroughDoesNotTouchLocalState(t *testing.T) {
	store, remote := seedStore(t, Snapshot{
		TeamMembers: []model.TeamMember{{ID: "tm-1", Name: "Andile", Status: model.MemberAvailable}},
	})

	if err := store.UpdateTeamMemberStatus(context.Background(), "tm-1", model.MemberResponding); err != nil {
		t.Fatalf("UpdateTeamMemberStatus: %v", err)
	}

	remote.mu.Lock()
	updates := append([]string(nil), remote.statusUpdates...)
	remote.mu.Unlock()
	if len(updates) != 1 || updates[0] != "tm-1:responding" {
		t.Errorf("remote updates = %v", updates)
	}

	// Local state converges via the stream, not the call.
	if got := store.TeamMembers()[0].Status; got != model.MemberAvailable {
		t.Errorf("local status = %s, want unchanged until the update event lands", got)
	}
}

func TestStore_WriteThroughPropagatesErrors(t *testing.T) {
	store, remote := seedStore(t, Snapshot{})
	remote.updateErr = errors.New("conflict")

	if err := store.UpdateTeamMemberStatus(context.Background(), "tm-1", model.MemberOnBreak); err == nil {
		t.Error("expected status update error")
	}
	if err := store.UpdateTeamMemberLocation(context.Background(), "tm-1", -29.6, 30.3, true); err == nil {
		t.Error("expected location update error")
	}
}

func TestStore_LastUpdatedUsesClock(t *testing.T) {
	store, _ := seedStore(t, Snapshot{})
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return stamp }

	store.Apply(mustEvent(t, model.CollectionFireZones, model.ChangeInsert,
		model.FireZone{ID: "fz-1"}, nil))

	if !store.LastUpdated().Equal(stamp) {
		t.Errorf("LastUpdated = %v, want %v", store.LastUpdated(), stamp)
	}
}
