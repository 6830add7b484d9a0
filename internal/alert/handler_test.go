package alert

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// mockStore implements store.Store with only the methods needed for testing.
type mockStore struct {
	store.Store // embed to satisfy the full interface
	created     []*model.Notification
}

func (m *mockStore) CreateNotification(_ context.Context, n *model.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func mustEvent(t *testing.T, collection model.Collection, kind model.ChangeKind, newRecord, oldRecord any) model.ChangeEvent {
	t.Helper()
	e, err := model.NewChangeEvent(collection, kind, newRecord, oldRecord)
	if err != nil {
		t.Fatalf("NewChangeEvent: %v", err)
	}
	return e
}

func TestHandleChangeEvent_CriticalZoneFilesNotification(t *testing.T) {
	s := &mockStore{}
	h := NewHandler(s, testLogger(), nil)

	zone := &model.FireZone{ID: "fz-1", Name: "North paddock", Severity: model.SeverityCritical, Status: model.ZoneActive}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionFireZones, model.ChangeInsert, zone, nil))

	if len(s.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(s.created))
	}
	n := s.created[0]
	if n.Level != model.NotifyCritical {
		t.Errorf("Level = %v, want critical", n.Level)
	}
	if !strings.Contains(n.Title, "North paddock") {
		t.Errorf("Title = %q, want zone name in it", n.Title)
	}
	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be stamped")
	}
}

func TestHandleChangeEvent_LowSeverityZoneIgnored(t *testing.T) {
	s := &mockStore{}
	h := NewHandler(s, testLogger(), nil)

	zone := &model.FireZone{ID: "fz-2", Name: "Compost pile", Severity: model.SeverityLow, Status: model.ZoneMonitoring}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionFireZones, model.ChangeInsert, zone, nil))

	if len(s.created) != 0 {
		t.Fatalf("expected no notifications, got %d", len(s.created))
	}
}

func TestHandleChangeEvent_BreachTransitionOnly(t *testing.T) {
	s := &mockStore{}
	h := NewHandler(s, testLogger(), nil)
	ctx := context.Background()

	secure := &model.SecurityPoint{ID: "sp-1", Name: "Main gate", Type: "gate", Status: model.PointSecure}
	breached := &model.SecurityPoint{ID: "sp-1", Name: "Main gate", Type: "gate", Status: model.PointBreached}

	// Transition secure -> breached files a notification.
	h.HandleChangeEvent(ctx, mustEvent(t, model.CollectionSecurityPoints, model.ChangeUpdate, breached, secure))
	if len(s.created) != 1 {
		t.Fatalf("expected 1 notification after breach, got %d", len(s.created))
	}

	// A later edit while still breached does not.
	h.HandleChangeEvent(ctx, mustEvent(t, model.CollectionSecurityPoints, model.ChangeUpdate, breached, breached))
	if len(s.created) != 1 {
		t.Fatalf("expected no second notification, got %d", len(s.created))
	}
}

func TestHandleChangeEvent_FeedOffline(t *testing.T) {
	s := &mockStore{}
	h := NewHandler(s, testLogger(), nil)

	online := &model.LiveFeedSetting{ID: "lf-1", Name: "Gate camera", Status: model.FeedOnline}
	offline := &model.LiveFeedSetting{ID: "lf-1", Name: "Gate camera", Status: model.FeedOffline}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionLiveFeedSettings, model.ChangeUpdate, offline, online))

	if len(s.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(s.created))
	}
	if s.created[0].Level != model.NotifyWarning {
		t.Errorf("Level = %v, want warning", s.created[0].Level)
	}
}

func TestHandleChangeEvent_NotificationEventsIgnored(t *testing.T) {
	s := &mockStore{}
	h := NewHandler(s, testLogger(), []Rule{{Name: "never", Command: "exit 1"}})

	n := &model.Notification{ID: "nt-1", Title: "existing", Level: model.NotifyCritical}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionNotifications, model.ChangeInsert, n, nil))

	if len(s.created) != 0 {
		t.Fatalf("expected no notifications for notification events, got %d", len(s.created))
	}
}

func TestHandleChangeEvent_RuleRuns(t *testing.T) {
	marker := t.TempDir() + "/ran"
	h := NewHandler(&mockStore{}, testLogger(), []Rule{
		{
			Name:        "touch-marker",
			Collections: []model.Collection{model.CollectionFireZones},
			Kinds:       []model.ChangeKind{model.ChangeInsert},
			Command:     "echo \"$FARMS_COLLECTION/$FARMS_KIND/$FARMS_RECORD_ID\" > " + marker,
		},
	})

	zone := &model.FireZone{ID: "fz-9", Name: "Barn", Severity: model.SeverityLow, Status: model.ZoneActive}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionFireZones, model.ChangeInsert, zone, nil))

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("rule command did not run: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "fire_zones/insert/fz-9" {
		t.Errorf("rule env = %q, want %q", got, "fire_zones/insert/fz-9")
	}
}

func TestHandleChangeEvent_FilesNotificationAndRunsRule(t *testing.T) {
	marker := t.TempDir() + "/ran"
	s := &mockStore{}
	h := NewHandler(s, testLogger(), []Rule{
		{Name: "touch-marker", Command: "touch " + marker},
	})

	zone := &model.FireZone{ID: "fz-7", Name: "Silo", Severity: model.SeverityCritical, Status: model.ZoneActive}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionFireZones, model.ChangeInsert, zone, nil))

	if len(s.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(s.created))
	}
	n := s.created[0]
	if !strings.HasPrefix(n.ID, "nt-") {
		t.Errorf("ID = %q, want nt- prefix", n.ID)
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be stamped")
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("rule command did not run alongside the notification: %v", err)
	}
}

func TestHandleChangeEvent_RuleFilteredOut(t *testing.T) {
	marker := t.TempDir() + "/ran"
	h := NewHandler(&mockStore{}, testLogger(), []Rule{
		{
			Name:        "zones-only",
			Collections: []model.Collection{model.CollectionFireZones},
			Command:     "touch " + marker,
		},
	})

	member := &model.TeamMember{ID: "tm-1", Name: "Alice", Status: model.MemberAvailable}
	h.HandleChangeEvent(context.Background(), mustEvent(t, model.CollectionTeamMembers, model.ChangeUpdate, member, member))

	if _, err := os.Stat(marker); err == nil {
		t.Error("rule ran for a non-matching collection")
	}
}

func TestExecute(t *testing.T) {
	res := Execute(context.Background(), "echo hello", 5, nil)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Output != "hello" {
		t.Errorf("Output = %q, want %q", res.Output, "hello")
	}

	res = Execute(context.Background(), "exit 3", 5, nil)
	if res.Err == nil {
		t.Error("expected error for failing command")
	}
}
