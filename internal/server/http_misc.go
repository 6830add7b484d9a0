package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/idgen"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

type createNotificationInput struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// handleCreateNotification handles POST /v1/notifications.
func (s *FarmServer) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var in createNotificationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := s.createNotification(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, n)
}

func (s *FarmServer) createNotification(ctx context.Context, in createNotificationInput) (*model.Notification, error) {
	if in.Title == "" {
		return nil, inputError("title is required")
	}
	level := model.NotificationLevel(in.Level)
	if in.Level == "" {
		level = model.NotifyInfo
	} else if !level.IsValid() {
		return nil, inputError(fmt.Sprintf("invalid level %q", in.Level))
	}

	id, err := idgen.Generate(model.CollectionNotifications)
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}

	now := time.Now().UTC()
	n := &model.Notification{
		ID:        id,
		Title:     in.Title,
		Message:   in.Message,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	s.publishChange(ctx, model.CollectionNotifications, model.ChangeInsert, n, nil)
	return n, nil
}

// handleListNotifications handles GET /v1/notifications.
func (s *FarmServer) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.store.ListNotifications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// handleMarkNotificationRead handles POST /v1/notifications/{id}/read.
func (s *FarmServer) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.GetNotification(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get notification")
		return
	}

	if !n.Read {
		old := *n
		n.Read = true
		n.UpdatedAt = time.Now().UTC()
		if err := s.store.UpdateNotification(r.Context(), n); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update notification")
			return
		}
		s.publishChange(r.Context(), model.CollectionNotifications, model.ChangeUpdate, n, &old)
	}

	writeJSON(w, http.StatusOK, n)
}

// handleDeleteNotification handles DELETE /v1/notifications/{id}.
func (s *FarmServer) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	n, err := s.store.GetNotification(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get notification")
		return
	}

	if err := s.store.DeleteNotification(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}

	s.publishChange(r.Context(), model.CollectionNotifications, model.ChangeDelete, nil, n)
	w.WriteHeader(http.StatusNoContent)
}

// handleListMapConfigs handles GET /v1/map-configs.
func (s *FarmServer) handleListMapConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.store.ListMapConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list map configs")
		return
	}
	if configs == nil {
		configs = []*model.MapConfig{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"map_configs": configs})
}

// handleListLiveFeeds handles GET /v1/live-feeds.
func (s *FarmServer) handleListLiveFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.store.ListLiveFeeds(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list live feeds")
		return
	}
	if feeds == nil {
		feeds = []*model.LiveFeedSetting{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"live_feeds": feeds})
}

// handleFeedHeartbeat handles POST /v1/live-feeds/{id}/heartbeat.
// The heartbeat feeds the in-memory tracker; if the feed was recorded as
// offline in the store it is flipped back online.
func (s *FarmServer) handleFeedHeartbeat(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	feed, err := s.store.GetLiveFeed(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "live feed not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get live feed")
		return
	}

	s.Feeds.Heartbeat(id)
	if feed.Status != model.FeedOnline {
		s.MarkFeedOnline(r.Context(), id, time.Now())
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleFeedRoster handles GET /v1/live-feeds/roster. Returns the in-memory
// heartbeat roster; stale_threshold_secs excludes feeds silent longer than
// the given number of seconds.
func (s *FarmServer) handleFeedRoster(w http.ResponseWriter, r *http.Request) {
	var staleThreshold time.Duration
	if v := r.URL.Query().Get("stale_threshold_secs"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			staleThreshold = time.Duration(n) * time.Second
		}
	}

	roster := s.Feeds.Roster(staleThreshold)
	writeJSON(w, http.StatusOK, map[string]any{"feeds": roster})
}
