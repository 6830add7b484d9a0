package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/idgen"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

type createMapConfigInput struct {
	Name      string  `json:"name"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Zoom      int     `json:"zoom"`
	Layer     string  `json:"layer"`
	IsDefault bool    `json:"is_default"`
}

type updateMapConfigInput struct {
	Name      *string  `json:"name"`
	CenterLat *float64 `json:"center_lat"`
	CenterLng *float64 `json:"center_lng"`
	Zoom      *int     `json:"zoom"`
	Layer     *string  `json:"layer"`
	IsDefault *bool    `json:"is_default"`
}

// handleCreateMapConfig handles POST /v1/map-configs.
func (s *FarmServer) handleCreateMapConfig(w http.ResponseWriter, r *http.Request) {
	var in createMapConfigInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := idgen.Generate(model.CollectionMapConfigs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	mc := &model.MapConfig{
		ID:        id,
		Name:      in.Name,
		CenterLat: in.CenterLat,
		CenterLng: in.CenterLng,
		Zoom:      in.Zoom,
		Layer:     in.Layer,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateMapConfig(r.Context(), mc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create map config")
		return
	}

	s.publishChange(r.Context(), model.CollectionMapConfigs, model.ChangeInsert, mc, nil)
	writeJSON(w, http.StatusCreated, mc)
}

// handleGetMapConfig handles GET /v1/map-configs/{id}.
func (s *FarmServer) handleGetMapConfig(w http.ResponseWriter, r *http.Request) {
	mc, err := s.store.GetMapConfig(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "map config not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get map config")
		return
	}
	writeJSON(w, http.StatusOK, mc)
}

// handleUpdateMapConfig handles PATCH /v1/map-configs/{id}.
func (s *FarmServer) handleUpdateMapConfig(w http.ResponseWriter, r *http.Request) {
	var in updateMapConfigInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mc, err := s.store.GetMapConfig(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "map config not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get map config")
		return
	}

	old := *mc
	if in.Name != nil {
		if *in.Name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		mc.Name = *in.Name
	}
	if in.CenterLat != nil {
		mc.CenterLat = *in.CenterLat
	}
	if in.CenterLng != nil {
		mc.CenterLng = *in.CenterLng
	}
	if in.Zoom != nil {
		mc.Zoom = *in.Zoom
	}
	if in.Layer != nil {
		mc.Layer = *in.Layer
	}
	if in.IsDefault != nil {
		mc.IsDefault = *in.IsDefault
	}
	mc.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateMapConfig(r.Context(), mc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update map config")
		return
	}

	s.publishChange(r.Context(), model.CollectionMapConfigs, model.ChangeUpdate, mc, &old)
	writeJSON(w, http.StatusOK, mc)
}

// handleDeleteMapConfig handles DELETE /v1/map-configs/{id}.
func (s *FarmServer) handleDeleteMapConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	mc, err := s.store.GetMapConfig(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "map config not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get map config")
		return
	}

	if err := s.store.DeleteMapConfig(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete map config")
		return
	}

	s.publishChange(r.Context(), model.CollectionMapConfigs, model.ChangeDelete, nil, mc)
	w.WriteHeader(http.StatusNoContent)
}

type createLiveFeedInput struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled *bool  `json:"enabled"`
}

type updateLiveFeedInput struct {
	Name    *string `json:"name"`
	URL     *string `json:"url"`
	Enabled *bool   `json:"enabled"`
	Status  *string `json:"status"`
}

// handleCreateLiveFeed handles POST /v1/live-feeds. New feeds start offline;
// the first heartbeat flips them online.
func (s *FarmServer) handleCreateLiveFeed(w http.ResponseWriter, r *http.Request) {
	var in createLiveFeedInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if in.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	id, err := idgen.Generate(model.CollectionLiveFeedSettings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	now := time.Now().UTC()
	feed := &model.LiveFeedSetting{
		ID:        id,
		Name:      in.Name,
		URL:       in.URL,
		Enabled:   enabled,
		Status:    model.FeedOffline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateLiveFeed(r.Context(), feed); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create live feed")
		return
	}

	s.publishChange(r.Context(), model.CollectionLiveFeedSettings, model.ChangeInsert, feed, nil)
	writeJSON(w, http.StatusCreated, feed)
}

// handleGetLiveFeed handles GET /v1/live-feeds/{id}.
func (s *FarmServer) handleGetLiveFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.store.GetLiveFeed(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "live feed not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get live feed")
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// handleUpdateLiveFeed handles PATCH /v1/live-feeds/{id}.
func (s *FarmServer) handleUpdateLiveFeed(w http.ResponseWriter, r *http.Request) {
	var in updateLiveFeedInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	feed, err := s.store.GetLiveFeed(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "live feed not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get live feed")
		return
	}

	old := *feed
	if in.Name != nil {
		if *in.Name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		feed.Name = *in.Name
	}
	if in.URL != nil {
		if *in.URL == "" {
			writeError(w, http.StatusBadRequest, "url cannot be empty")
			return
		}
		feed.URL = *in.URL
	}
	if in.Enabled != nil {
		feed.Enabled = *in.Enabled
	}
	if in.Status != nil {
		status := model.FeedStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *in.Status))
			return
		}
		feed.Status = status
	}
	feed.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateLiveFeed(r.Context(), feed); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update live feed")
		return
	}

	s.publishChange(r.Context(), model.CollectionLiveFeedSettings, model.ChangeUpdate, feed, &old)
	writeJSON(w, http.StatusOK, feed)
}

// handleDeleteLiveFeed handles DELETE /v1/live-feeds/{id}.
func (s *FarmServer) handleDeleteLiveFeed(w http.ResponseWriter, r *http.Request) {
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

	if err := s.store.DeleteLiveFeed(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete live feed")
		return
	}

	s.publishChange(r.Context(), model.CollectionLiveFeedSettings, model.ChangeDelete, nil, feed)
	w.WriteHeader(http.StatusNoContent)
}
