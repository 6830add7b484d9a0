package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/idgen"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

// createFireZoneInput is the JSON body for POST /v1/fire-zones.
type createFireZoneInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Severity     string  `json:"severity"`
	Status       string  `json:"status"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	ReportedBy   string  `json:"reported_by"`
}

// updateFireZoneInput is the JSON body for PATCH /v1/fire-zones/{id}.
// Nil pointer fields mean "don't change".
type updateFireZoneInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Severity     *string  `json:"severity"`
	Status       *string  `json:"status"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters"`
}

// handleCreateFireZone handles POST /v1/fire-zones.
func (s *FarmServer) handleCreateFireZone(w http.ResponseWriter, r *http.Request) {
	var in createFireZoneInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	zone, err := s.createFireZone(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, zone)
}

func (s *FarmServer) createFireZone(ctx context.Context, in createFireZoneInput) (*model.FireZone, error) {
	if in.Name == "" {
		return nil, inputError("name is required")
	}
	severity := model.Severity(in.Severity)
	if !severity.IsValid() {
		return nil, inputError(fmt.Sprintf("invalid severity %q", in.Severity))
	}
	status := model.ZoneStatus(in.Status)
	if in.Status == "" {
		status = model.ZoneActive
	} else if !status.IsValid() {
		return nil, inputError(fmt.Sprintf("invalid status %q", in.Status))
	}

	id, err := idgen.Generate(model.CollectionFireZones)
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}

	now := time.Now().UTC()
	zone := &model.FireZone{
		ID:           id,
		Name:         in.Name,
		Description:  in.Description,
		Severity:     severity,
		Status:       status,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		RadiusMeters: in.RadiusMeters,
		ReportedBy:   in.ReportedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateFireZone(ctx, zone); err != nil {
		return nil, fmt.Errorf("creating fire zone: %w", err)
	}

	s.publishChange(ctx, model.CollectionFireZones, model.ChangeInsert, zone, nil)
	return zone, nil
}

// handleListFireZones handles GET /v1/fire-zones.
func (s *FarmServer) handleListFireZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter model.ZoneFilter

	if v := q.Get("status"); v != "" {
		for _, part := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.ZoneStatus(part))
		}
	}
	if v := q.Get("severity"); v != "" {
		for _, part := range strings.Split(v, ",") {
			filter.Severity = append(filter.Severity, model.Severity(part))
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	zones, err := s.store.ListFireZones(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list fire zones")
		return
	}

	// Ensure the collection is never null in JSON output.
	if zones == nil {
		zones = []*model.FireZone{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"fire_zones": zones})
}

// handleGetFireZone handles GET /v1/fire-zones/{id}.
func (s *FarmServer) handleGetFireZone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	zone, err := s.store.GetFireZone(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "fire zone not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get fire zone")
		return
	}

	writeJSON(w, http.StatusOK, zone)
}

// handleUpdateFireZone handles PATCH /v1/fire-zones/{id}.
func (s *FarmServer) handleUpdateFireZone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateFireZoneInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	zone, err := s.store.GetFireZone(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "fire zone not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get fire zone")
		return
	}

	old := *zone
	if in.Name != nil {
		zone.Name = *in.Name
	}
	if in.Description != nil {
		zone.Description = *in.Description
	}
	if in.Severity != nil {
		severity := model.Severity(*in.Severity)
		if !severity.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid severity %q", *in.Severity))
			return
		}
		zone.Severity = severity
	}
	if in.Status != nil {
		status := model.ZoneStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *in.Status))
			return
		}
		zone.Status = status
	}
	if in.Latitude != nil {
		zone.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		zone.Longitude = *in.Longitude
	}
	if in.RadiusMeters != nil {
		zone.RadiusMeters = *in.RadiusMeters
	}
	zone.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateFireZone(r.Context(), zone); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fire zone not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update fire zone")
		return
	}

	s.publishChange(r.Context(), model.CollectionFireZones, model.ChangeUpdate, zone, &old)
	writeJSON(w, http.StatusOK, zone)
}

// handleDeleteFireZone handles DELETE /v1/fire-zones/{id}.
func (s *FarmServer) handleDeleteFireZone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	zone, err := s.store.GetFireZone(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "fire zone not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get fire zone")
		return
	}

	if err := s.store.DeleteFireZone(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fire zone not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete fire zone")
		return
	}

	s.publishChange(r.Context(), model.CollectionFireZones, model.ChangeDelete, nil, zone)
	w.WriteHeader(http.StatusNoContent)
}
