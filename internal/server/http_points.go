package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/IvubaServices/FarmSecure-sub000/internal/idgen"
	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
	"github.com/IvubaServices/FarmSecure-sub000/internal/store"
)

type createSecurityPointInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type updateSecurityPointInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Status      *string  `json:"status"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// handleCreateSecurityPoint handles POST /v1/security-points.
func (s *FarmServer) handleCreateSecurityPoint(w http.ResponseWriter, r *http.Request) {
	var in createSecurityPointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	point, err := s.createSecurityPoint(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, point)
}

func (s *FarmServer) createSecurityPoint(ctx context.Context, in createSecurityPointInput) (*model.SecurityPoint, error) {
	if in.Name == "" {
		return nil, inputError("name is required")
	}
	ptype := model.PointType(in.Type)
	if !ptype.IsValid() {
		return nil, inputError("type is required")
	}
	status := model.PointStatus(in.Status)
	if in.Status == "" {
		status = model.PointSecure
	} else if !status.IsValid() {
		return nil, inputError(fmt.Sprintf("invalid status %q", in.Status))
	}

	id, err := idgen.Generate(model.CollectionSecurityPoints)
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}

	now := time.Now().UTC()
	point := &model.SecurityPoint{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Type:        ptype,
		Status:      status,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateSecurityPoint(ctx, point); err != nil {
		return nil, fmt.Errorf("creating security point: %w", err)
	}

	s.publishChange(ctx, model.CollectionSecurityPoints, model.ChangeInsert, point, nil)
	return point, nil
}

// handleListSecurityPoints handles GET /v1/security-points.
func (s *FarmServer) handleListSecurityPoints(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.ListSecurityPoints(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list security points")
		return
	}
	if points == nil {
		points = []*model.SecurityPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"security_points": points})
}

// handleGetSecurityPoint handles GET /v1/security-points/{id}.
func (s *FarmServer) handleGetSecurityPoint(w http.ResponseWriter, r *http.Request) {
	point, err := s.store.GetSecurityPoint(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "security point not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get security point")
		return
	}
	writeJSON(w, http.StatusOK, point)
}

// handleUpdateSecurityPoint handles PATCH /v1/security-points/{id}.
func (s *FarmServer) handleUpdateSecurityPoint(w http.ResponseWriter, r *http.Request) {
	var in updateSecurityPointInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	point, err := s.store.GetSecurityPoint(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "security point not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get security point")
		return
	}

	old := *point
	if in.Name != nil {
		point.Name = *in.Name
	}
	if in.Description != nil {
		point.Description = *in.Description
	}
	if in.Type != nil {
		ptype := model.PointType(*in.Type)
		if !ptype.IsValid() {
			writeError(w, http.StatusBadRequest, "type must be non-empty")
			return
		}
		point.Type = ptype
	}
	if in.Status != nil {
		status := model.PointStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *in.Status))
			return
		}
		point.Status = status
	}
	if in.Latitude != nil {
		point.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		point.Longitude = *in.Longitude
	}
	point.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSecurityPoint(r.Context(), point); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "security point not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update security point")
		return
	}

	s.publishChange(r.Context(), model.CollectionSecurityPoints, model.ChangeUpdate, point, &old)
	writeJSON(w, http.StatusOK, point)
}

// handleDeleteSecurityPoint handles DELETE /v1/security-points/{id}.
func (s *FarmServer) handleDeleteSecurityPoint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	point, err := s.store.GetSecurityPoint(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "security point not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get security point")
		return
	}

	if err := s.store.DeleteSecurityPoint(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "security point not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete security point")
		return
	}

	s.publishChange(r.Context(), model.CollectionSecurityPoints, model.ChangeDelete, nil, point)
	w.WriteHeader(http.StatusNoContent)
}
