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

type createTeamMemberInput struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Phone        string   `json:"phone"`
	Status       string   `json:"status"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	VisibleOnMap bool     `json:"visible_on_map"`
}

type updateTeamMemberInput struct {
	Name         *string  `json:"name"`
	Role         *string  `json:"role"`
	Phone        *string  `json:"phone"`
	Status       *string  `json:"status"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	VisibleOnMap *bool    `json:"visible_on_map"`
}

// handleCreateTeamMember handles POST /v1/team-members.
func (s *FarmServer) handleCreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var in createTeamMemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	member, err := s.createTeamMember(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (s *FarmServer) createTeamMember(ctx context.Context, in createTeamMemberInput) (*model.TeamMember, error) {
	if in.Name == "" {
		return nil, inputError("name is required")
	}
	status := model.MemberStatus(in.Status)
	if in.Status == "" {
		status = model.MemberAvailable
	} else if !status.IsValid() {
		return nil, inputError(fmt.Sprintf("invalid status %q", in.Status))
	}

	id, err := idgen.Generate(model.CollectionTeamMembers)
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}

	now := time.Now().UTC()
	member := &model.TeamMember{
		ID:           id,
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		Status:       status,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		VisibleOnMap: in.VisibleOnMap,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateTeamMember(ctx, member); err != nil {
		return nil, fmt.Errorf("creating team member: %w", err)
	}

	s.publishChange(ctx, model.CollectionTeamMembers, model.ChangeInsert, member, nil)
	return member, nil
}

// handleListTeamMembers handles GET /v1/team-members.
func (s *FarmServer) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListTeamMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list team members")
		return
	}
	if members == nil {
		members = []*model.TeamMember{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"team_members": members})
}

// handleGetTeamMember handles GET /v1/team-members/{id}.
func (s *FarmServer) handleGetTeamMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.store.GetTeamMember(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "team member not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get team member")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// handleUpdateTeamMember handles PATCH /v1/team-members/{id}. This is the
// endpoint behind the dashboard's status and location write-throughs, so
// partial bodies are the common case.
func (s *FarmServer) handleUpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var in updateTeamMemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	member, err := s.store.GetTeamMember(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "team member not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get team member")
		return
	}

	old := *member
	if in.Name != nil {
		member.Name = *in.Name
	}
	if in.Role != nil {
		member.Role = *in.Role
	}
	if in.Phone != nil {
		member.Phone = *in.Phone
	}
	if in.Status != nil {
		status := model.MemberStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", *in.Status))
			return
		}
		member.Status = status
	}
	if in.Latitude != nil {
		lat := *in.Latitude
		member.Latitude = &lat
	}
	if in.Longitude != nil {
		lng := *in.Longitude
		member.Longitude = &lng
	}
	if in.VisibleOnMap != nil {
		member.VisibleOnMap = *in.VisibleOnMap
	}
	member.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTeamMember(r.Context(), member); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "team member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update team member")
		return
	}

	s.publishChange(r.Context(), model.CollectionTeamMembers, model.ChangeUpdate, member, &old)
	writeJSON(w, http.StatusOK, member)
}

// handleDeleteTeamMember handles DELETE /v1/team-members/{id}.
func (s *FarmServer) handleDeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	member, err := s.store.GetTeamMember(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "team member not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get team member")
		return
	}

	if err := s.store.DeleteTeamMember(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "team member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete team member")
		return
	}

	s.publishChange(r.Context(), model.CollectionTeamMembers, model.ChangeDelete, nil, member)
	w.WriteHeader(http.StatusNoContent)
}
