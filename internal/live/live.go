// Package live holds the in-memory dashboard state for one session: the
// watched collections seeded from a snapshot, mutated by change events and
// manual refreshes, and read by UI layers through snapshot accessors.
package live

import (
	"context"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Remote is the slice of the persistence API the live layer consumes:
// full-collection fetches for seeding and refresh, and the write-through
// team member updates. Implemented by client.HTTPClient.
type Remote interface {
	FetchFireZones(ctx context.Context) ([]model.FireZone, error)
	FetchSecurityPoints(ctx context.Context) ([]model.SecurityPoint, error)
	FetchTeamMembers(ctx context.Context) ([]model.TeamMember, error)

	UpdateTeamMemberStatus(ctx context.Context, id string, status model.MemberStatus) (*model.TeamMember, error)
	UpdateTeamMemberLocation(ctx context.Context, id string, lat, lng float64, visibleOnMap bool) (*model.TeamMember, error)
}

// Snapshot is a one-time full fetch of the watched collections, used to
// seed a Store. Whoever fetched it (a pre-render step, the CLI) supplies it.
type Snapshot struct {
	FireZones      []model.FireZone
	SecurityPoints []model.SecurityPoint
	TeamMembers    []model.TeamMember
}

// FetchSnapshot loads a full snapshot from the remote. The three fetches
// are independent; the first failure aborts since a partial seed would
// silently present empty collections as truth.
func FetchSnapshot(ctx context.Context, remote Remote) (Snapshot, error) {
	zones, err := remote.FetchFireZones(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	points, err := remote.FetchSecurityPoints(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	members, err := remote.FetchTeamMembers(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{FireZones: zones, SecurityPoints: points, TeamMembers: members}, nil
}
