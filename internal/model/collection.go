package model

// Collection identifies one of the record sets managed by the service.
type Collection string

const (
	CollectionFireZones        Collection = "fire_zones"
	CollectionSecurityPoints   Collection = "security_points"
	CollectionTeamMembers      Collection = "team_members"
	CollectionNotifications    Collection = "notifications"
	CollectionMapConfigs       Collection = "map_configs"
	CollectionLiveFeedSettings Collection = "live_feed_settings"
)

// String returns the string representation of the collection.
func (c Collection) String() string {
	return string(c)
}

// IsValid checks whether the collection is a known value.
func (c Collection) IsValid() bool {
	switch c {
	case CollectionFireZones, CollectionSecurityPoints, CollectionTeamMembers,
		CollectionNotifications, CollectionMapConfigs, CollectionLiveFeedSettings:
		return true
	}
	return false
}

// WatchedCollections are the collections carried by the live dashboard and
// tracked over the change stream. The remaining collections are plain CRUD.
var WatchedCollections = []Collection{
	CollectionFireZones,
	CollectionSecurityPoints,
	CollectionTeamMembers,
}
