// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/IvubaServices/FarmSecure-sub000/internal/model"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// collectionPrefixes maps each collection to its ID prefix, so a raw ID
// is enough to tell what kind of record it names.
var collectionPrefixes = map[model.Collection]string{
	model.CollectionFireZones:        "fz-",
	model.CollectionSecurityPoints:   "sp-",
	model.CollectionTeamMembers:      "tm-",
	model.CollectionNotifications:    "nt-",
	model.CollectionMapConfigs:       "mc-",
	model.CollectionLiveFeedSettings: "lf-",
}

// Generate returns a new unique ID prefixed for the given collection.
// Unknown collections get a bare nanoid.
func Generate(c model.Collection) (string, error) {
	return GenerateWithPrefix(collectionPrefixes[c])
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
