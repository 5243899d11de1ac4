// Package catalog resolves characters and character listings from the
// upstream catalog, memoizing results in a cache.Store.
package catalog

import (
	"context"

	"swapi-gateway/internal/swapi"
)

// Unknown is used for homeworld and terrain when a person has no homeworld.
const Unknown = "Unknown"

// Character is the assembled record served to clients.
type Character struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	BirthYear string `json:"birth_year"`
	Homeworld string `json:"homeworld"`
	Terrain   string `json:"terrain"`
}

// Listing is an ordered page or search result.
type Listing struct {
	Characters []Character `json:"characters"`
	TotalPages int         `json:"total_pages"`
}

func emptyListing() Listing {
	return Listing{Characters: []Character{}, TotalPages: 0}
}

// Upstream is the subset of the catalog API the resolvers need.
// *swapi.Client implements it.
type Upstream interface {
	GetPerson(ctx context.Context, uid string) (*swapi.Person, error)
	GetPlanet(ctx context.Context, ref string) (*swapi.Planet, error)
	SearchPeople(ctx context.Context, name string) ([]swapi.PersonRef, error)
	ListPeople(ctx context.Context, page, limit int) (*swapi.PeoplePage, error)
}

// Resolver resolves a single character by uid.
type Resolver interface {
	Resolve(ctx context.Context, uid string) (Character, error)
}
