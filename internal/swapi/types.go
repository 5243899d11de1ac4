package swapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape reports a response whose result field is not the
// expected JSON type.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Error is returned for any failure talking to the upstream catalog.
type Error struct {
	Op     string // get_person, get_planet, search_people, list_people
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("swapi: %s: upstream status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("swapi: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Person is the primary record of a character.
type Person struct {
	Name      string `json:"name"`
	BirthYear string `json:"birth_year"`
	Homeworld string `json:"homeworld"` // reference to the planet resource, may be empty
}

// Planet is the related record a Person references.
type Planet struct {
	Name    string `json:"name"`
	Terrain string `json:"terrain"`
}

// PersonRef is one entry of a search or page result.
type PersonRef struct {
	UID  string `json:"uid"`
	Name string `json:"name,omitempty"`
}

// PeoplePage is one page of the people listing.
type PeoplePage struct {
	Results    []PersonRef
	TotalPages int
}

// Response envelopes as returned by the upstream API.

type propertiesEnvelope[T any] struct {
	Result *struct {
		Properties *T `json:"properties"`
	} `json:"result"`
}

type searchEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type pageEnvelope struct {
	Results    json.RawMessage `json:"results"`
	TotalPages int             `json:"total_pages"`
}

// decodeRefs decodes raw as a list of PersonRef. Anything but a JSON array
// yields ErrUnexpectedShape.
func decodeRefs(raw json.RawMessage) ([]PersonRef, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrUnexpectedShape
	}
	var refs []PersonRef
	if err := json.Unmarshal(trimmed, &refs); err != nil {
		return nil, fmt.Errorf("decode result list: %w", err)
	}
	return refs, nil
}
