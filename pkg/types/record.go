// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for place-resolver.
package types

// PlaceRecord is one business to resolve. Name, Address, City, Zip and Phone
// come from the record source and are never modified; PlaceID is filled in
// by the lookup and may be empty when the service returns no candidate.
type PlaceRecord struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	City    string `json:"city" yaml:"city"`
	Zip     string `json:"zip" yaml:"zip"`
	Phone   string `json:"phone" yaml:"phone"`

	// PlaceID is the opaque identifier of the first candidate returned by
	// the places service.
	PlaceID string `json:"place_id,omitempty" yaml:"place_id,omitempty"`
}
