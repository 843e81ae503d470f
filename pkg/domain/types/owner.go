package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// OwnerID identifies the user owning an assessment
type OwnerID string

// Validate checks if the OwnerID is usable as a storage key
func (o OwnerID) Validate() error {
	if o == "" {
		return goerr.New("owner ID cannot be empty")
	}
	if len(o) > 256 {
		return goerr.New("owner ID is too long", goerr.V("length", len(o)))
	}
	return nil
}

// String returns the string representation of OwnerID
func (o OwnerID) String() string {
	return string(o)
}
