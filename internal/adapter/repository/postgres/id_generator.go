package postgres

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates time-ordered ids. The 128 ULID bits are rendered as
// a UUID so they fit the uuid primary keys while keeping insert locality.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new id.
func (g *ULIDGenerator) Generate() string {
	return uuid.UUID(ulid.Make()).String()
}
