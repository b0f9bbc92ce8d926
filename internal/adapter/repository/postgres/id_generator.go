package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates outbox event IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lexically sortable ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
