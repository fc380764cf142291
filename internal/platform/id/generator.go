package id

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered v7 UUIDs so rows sort by creation.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid v7: %w", err)
	}

	return v.String(), nil
}

// SequenceGenerator returns predictable IDs. Used by tests and local seeding.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

func (g *SequenceGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s%d", g.Prefix, g.next.Add(1)), nil
}
