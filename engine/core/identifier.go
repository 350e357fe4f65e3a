package core

import "github.com/google/uuid"

// Identifier tags engine-owned objects (shapes, shader programs) in logs and registries.
type Identifier string

func NewIdentifier() Identifier {
	return Identifier(uuid.New().String())
}

func (id Identifier) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}

func (id Identifier) String() string {
	return string(id)
}
