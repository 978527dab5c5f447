package xcodeproj

import (
	"math/rand"

	"github.com/google/uuid"
)

// IDSource hands out object identifiers for project.pbxproj.
type IDSource interface {
	NewID() string
}

// IDFunc adapts a function to IDSource.
type IDFunc func() string

// NewID implements IDSource.
func (f IDFunc) NewID() string {
	return f()
}

// RandomIDs returns a source of random version 4 UUIDs.
func RandomIDs() IDSource {
	return IDFunc(uuid.NewString)
}

// SeededIDs returns a source of version 4 UUIDs drawn from a deterministic
// stream, so the same seed always yields the same sequence. It is not safe
// for concurrent use.
func SeededIDs(seed int64) IDSource {
	r := rand.New(rand.NewSource(seed))
	return IDFunc(func() string {
		return uuid.Must(uuid.NewRandomFromReader(r)).String()
	})
}
