// Package idgen generates identifiers the store does not assign itself,
// such as message IDs within a stay's thread.
package idgen

import "github.com/google/uuid"

// MakeID returns a new random identifier.
func MakeID() string {
	return uuid.NewString()
}
