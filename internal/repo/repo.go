// Package repo contains all store access logic for the stay catalog.
// StayRepo is implemented three times: MongoDB (the primary document store),
// Postgres JSONB, and an in-memory store for tests and local development.
// No business logic lives here, only store-native queries and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// StayRepo defines the persistence operations for Stays.
// The service layer depends on this interface, not on a concrete store.
type StayRepo interface {
	// List returns the page of stays selected by f and the number of stays
	// matching f across all pages.
	List(ctx context.Context, f domain.StayFilter) ([]domain.Stay, int64, error)

	// GetByID retrieves a single stay.
	// Returns domain.ErrInvalidID if id is not a valid store ID and
	// domain.ErrNotFound if no stay has that ID.
	GetByID(ctx context.Context, id string) (domain.Stay, error)

	// Create persists stay as a new record and returns it with the
	// store-assigned ID. Any ID on the input is ignored.
	Create(ctx context.Context, stay domain.Stay) (domain.Stay, error)

	// Update sets the listed top-level fields of the stay identified by
	// stay.ID to their values in stay; a listed field left empty in stay is
	// cleared. Unlisted fields, the ID and the message thread are never
	// replaced. Updating a missing stay is a no-op.
	Update(ctx context.Context, stay domain.Stay, fields []string) error

	// Delete permanently removes a stay. Deleting a missing stay is a no-op.
	Delete(ctx context.Context, id string) error

	// PushMessage appends msg to the stay's message thread.
	PushMessage(ctx context.Context, stayID string, msg domain.Message) error

	// PullMessage removes the message with msgID from the stay's thread.
	// Other messages are untouched; an unknown msgID is a no-op.
	PullMessage(ctx context.Context, stayID, msgID string) error
}

// jsonPatch returns the updatable fields of stay named in fields as a JSON
// object. A field stay omits when empty maps to nil (JSON null).
func jsonPatch(stay domain.Stay, fields []string) (map[string]any, error) {
	raw, err := json.Marshal(stay)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal patch: %w", err)
	}
	fields = domain.UpdatableFields(fields)
	patch := make(map[string]any, len(fields))
	for _, k := range fields {
		patch[k] = doc[k]
	}
	return patch, nil
}
