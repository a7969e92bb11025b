// Package store is the scenario persistence port: named deal-input blobs
// and their last result are saved and loaded as opaque serialized records.
// The engine only requires round-trip fidelity of the nested numeric
// structure; the backend (memory, file, redis) is a caller decision.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates no scenario exists under the requested ID.
var ErrNotFound = errors.New("store: scenario not found")

// Scenario is one saved deal: the calculator variant, its serialized inputs,
// and optionally the last computed result.
type Scenario struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Calculator string          `json:"calculator"`
	SavedAt    time.Time       `json:"savedAt"`
	Inputs     json.RawMessage `json:"inputs"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Store persists scenarios.
type Store interface {
	// Save writes the scenario, assigning an ID and timestamp when absent.
	Save(ctx context.Context, scenario *Scenario) error

	// Load retrieves a scenario by ID, or ErrNotFound.
	Load(ctx context.Context, id string) (*Scenario, error)

	// List returns all saved scenarios ordered by save time.
	List(ctx context.Context) ([]Scenario, error)

	// Delete removes a scenario by ID, or ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// stamp fills in identity fields on first save.
func stamp(scenario *Scenario) {
	if scenario.ID == "" {
		scenario.ID = uuid.NewString()
	}
	if scenario.SavedAt.IsZero() {
		scenario.SavedAt = time.Now().UTC()
	}
}
