// Package activity is the append-only activity log. State-changing use cases
// append an entry inside the same transaction as their writes, so the log
// never records a change that was rolled back.
package activity

import (
	"time"

	id "bigoffice/pkg/domain"
)

// Entry is one logged action against an entity.
type Entry struct {
	ID            id.ActivityID `json:"id"`
	ActorID       id.UserID     `json:"actor_id"`
	ActorRole     id.Role       `json:"actor_role"`
	Action        string        `json:"action"`
	EntityType    string        `json:"entity_type"`
	EntityID      string        `json:"entity_id"`
	Details       string        `json:"details,omitempty"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Actions recorded by the state-transition use cases.
const (
	ActionOfficerTransferred = "officer_transferred"
	ActionOfficerPromoted    = "officer_promoted"
	ActionOfficerCreated     = "officer_created"
	ActionOfficerUpdated     = "officer_updated"
)

// Entity types referenced by entries.
const (
	EntityOfficer = "officer"
)
