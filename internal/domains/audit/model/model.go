package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "audit_logs"
	EntityName = "audit"

	FieldID            = "id"
	FieldAction        = "action"
	FieldActorID       = "actor_id"
	FieldEntityType    = "entity_type"
	FieldEntityID      = "entity_id"
	FieldBefore        = "before_data"
	FieldAfter         = "after_data"
	FieldOriginAddress = "origin_address"
	FieldCreatedAt     = "created_at"
)

const (
	ActionReservationCreated       = "reservation.created"
	ActionReservationCancelled     = "reservation.cancelled"
	ActionReservationStatusUpdated = "reservation.status_updated"
	ActionReservationCompleted     = "reservation.completed"

	EntityTypeReservation = "reservation"
)

// AuditEntry rows are never updated once written; admins can only purge them.
type AuditEntry struct {
	ID            string             `db:"id"`
	Action        string             `db:"action"`
	ActorID       *string            `db:"actor_id"`
	EntityType    string             `db:"entity_type"`
	EntityID      string             `db:"entity_id"`
	Before        types.NullJSONText `db:"before_data"`
	After         types.NullJSONText `db:"after_data"`
	OriginAddress *string            `db:"origin_address"`
	CreatedAt     time.Time          `db:"created_at"`
}
