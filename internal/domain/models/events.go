package models

import (
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
)

// AuditEvent records a successful console mutation.
type AuditEvent struct {
	ID         string            `json:"id"`
	Action     types.AuditAction `json:"action"`
	EntityID   string            `json:"entity_id,omitempty"`
	Actor      string            `json:"actor,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Payload    any               `json:"payload,omitempty"`
}
