package domain

import "time"

// AuditAction names a state change applied to an account.
type AuditAction string

const (
	ActionRegistered  AuditAction = "registered"
	ActionRoleChanged AuditAction = "role_changed"
	ActionLocked      AuditAction = "locked"
	ActionUnlocked    AuditAction = "unlocked"
	ActionDeleted     AuditAction = "deleted"
)

// AuditEvent records who changed which account, and how.
type AuditEvent struct {
	Username   string
	Action     AuditAction
	Actor      string // empty for self-registration
	Detail     string
	OccurredAt time.Time
}
