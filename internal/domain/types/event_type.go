package types

// AuditAction names a successful console mutation published to the audit exchange.
type AuditAction string

func (a AuditAction) String() string {
	return string(a)
}

const (
	AuditUserCreated         AuditAction = "user.created"
	AuditUserUpdated         AuditAction = "user.updated"
	AuditUserDeleted         AuditAction = "user.deleted"
	AuditUserStatusChanged   AuditAction = "user.status_changed"
	AuditTicketReplied       AuditAction = "ticket.replied"
	AuditTicketStatusChanged AuditAction = "ticket.status_changed"
	AuditSessionOpened       AuditAction = "session.opened"
	AuditSessionClosed       AuditAction = "session.closed"
)
