package types

import (
	"strings"

	"github.com/Temutjin2k/qglide-admin/pkg/validator"
)

type ServiceMode string

// Console - local HTTP and WebSocket server for the browser dashboard
// Tickets - terminal support-ticket watcher
const (
	ConsoleMode ServiceMode = "console"
	TicketsMode ServiceMode = "tickets"
)

func (m ServiceMode) String() string {
	return string(m)
}

type Timeframe string

const (
	Week  Timeframe = "week"
	Month Timeframe = "month"
	Year  Timeframe = "year"
)

// ParseTimeframe accepts week, month or year in any case. An empty value
// means week.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(s)))
	switch {
	case tf == "":
		return Week, nil
	case validator.PermittedValue(tf, Week, Month, Year):
		return tf, nil
	default:
		return "", ErrInvalidTimeframe
	}
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketPending    TicketStatus = "pending"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// TicketStatuses is the order the status filter and status cycle walk through.
var TicketStatuses = []TicketStatus{TicketOpen, TicketPending, TicketInProgress, TicketResolved, TicketClosed}

// IsTerminal reports whether polling must stop for a ticket in this status.
func (s TicketStatus) IsTerminal() bool {
	switch TicketStatus(strings.ToLower(string(s))) {
	case TicketResolved, TicketClosed:
		return true
	}
	return false
}

func (s TicketStatus) Valid() bool {
	return validator.PermittedValue(TicketStatus(strings.ToLower(string(s))), TicketStatuses...)
}

func (s TicketStatus) String() string {
	return string(s)
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserBanned    UserStatus = "banned"
)

var UserStatuses = []UserStatus{UserActive, UserInactive, UserSuspended, UserBanned}

func (s UserStatus) Valid() bool {
	return validator.PermittedValue(UserStatus(strings.ToLower(string(s))), UserStatuses...)
}

type DriverStatus string

const (
	DriverOnline  DriverStatus = "online"
	DriverOffline DriverStatus = "offline"
	DriverBusy    DriverStatus = "busy"
)

type RideStatus string

const (
	RidePending    RideStatus = "pending"
	RideAccepted   RideStatus = "accepted"
	RideInProgress RideStatus = "in_progress"
	RideCompleted  RideStatus = "completed"
	RideCancelled  RideStatus = "cancelled"
)

// IsSentinel reports whether a filter value means "no constraint".
func IsSentinel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "any":
		return true
	}
	return false
}
