package models

import "time"

// SessionInfo is what the console can tell about the stored token without
// asking the server. It is display-only: validity is the server's call.
type SessionInfo struct {
	LoggedIn    bool      `json:"logged_in"`
	Email       string    `json:"email,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Role        string    `json:"role,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	Expired     bool      `json:"expired"`
	Fingerprint string    `json:"fingerprint,omitempty"`
}
