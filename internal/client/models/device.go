package models

import "time"

// DeviceDescriptor identifies this client installation. DeviceID is minted
// once per data directory and is never tied to a session.
type DeviceDescriptor struct {
	DeviceID      string    `json:"device_id"`
	Name          string    `json:"name"`
	BrowserFamily string    `json:"browser_family"`
	OSFamily      string    `json:"os_family"`
	Fingerprint   string    `json:"fingerprint"`
	LastSeenAt    time.Time `json:"last_seen_at"`
}

// RememberedDevice is the opt-in trust assertion written at login.
type RememberedDevice struct {
	DeviceID string    `json:"device_id"`
	SavedAt  time.Time `json:"saved_at"`
}
