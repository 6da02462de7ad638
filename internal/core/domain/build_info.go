package domain

import "time"

// NativeBuildKey is the build info key under which the native build fingerprint is stored.
const NativeBuildKey = "native"

// BuildInfo records the fingerprint of a completed stage.
type BuildInfo struct {
	Stage       string    `json:"stage,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Flags       []string  `json:"flags,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
