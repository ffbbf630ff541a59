// Package lab holds the research-platform entities behind the bench
// widgets: chemicals, equipment, and experiments, persisted as JSON
// files in the benchtop data directory.
package lab

import "time"

// Chemical is one inventory entry.
type Chemical struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CASNumber string    `json:"cas_number,omitempty"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Location  string    `json:"location,omitempty"`
	Hazards   []string  `json:"hazards,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EquipmentStatus enumerates instrument availability.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in_use"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentOffline     EquipmentStatus = "offline"
)

// Equipment is one instrument entry.
type Equipment struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	Status    EquipmentStatus `json:"status"`
	Location  string          `json:"location,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ExperimentStatus enumerates experiment lifecycle states.
type ExperimentStatus string

const (
	ExperimentPlanned   ExperimentStatus = "planned"
	ExperimentRunning   ExperimentStatus = "running"
	ExperimentCompleted ExperimentStatus = "completed"
	ExperimentAborted   ExperimentStatus = "aborted"
)

// Experiment is one experiment record.
type Experiment struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Protocol  string           `json:"protocol,omitempty"`
	Status    ExperimentStatus `json:"status"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}
