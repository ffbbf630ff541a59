package lab

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports a lookup of an absent entity.
var ErrNotFound = errors.New("not found")

// Store persists the lab collections as JSON files under one directory.
// All methods are safe for concurrent use.
type Store struct {
	dir string

	mu          sync.Mutex
	chemicals   map[string]Chemical
	equipment   map[string]Equipment
	experiments map[string]Experiment
}

// Open loads (or initializes) a store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{
		dir:         dir,
		chemicals:   make(map[string]Chemical),
		equipment:   make(map[string]Equipment),
		experiments: make(map[string]Experiment),
	}
	if err := loadFile(s.file("chemicals"), &s.chemicals); err != nil {
		return nil, err
	}
	if err := loadFile(s.file("equipment"), &s.equipment); err != nil {
		return nil, err
	}
	if err := loadFile(s.file("experiments"), &s.experiments); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) file(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func loadFile[T any](path string, into *map[string]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func saveFile[T any](path string, m map[string]T) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// Chemicals returns all chemicals sorted by name.
func (s *Store) Chemicals() []Chemical {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Chemical, 0, len(s.chemicals))
	for _, c := range s.chemicals {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PutChemical inserts or updates a chemical, assigning an ID when empty.
func (s *Store) PutChemical(c Chemical) (Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Name == "" {
		return Chemical{}, fmt.Errorf("chemical name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = time.Now().UTC()
	s.chemicals[c.ID] = c
	return c, saveFile(s.file("chemicals"), s.chemicals)
}

// Chemical looks up one chemical.
func (s *Store) Chemical(id string) (Chemical, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chemicals[id]
	if !ok {
		return Chemical{}, fmt.Errorf("chemical %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// DeleteChemical removes a chemical.
func (s *Store) DeleteChemical(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chemicals[id]; !ok {
		return fmt.Errorf("chemical %s: %w", id, ErrNotFound)
	}
	delete(s.chemicals, id)
	return saveFile(s.file("chemicals"), s.chemicals)
}

// AllEquipment returns all equipment sorted by name.
func (s *Store) AllEquipment() []Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PutEquipment inserts or updates an instrument, assigning an ID when
// empty and defaulting the status to available.
func (s *Store) PutEquipment(e Equipment) (Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Name == "" {
		return Equipment{}, fmt.Errorf("equipment name is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EquipmentAvailable
	}
	switch e.Status {
	case EquipmentAvailable, EquipmentInUse, EquipmentMaintenance, EquipmentOffline:
	default:
		return Equipment{}, fmt.Errorf("invalid equipment status %q", e.Status)
	}
	e.UpdatedAt = time.Now().UTC()
	s.equipment[e.ID] = e
	return e, saveFile(s.file("equipment"), s.equipment)
}

// DeleteEquipment removes an instrument.
func (s *Store) DeleteEquipment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.equipment[id]; !ok {
		return fmt.Errorf("equipment %s: %w", id, ErrNotFound)
	}
	delete(s.equipment, id)
	return saveFile(s.file("equipment"), s.equipment)
}

// Experiments returns all experiments, most recently updated first.
func (s *Store) Experiments() []Experiment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Experiment, 0, len(s.experiments))
	for _, e := range s.experiments {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// PutExperiment inserts or updates an experiment, assigning an ID when
// empty and defaulting the status to planned.
func (s *Store) PutExperiment(e Experiment) (Experiment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Title == "" {
		return Experiment{}, fmt.Errorf("experiment title is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = ExperimentPlanned
	}
	switch e.Status {
	case ExperimentPlanned, ExperimentRunning, ExperimentCompleted, ExperimentAborted:
	default:
		return Experiment{}, fmt.Errorf("invalid experiment status %q", e.Status)
	}
	e.UpdatedAt = time.Now().UTC()
	s.experiments[e.ID] = e
	return e, saveFile(s.file("experiments"), s.experiments)
}

// DeleteExperiment removes an experiment.
func (s *Store) DeleteExperiment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.experiments[id]; !ok {
		return fmt.Errorf("experiment %s: %w", id, ErrNotFound)
	}
	delete(s.experiments, id)
	return saveFile(s.file("experiments"), s.experiments)
}
