package lab

import (
	"errors"
	"testing"
)

func TestChemicalCRUDPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	c, err := s.PutChemical(Chemical{Name: "Acetone", CASNumber: "67-64-1", Quantity: 2.5, Unit: "L", Hazards: []string{"flammable"}})
	if err != nil {
		t.Fatalf("PutChemical: %v", err)
	}
	if c.ID == "" {
		t.Fatal("PutChemical did not assign an ID")
	}

	// reopen to prove persistence
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.Chemical(c.ID)
	if err != nil {
		t.Fatalf("Chemical: %v", err)
	}
	if got.Name != "Acetone" || got.Quantity != 2.5 || len(got.Hazards) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}

	if err := s2.DeleteChemical(c.ID); err != nil {
		t.Fatalf("DeleteChemical: %v", err)
	}
	if _, err := s2.Chemical(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestChemicalsSortedByName(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Toluene", "Acetone", "Methanol"} {
		if _, err := s.PutChemical(Chemical{Name: name, Unit: "L"}); err != nil {
			t.Fatal(err)
		}
	}
	got := s.Chemicals()
	want := []string{"Acetone", "Methanol", "Toluene"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("Chemicals()[%d] = %q, want %q", i, got[i].Name, want[i])
		}
	}
}

func TestEquipmentStatusValidation(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	e, err := s.PutEquipment(Equipment{Name: "Centrifuge A"})
	if err != nil {
		t.Fatalf("PutEquipment: %v", err)
	}
	if e.Status != EquipmentAvailable {
		t.Errorf("default status = %q, want available", e.Status)
	}

	e.Status = EquipmentMaintenance
	if _, err := s.PutEquipment(e); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if _, err := s.PutEquipment(Equipment{Name: "Bad", Status: "exploded"}); err == nil {
		t.Error("invalid status accepted")
	}
	if _, err := s.PutEquipment(Equipment{}); err == nil {
		t.Error("empty name accepted")
	}
}

func TestExperimentDefaults(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	e, err := s.PutExperiment(Experiment{Title: "Buffer titration"})
	if err != nil {
		t.Fatalf("PutExperiment: %v", err)
	}
	if e.Status != ExperimentPlanned {
		t.Errorf("default status = %q, want planned", e.Status)
	}

	if err := s.DeleteExperiment("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
