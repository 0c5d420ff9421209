package registry

import (
	"testing"

	"github.com/jh2023at0610/telefondomino/internal/domino"
)

type passer struct{}

func (passer) ID() string    { return "test-passer" }
func (passer) Title() string { return "Test Passer" }
func (passer) Choose(domino.SeatView) domino.Decision {
	return domino.Decision{Action: domino.ActionPass}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-passer", func() Strategy { return passer{} })

	if !Exists("test-passer") {
		t.Fatal("expected strategy to exist after Register")
	}

	s, err := Create("test-passer")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Title() != "Test Passer" {
		t.Errorf("unexpected title %q", s.Title())
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-passer" {
			found = info.Title == "Test Passer"
		}
	}
	if !found {
		t.Error("List does not include the registered strategy")
	}

	if _, err := Create("nope"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() Strategy { return passer{} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", func() Strategy { return passer{} })
}
