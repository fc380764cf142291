package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGeneratorIssuesVersion7(t *testing.T) {
	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique ids, got %s twice", first)
	}

	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("parse generated id: %v", err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := &SequenceGenerator{Prefix: "ntf-"}
	for _, want := range []string{"ntf-1", "ntf-2"} {
		got, _ := gen.NewID()
		if got != want {
			t.Fatalf("unexpected id: got=%s want=%s", got, want)
		}
	}
}
