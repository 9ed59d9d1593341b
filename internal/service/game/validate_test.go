package game

import (
	"errors"
	"testing"
)

func TestValidateNames_CommaSeparated(t *testing.T) {
	raw := "Alice, Bob , Carol,Dave, Erin, Frank, Grace, Heidi, Ivan, Judy, Mallory, Niaj, Olivia"

	names, err := ValidateNames(raw)
	if err != nil {
		t.Fatalf("valid list should pass, got: %v", err)
	}

	if len(names) != 13 {
		t.Fatalf("want 13 names, got %d", len(names))
	}

	if names[0] != "Alice" || names[1] != "Bob" || names[3] != "Dave" {
		t.Fatalf("names not trimmed or order not preserved: %v", names)
	}
}

func TestValidateNames_NewlineSeparatedWithEmptyLines(t *testing.T) {
	raw := "Alice\nBob\n\nCarol\nDave\nErin\nFrank\nGrace\nHeidi\nIvan\nJudy\nMallory\nNiaj\nOlivia\n"

	names, err := ValidateNames(raw)
	if err != nil {
		t.Fatalf("valid list should pass, got: %v", err)
	}

	if len(names) != 13 {
		t.Fatalf("want 13 names, got %d", len(names))
	}
}

func TestValidateNames_DuplicatesCaseInsensitive(t *testing.T) {
	raw := "Alice, bob, Carol, Dave, Erin, Frank, Grace, Heidi, Ivan, Judy, Mallory, alice, BOB"

	_, err := ValidateNames(raw)

	var dupErr *DuplicateNameError
	if !errors.As(err, &dupErr) {
		t.Fatalf("want DuplicateNameError, got: %v", err)
	}

	if len(dupErr.Names) != 2 {
		t.Fatalf("want 2 duplicates reported, got %v", dupErr.Names)
	}

	if dupErr.Names[0] != "alice" || dupErr.Names[1] != "BOB" {
		t.Fatalf("duplicates should keep typed casing, got %v", dupErr.Names)
	}
}

func TestValidateNames_CountOutOfRange(t *testing.T) {
	_, err := ValidateNames("Alice, Bob, Carol")

	var countErr *PlayerCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("want PlayerCountError, got: %v", err)
	}

	if countErr.Count != 3 {
		t.Fatalf("want count 3, got %d", countErr.Count)
	}

	raw := "a1,a2,a3,a4,a5,a6,a7,a8,a9,a10,a11,a12,a13,a14,a15,a16"
	_, err = ValidateNames(raw)
	if !errors.As(err, &countErr) {
		t.Fatalf("16 players should fail, got: %v", err)
	}
}
