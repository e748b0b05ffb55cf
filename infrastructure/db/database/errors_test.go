package database

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(ErrNotFound) {
		t.Fatalf("TestIsNotFoundError: ErrNotFound is not recognized")
	}
	if !IsNotFoundError(errors.Wrapf(ErrNotFound, "key %s not found", "abc")) {
		t.Fatalf("TestIsNotFoundError: wrapped ErrNotFound is not recognized")
	}
	if IsNotFoundError(errors.New("not found")) {
		t.Fatalf("TestIsNotFoundError: unrelated error is recognized as ErrNotFound")
	}
}
