package common

import (
	"errors"
	"strings"
	"testing"
)

func TestFleetErr(t *testing.T) {
	err := NewFleetErr(PoolExhausted, "no identity for position 6")

	if !Is(err, PoolExhausted) {
		t.Fatalf("Is should match the error type")
	}
	if Is(err, Configuration) {
		t.Fatalf("Is should not match a different type")
	}
	if Is(errors.New("plain"), PoolExhausted) {
		t.Fatalf("Is should not match foreign errors")
	}

	if !strings.Contains(err.Error(), "no identity for position 6") {
		t.Fatalf("detail lost: %s", err.Error())
	}
}
