package logger

import (
	"errors"
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("status = %s", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Fatalf("status = %s", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("rounded = %s", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("negative = %s", got)
	}
}
