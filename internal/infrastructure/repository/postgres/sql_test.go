package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/courtsight/featuremart/internal/domain/injury"
	"github.com/courtsight/featuremart/internal/domain/odds"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestStatusToString(t *testing.T) {
	if got := statusToString(nil); got != nil {
		t.Fatalf("expected nil for nil status, got %v", *got)
	}

	status := injury.StatusOut
	got := statusToString(&status)
	if got == nil || *got != "Out" {
		t.Fatalf("unexpected status string: %v", got)
	}
}

func TestVsLineToString(t *testing.T) {
	if got := vsLineToString(nil); got != nil {
		t.Fatalf("expected nil for nil vs_line, got %v", *got)
	}

	vsLine := odds.VsOver
	got := vsLineToString(&vsLine)
	if got == nil || *got != "over" {
		t.Fatalf("unexpected vs_line string: %v", got)
	}
}
