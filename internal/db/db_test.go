package db

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewPool_RequiresURL(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	if !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestNewPool_RejectsMalformedURL(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz")
	if err == nil || !strings.Contains(err.Error(), "parse database url") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSchema_IsIdempotent(t *testing.T) {
	for i, stmt := range schema {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Fatalf("statement %d is not idempotent: %s", i+1, stmt)
		}
	}
}
