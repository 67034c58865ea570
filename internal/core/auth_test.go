package core

import (
	"context"
	"errors"
	"testing"

	"dischargecore/pkg/domain"
)

func TestStaticAuthorizer(t *testing.T) {
	auth := NewStaticAuthorizer("nurse-01", "case-manager")
	ctx := context.Background()
	if err := auth.Authorize(ctx, "nurse-01"); err != nil {
		t.Fatalf("expected nurse accepted: %v", err)
	}
	err := auth.Authorize(ctx, "visitor")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAllowAllAuthorizer(t *testing.T) {
	if err := (AllowAllAuthorizer{}).Authorize(context.Background(), "anyone"); err != nil {
		t.Fatalf("expected accept: %v", err)
	}
}
