package authz

import (
	"context"
	"errors"
	"testing"
)

func TestUserFromContext(t *testing.T) {
	if user := UserFromContext(context.Background()); user != nil {
		t.Fatalf("expected nil user for empty context, got %+v", user)
	}

	want := &AuthUser{UserID: 1, CustomerID: 2, Username: "alice", Role: "customer"}
	ctx := ContextWithUser(context.Background(), want)
	if got := UserFromContext(ctx); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRequireRole(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{UserID: 1, Role: "staff"})

	if err := RequireRole(ctx, "staff"); err != nil {
		t.Errorf("staff should pass staff check: %v", err)
	}
	if err := RequireRole(ctx, "customer"); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff checking customer role: got %v, want ErrForbidden", err)
	}
	if err := RequireRole(context.Background(), "staff"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty context: got %v, want ErrUnauthenticated", err)
	}
}

func TestRequireCustomer(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{UserID: 1, CustomerID: 7, Role: "customer"})
	id, err := RequireCustomer(ctx)
	if err != nil {
		t.Fatalf("RequireCustomer: %v", err)
	}
	if id != 7 {
		t.Errorf("customer id = %d, want 7", id)
	}

	staffCtx := ContextWithUser(context.Background(), &AuthUser{UserID: 2, Role: "staff"})
	if _, err := RequireCustomer(staffCtx); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff without profile: got %v, want ErrForbidden", err)
	}
	if _, err := RequireCustomer(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty context: got %v, want ErrUnauthenticated", err)
	}
}
