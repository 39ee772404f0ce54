package roles

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rowdysden/rowdysden-backend/pkg/db/dbtest"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

func newRoleService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRoleLifecycle(t *testing.T) {
	svc := newRoleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  Admin ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "admin" {
		t.Fatalf("expected normalized name, got %q", created.Name)
	}

	updated, err := svc.Update(ctx, created.ID, "manager")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "manager" {
		t.Fatalf("expected manager, got %q", updated.Name)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one role, got %v (err=%v)", list, err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestRoleDuplicateNameConflicts(t *testing.T) {
	svc := newRoleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "staff"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "STAFF"); !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRoleValidation(t *testing.T) {
	svc := newRoleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "   "); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.New()); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), "x"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
