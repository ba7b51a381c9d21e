package sqlite

import (
	"context"
	"errors"
	"testing"

	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
)

func TestCreateRole_SlugCollisions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRole(ctx, "Veterans!!", "")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	second, err := s.CreateRole(ctx, "Veterans", "")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	third, err := s.CreateRole(ctx, "veterans?", "")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	if first.Slug != "veterans" {
		t.Errorf("first slug: got %q", first.Slug)
	}
	if second.Slug != "veterans-2" {
		t.Errorf("second slug: got %q", second.Slug)
	}
	if third.Slug != "veterans-3" {
		t.Errorf("third slug: got %q", third.Slug)
	}

	fallback, err := s.CreateRole(ctx, "!!!", "")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if fallback.Slug != "role" {
		t.Errorf("fallback slug: got %q", fallback.Slug)
	}
}

func TestCreateRole_NameConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateRole(ctx, "Veterans!!", ""); err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	_, err := s.CreateRole(ctx, "  Veterans!! ", "")
	if !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreateRole_Validation(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateRole(context.Background(), "   ", "#ffffff")
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateRole_Color(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	good, err := s.CreateRole(ctx, "Staff", " #A1b2C3 ")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if good.Color == nil || *good.Color != "#A1b2C3" {
		t.Errorf("valid color: got %v", good.Color)
	}

	bad, err := s.CreateRole(ctx, "Fan", "red")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if bad.Color != nil {
		t.Errorf("invalid color should be dropped, got %q", *bad.Color)
	}

	got, err := s.GetRole(ctx, bad.ID)
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if got.Color != nil {
		t.Errorf("stored color: got %q, want NULL", *got.Color)
	}
}

func TestUpdateRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	role, err := s.CreateRole(ctx, "Drum Major", "#000000")
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if _, err := s.CreateRole(ctx, "Judge", ""); err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	if err := s.UpdateRole(ctx, role.ID, "Head Drum Major", "#ffffff"); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	got, err := s.GetRole(ctx, role.ID)
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if got.Name != "Head Drum Major" || got.Slug != "drum-major" {
		t.Errorf("slug must not change on rename: %+v", got)
	}
	if got.Color == nil || *got.Color != "#ffffff" {
		t.Errorf("color: got %v", got.Color)
	}

	if err := s.UpdateRole(ctx, role.ID, "Judge", ""); !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("rename onto existing name: expected conflict, got %v", err)
	}
	if err := s.UpdateRole(ctx, 999, "Ghost", ""); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("missing role: expected not found, got %v", err)
	}
	if err := s.UpdateRole(ctx, role.ID, " ", ""); !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("blank name: expected validation error, got %v", err)
	}
}

func TestListRoles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"staff", "Alumni", "Judge"} {
		if _, err := s.CreateRole(ctx, name, ""); err != nil {
			t.Fatalf("CreateRole: %v", err)
		}
	}

	roles, err := s.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	var names []string
	for _, r := range roles {
		names = append(names, r.Name)
	}
	want := []string{"Alumni", "Judge", "staff"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
			break
		}
	}
}

func TestAssignRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := mustCreateUser(t, s, "admin")
	u := mustCreateUser(t, s, "alice")
	vet, _ := s.CreateRole(ctx, "Veteran", "")
	judge, _ := s.CreateRole(ctx, "Judge", "")

	if err := s.AssignRole(ctx, u.ID, judge.ID, &admin.ID); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	if err := s.AssignRole(ctx, u.ID, vet.ID, &admin.ID); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	// Re-assigning keeps the original assignment time, so Judge stays primary.
	if err := s.AssignRole(ctx, u.ID, judge.ID, nil); err != nil {
		t.Fatalf("AssignRole duplicate: %v", err)
	}

	roles, err := s.RolesForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("RolesForUser: %v", err)
	}
	if len(roles) != 2 || roles[0].ID != judge.ID || roles[1].ID != vet.ID {
		t.Fatalf("unexpected roles: %+v", roles)
	}

	primary, err := s.PrimaryRoleForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("PrimaryRoleForUser: %v", err)
	}
	if primary == nil || primary.ID != judge.ID {
		t.Errorf("primary: got %+v, want Judge", primary)
	}

	if err := s.RemoveRole(ctx, u.ID, judge.ID); err != nil {
		t.Fatalf("RemoveRole: %v", err)
	}
	if err := s.RemoveRole(ctx, u.ID, judge.ID); err != nil {
		t.Errorf("RemoveRole twice: %v", err)
	}
	primary, err = s.PrimaryRoleForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("PrimaryRoleForUser: %v", err)
	}
	if primary == nil || primary.ID != vet.ID {
		t.Errorf("primary after removal: got %+v, want Veteran", primary)
	}
}

func TestAssignRole_Unknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	role, _ := s.CreateRole(ctx, "Veteran", "")

	if err := s.AssignRole(ctx, u.ID, 999, nil); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("unknown role: expected not found, got %v", err)
	}
	if err := s.AssignRole(ctx, 999, role.ID, nil); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
}

func TestDeleteRole_CascadesAssignments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "alice")
	role, _ := s.CreateRole(ctx, "Veteran", "")
	if err := s.AssignRole(ctx, u.ID, role.ID, nil); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}

	if err := s.DeleteRole(ctx, role.ID); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}

	roles, err := s.RolesForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("RolesForUser: %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("expected no roles after delete, got %d", len(roles))
	}
	primary, err := s.PrimaryRoleForUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("PrimaryRoleForUser: %v", err)
	}
	if primary != nil {
		t.Errorf("expected no primary role, got %+v", primary)
	}

	if _, err := s.GetRole(ctx, role.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetRole after delete: expected not found, got %v", err)
	}
	if err := s.DeleteRole(ctx, role.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("DeleteRole twice: expected not found, got %v", err)
	}
}
