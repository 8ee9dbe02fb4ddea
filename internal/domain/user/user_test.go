package user

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleStaff, true},
		{RoleAdmin, RoleMember, true},
		{RoleStaff, RoleAdmin, false},
		{RoleStaff, RoleStaff, true},
		{RoleStaff, RoleMember, true},
		{RoleMember, RoleAdmin, false},
		{RoleMember, RoleStaff, false},
		{RoleMember, RoleMember, true},
		{Role("owner"), RoleMember, false},
		{Role(""), Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.min); got != tt.want {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("staff"); !ok || r != RoleStaff {
		t.Fatalf("ParseRole(staff) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("ParseRole(root) should fail")
	}
}

func TestProjectionOmitsHash(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.c", PasswordHash: "$2a$12$secret", FullName: "A", Role: RoleStaff, IsActive: true}

	p := u.Projection()

	if p.ID != "u1" || p.Email != "a@b.c" || p.Role != RoleStaff || !p.IsActive || p.FullName != "A" {
		t.Fatalf("unexpected projection %+v", p)
	}
}
