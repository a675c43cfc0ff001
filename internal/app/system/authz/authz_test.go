package authz

import "testing"

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleGuest, RoleMember, RoleTreasurer, RoleAdmin, RoleInternalAuditor} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "superadmin", "Admin", "TREASURER"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true", role)
		}
	}
}

func TestRoleSets(t *testing.T) {
	if got := AdminOnly(); len(got) != 1 || got[0] != RoleAdmin {
		t.Errorf("AdminOnly() = %v", got)
	}
	for _, role := range LedgerRoles() {
		if !IsValidRole(role) {
			t.Errorf("LedgerRoles contains unknown role %q", role)
		}
	}
	for _, role := range ManageRoles() {
		if !IsValidRole(role) {
			t.Errorf("ManageRoles contains unknown role %q", role)
		}
	}
}
