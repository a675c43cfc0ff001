// internal/app/system/authz/roles.go
package authz

// Member roles, lowest privilege first. Office-bearer roles
// (president through internal-auditor) carry committee privileges;
// admin is the operational superuser.
const (
	RoleGuest               = "guest"
	RoleMember              = "member"
	RolePresident           = "president"
	RoleVicePresident       = "vice-president"
	RoleSecretary           = "secretary"
	RoleAssistantSecretary  = "assistant-secretary"
	RoleTreasurer           = "treasurer"
	RoleAssistantTreasurer  = "assistant-treasurer"
	RoleActivityCoordinator = "activity-coordinator"
	RoleCommitteeMember     = "committee-member"
	RoleInternalAuditor     = "internal-auditor"
	RoleAdmin               = "admin"
)

var allRoles = map[string]struct{}{
	RoleGuest: {}, RoleMember: {}, RolePresident: {}, RoleVicePresident: {},
	RoleSecretary: {}, RoleAssistantSecretary: {}, RoleTreasurer: {},
	RoleAssistantTreasurer: {}, RoleActivityCoordinator: {},
	RoleCommitteeMember: {}, RoleInternalAuditor: {}, RoleAdmin: {},
}

// IsValidRole reports whether role is one of the known member roles.
func IsValidRole(role string) bool {
	_, ok := allRoles[role]
	return ok
}

// ManageRoles is the set allowed to manage member records.
func ManageRoles() []string {
	return []string{RoleAdmin, RolePresident, RoleSecretary}
}

// LedgerRoles is the set allowed to write accounting records.
func LedgerRoles() []string {
	return []string{RoleAdmin, RoleTreasurer, RoleAssistantTreasurer}
}

// AdminOnly is the set for destructive operations (member deletion,
// manual backups).
func AdminOnly() []string {
	return []string{RoleAdmin}
}
