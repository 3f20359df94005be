package user

import "strings"

type Permission string

const (
	PermissionAttendanceCreate Permission = "attendance.create"
	PermissionAttendanceView   Permission = "attendance.view"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionUserView         Permission = "user.view"
	PermissionUserManage       Permission = "user.manage"
	PermissionOrgManage        Permission = "org.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[string][]Permission{
	RoleManagement: {
		PermissionAttendanceCreate,
		PermissionAttendanceView,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionUserView,
		PermissionUserManage,
		PermissionOrgManage,
	},
	RoleEmployee: {
		PermissionAttendanceCreate,
		PermissionAttendanceView,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionUserView,
	},
	RoleIntern: {
		PermissionAttendanceCreate,
		PermissionAttendanceView,
		PermissionLeaveCreate,
		PermissionUserView,
	},
}

// HasPermission checks a role name case-insensitively. Unknown roles get
// employee permissions.
func HasPermission(role string, permission Permission) bool {
	perms, ok := RolePermissions[canonicalRole(role)]
	if !ok {
		perms = RolePermissions[RoleEmployee]
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

func canonicalRole(role string) string {
	for name := range RolePermissions {
		if strings.EqualFold(name, role) {
			return name
		}
	}
	return role
}
