package rbac

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// RolePermissions is the default policy. A trailing * matches any suffix.
var RolePermissions = map[string][]string{
	RoleViewer: {
		"bank:view",
		"question:view",
		"question:export",
	},
	RoleEditor: {
		"bank:view",
		"question:*",
	},
	RoleAdmin: {
		"*",
	},
}

// Known reports whether role has a policy entry.
func Known(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
