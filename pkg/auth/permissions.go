package auth

import "strings"

const (
	// PermissionWildcard grants every permission.
	PermissionWildcard = "*"

	PermissionSend  = "notify:send"
	PermissionAdmin = "notify:admin"

	permissionDelimiter = ":"
)

// RequirePermissions succeeds when the identity holds any of required, the
// global wildcard, or a namespace wildcard such as "notify:*" covering one of
// them. An empty required list always succeeds.
func RequirePermissions(id Identity, required ...string) error {
	if len(required) == 0 {
		return nil
	}
	for _, want := range required {
		for _, have := range id.Permissions {
			if permissionMatches(want, have) {
				return nil
			}
		}
	}
	return ErrInsufficientPermissions
}

// HasPermission reports whether the identity holds permission p.
func (i Identity) HasPermission(p string) bool {
	return RequirePermissions(i, p) == nil
}

func permissionMatches(want, have string) bool {
	if want == have || have == PermissionWildcard {
		return true
	}
	if prefix, ok := strings.CutSuffix(have, permissionDelimiter+PermissionWildcard); ok && prefix != "" {
		return strings.HasPrefix(want, prefix+permissionDelimiter)
	}
	return false
}
