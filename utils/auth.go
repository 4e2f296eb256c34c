package utils

import (
	"slices"

	"standup/model"
)

// CheckAuth reports whether a user may run privileged standup commands:
// either listed as a developer or holding one of the admin roles.
func CheckAuth(auth model.Auth, userID string, roles []string) bool {
	if slices.Contains(auth.Developers, userID) {
		return true
	}

	for _, role := range roles {
		if slices.Contains(auth.AdminsRoles, role) {
			return true
		}
	}

	return false
}
