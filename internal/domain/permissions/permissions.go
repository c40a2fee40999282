// Package permissions holds the role-based access predicates consulted by
// every mutating handler. Policies are plain functions over the request
// actor so they can be checked both in route middleware and against a
// concrete target object inside a handler.
package permissions

import "reviewhub/proj/internal/domain/models"

// AllowAny admits everyone, including anonymous actors. Used for signup
// and token issuance.
func AllowAny(_ *models.User) bool {
	return true
}

// IsAdminOrReadOnly admits reads for everyone and writes for admins only.
func IsAdminOrReadOnly(user *models.User, write bool) bool {
	if !write {
		return true
	}
	return user != nil && !user.IsAnonymous() && user.IsAdmin()
}

// IsAdminOnly admits admins, for every operation.
func IsAdminOnly(user *models.User) bool {
	return user != nil && !user.IsAnonymous() && user.IsAdmin()
}

// AdminModeratorAuthorOrReadOnly admits reads for everyone; writes require
// an authenticated actor who is an admin, a moderator, or the author of
// the target object.
func AdminModeratorAuthorOrReadOnly(user *models.User, authorID int64, write bool) bool {
	if !write {
		return true
	}
	if user == nil || user.IsAnonymous() {
		return false
	}
	return user.IsAdmin() || user.IsModerator() || user.ID == authorID
}
