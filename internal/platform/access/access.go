// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access is the single permission evaluator for the API.

Every mutating operation asks [Allow] (or [Authorize]) whether a caller may
perform an action on a resource. The decision depends only on the caller's
role, the superuser flag, the resource kind and, for user-generated content,
who owns the resource. It performs no I/O, so route middleware and services
can both consult it.

Rules:

  - Reads of catalog entries, reviews and comments are open to everyone.
  - Catalog writes require an admin (or superuser).
  - Creating a review or comment requires any authenticated caller.
  - Editing or deleting a review or comment requires the author, a moderator or an admin.
  - A caller may always read and patch their own profile.
  - User administration is admin only.
*/
package access

import (
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Caller

// Caller is the identity a decision is made for. The zero value is an anonymous caller.
type Caller struct {
	UserID    int64
	Role      sec.UserRole
	Superuser bool
}

// Anonymous reports whether the request carried no valid identity.
func (c Caller) Anonymous() bool {
	return c.UserID == 0
}

// IsAdmin reports whether the caller holds the admin role or the superuser flag.
func (c Caller) IsAdmin() bool {
	return !c.Anonymous() && (c.Role == sec.RoleAdmin || c.Superuser)
}

// IsModerator reports whether the caller may moderate user-generated content.
func (c Caller) IsModerator() bool {
	return c.IsAdmin() || (!c.Anonymous() && c.Role.AtLeast(sec.RoleModerator))
}

// FromClaims converts verified token claims into a [Caller]. Nil claims yield an anonymous caller.
func FromClaims(claims *sec.AuthClaims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{
		UserID:    claims.UserID,
		Role:      sec.UserRole(claims.Role),
		Superuser: claims.Superuser,
	}
}

// # Actions & Resources

// Action is the kind of operation being attempted.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Safe reports whether the action does not mutate state.
func (a Action) Safe() bool {
	return a == ActionRead
}

// Kind identifies the resource family a rule applies to.
type Kind int

const (
	// KindCatalog covers categories, genres and titles.
	KindCatalog Kind = iota
	KindReview
	KindComment
	// KindProfile is the caller's own profile (/users/me).
	KindProfile
	// KindUserAdmin is management of any user account (/users).
	KindUserAdmin
)

// Resource describes the target of an action. OwnerID is the author of a
// review/comment or the subject of a profile, and zero when not applicable.
type Resource struct {
	Kind    Kind
	OwnerID int64
}

// # Decisions

// Allow decides whether caller may perform action on resource.
func Allow(caller Caller, action Action, resource Resource) bool {
	switch resource.Kind {
	case KindCatalog:
		return action.Safe() || caller.IsAdmin()

	case KindReview, KindComment:
		if action.Safe() {
			return true
		}
		if caller.Anonymous() {
			return false
		}
		if action == ActionCreate {
			return true
		}
		return caller.UserID == resource.OwnerID || caller.IsModerator()

	case KindProfile:
		return !caller.Anonymous() && (action == ActionRead || action == ActionUpdate) &&
			caller.UserID == resource.OwnerID

	case KindUserAdmin:
		return caller.IsAdmin()
	}

	return false
}

// Authorize is [Allow] expressed as an error: nil when allowed, 401 for an
// anonymous caller, 403 otherwise. The error never says which rule failed.
func Authorize(caller Caller, action Action, resource Resource) error {
	if Allow(caller, action, resource) {
		return nil
	}
	if caller.Anonymous() {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("Forbidden")
}

// CanAssignRole reports whether caller may change the role field of any profile,
// including their own. Other callers have role changes silently discarded.
func CanAssignRole(caller Caller) bool {
	return caller.IsAdmin()
}
