// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

var (
	anonymous  = access.Caller{}
	user       = access.Caller{UserID: 10, Role: sec.RoleUser}
	otherUser  = access.Caller{UserID: 11, Role: sec.RoleUser}
	moderator  = access.Caller{UserID: 20, Role: sec.RoleModerator}
	admin      = access.Caller{UserID: 30, Role: sec.RoleAdmin}
	superuser  = access.Caller{UserID: 40, Role: sec.RoleUser, Superuser: true}
	allActions = []access.Action{access.ActionRead, access.ActionCreate, access.ActionUpdate, access.ActionDelete}
)

/*
TestAllow_Catalog verifies read-open, write-admin-only catalog access.
*/
func TestAllow_Catalog(t *testing.T) {
	resource := access.Resource{Kind: access.KindCatalog}

	for _, caller := range []access.Caller{anonymous, user, moderator, admin, superuser} {
		assert.True(t, access.Allow(caller, access.ActionRead, resource))
	}

	for _, action := range allActions[1:] {
		assert.False(t, access.Allow(anonymous, action, resource))
		assert.False(t, access.Allow(user, action, resource))
		assert.False(t, access.Allow(moderator, action, resource))
		assert.True(t, access.Allow(admin, action, resource))
		assert.True(t, access.Allow(superuser, action, resource))
	}
}

/*
TestAllow_Content verifies ownership and moderation rules for reviews and comments.
*/
func TestAllow_Content(t *testing.T) {
	for _, kind := range []access.Kind{access.KindReview, access.KindComment} {
		owned := access.Resource{Kind: kind, OwnerID: user.UserID}

		tests := []struct {
			name    string
			caller  access.Caller
			action  access.Action
			allowed bool
		}{
			{"anonymous_read", anonymous, access.ActionRead, true},
			{"anonymous_create", anonymous, access.ActionCreate, false},
			{"anonymous_delete", anonymous, access.ActionDelete, false},
			{"user_create", otherUser, access.ActionCreate, true},
			{"author_update", user, access.ActionUpdate, true},
			{"author_delete", user, access.ActionDelete, true},
			{"stranger_update", otherUser, access.ActionUpdate, false},
			{"stranger_delete", otherUser, access.ActionDelete, false},
			{"moderator_update", moderator, access.ActionUpdate, true},
			{"moderator_delete", moderator, access.ActionDelete, true},
			{"admin_delete", admin, access.ActionDelete, true},
			{"superuser_delete", superuser, access.ActionDelete, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.allowed, access.Allow(tt.caller, tt.action, owned))
			})
		}
	}
}

/*
TestAllow_Profile verifies that only the subject may read or patch a profile.
*/
func TestAllow_Profile(t *testing.T) {
	own := access.Resource{Kind: access.KindProfile, OwnerID: user.UserID}

	assert.True(t, access.Allow(user, access.ActionRead, own))
	assert.True(t, access.Allow(user, access.ActionUpdate, own))
	assert.False(t, access.Allow(user, access.ActionDelete, own))
	assert.False(t, access.Allow(otherUser, access.ActionRead, own))
	assert.False(t, access.Allow(anonymous, access.ActionRead, own))
}

/*
TestAllow_UserAdmin verifies that user administration is admin only.
*/
func TestAllow_UserAdmin(t *testing.T) {
	resource := access.Resource{Kind: access.KindUserAdmin}

	for _, action := range allActions {
		assert.False(t, access.Allow(user, action, resource))
		assert.False(t, access.Allow(moderator, action, resource))
		assert.True(t, access.Allow(admin, action, resource))
		assert.True(t, access.Allow(superuser, action, resource))
	}
}

/*
TestAuthorize_ErrorKinds verifies 401 for anonymous callers and 403 otherwise.
*/
func TestAuthorize_ErrorKinds(t *testing.T) {
	resource := access.Resource{Kind: access.KindCatalog}

	assert.NoError(t, access.Authorize(admin, access.ActionCreate, resource))
	assert.True(t, apperr.HasCode(access.Authorize(anonymous, access.ActionCreate, resource), "UNAUTHORIZED"))

	err := access.Authorize(user, access.ActionCreate, resource)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
	assert.Equal(t, "Forbidden", err.Error())
}

/*
TestCanAssignRole verifies that only admins may change roles.
*/
func TestCanAssignRole(t *testing.T) {
	assert.False(t, access.CanAssignRole(user))
	assert.False(t, access.CanAssignRole(moderator))
	assert.True(t, access.CanAssignRole(admin))
	assert.True(t, access.CanAssignRole(superuser))
}

/*
TestFromClaims maps token claims into a caller.
*/
func TestFromClaims(t *testing.T) {
	assert.True(t, access.FromClaims(nil).Anonymous())

	caller := access.FromClaims(&sec.AuthClaims{UserID: 7, Role: "moderator"})
	assert.Equal(t, int64(7), caller.UserID)
	assert.True(t, caller.IsModerator())
	assert.False(t, caller.IsAdmin())
}
