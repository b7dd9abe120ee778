// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity store and the passwordless sign-in flow.

Flow:

 1. POST /auth/signup: a (username, email) pair is registered, or re-sent if
    it already exists, and a one-time confirmation code is emailed.
 2. POST /auth/token: the code is exchanged for a bearer access token. The
    stored code is cleared by the exchange whether or not it matched.

The User entity defined here is shared with the account package, which owns
the profile and administration endpoints.
*/
package auth

import (
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User is a registered identity.
type User struct {
	ID        int64        `json:"-"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
	Superuser bool         `json:"-"`
}

// Identity returns the token subject for the user.
func (u *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.Superuser,
	}
}

// # Field Identifiers

// JSON field names used in validation details.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
)

// # Field Limits

const (
	UsernameMaxLength = 150
	EmailMaxLength    = 254
	NameMaxLength     = 150
)

// # Confirmation Mail

const (
	// SignupMailSubject is the subject of the confirmation-code email.
	SignupMailSubject = "YaMDb registration code"
	// signupMailBody is formatted with the plain confirmation code.
	signupMailBody = "Confirmation code: %s."
)
