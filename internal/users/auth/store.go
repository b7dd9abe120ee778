// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the identity storage used by the sign-in flow.
type UserRepository interface {

	/*
		FindByID returns the account with the given primary key.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, or storage failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a new account and assigns its ID.

		Returns:
		  - error: apperr.Conflict naming the colliding field when a
		    concurrent insert won the race, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		SetConfirmationCode replaces the stored code hash of a user.
	*/
	SetConfirmationCode(context context.Context, userID int64, codeHash string) error

	/*
		ConsumeConfirmationCode atomically locks the user row, passes the
		stored hash to verify, and clears the stored code regardless of the
		outcome. An empty stored hash is passed through unchanged; verify is
		expected to reject it.

		Returns:
		  - *User: The locked account
		  - bool: Whether verify accepted the stored hash
		  - error: apperr.NotFound when the username is unknown
	*/
	ConsumeConfirmationCode(context context.Context, username string, verify func(codeHash string) bool) (*User, bool, error)
}
