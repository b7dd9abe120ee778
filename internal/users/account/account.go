// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile self-service and user administration.

  - /users/me: any authenticated caller reads and patches their own profile.
    A role change from a non-admin caller is silently discarded.
  - /users: admins list, create, read, patch and delete any account.

The User entity and its field rules come from the auth package.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// ListFilter narrows the user list.
type ListFilter struct {
	// Search matches a case-insensitive substring of the username.
	Search string
	Page   pagination.Params
}

// Repository defines the persistence contract for account management.
type Repository interface {
	/*
		FindByID retrieves a user by primary key.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		FindByUsername retrieves a user by username.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		List returns one page of users ordered by username, and the total count.
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	/*
		Create inserts a new account and assigns its ID.

		Returns:
		  - error: apperr.Conflict naming username or email, or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update persists every mutable profile field, including role.

		Returns:
		  - error: apperr.Conflict naming username or email, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account. Reviews and comments cascade.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id int64) error
}

// # Inputs

// CreateInput holds an admin-provisioned account.
type CreateInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// UpdateInput holds a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}
