// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// Service implements profile and user-administration use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Self-service

/*
GetProfile returns the caller's own account.

Returns:
  - error: 401 for anonymous callers, NOT_FOUND if the account was deleted
*/
func (service *Service) GetProfile(ctx context.Context, caller access.Caller) (*auth.User, error) {
	if err := access.Authorize(caller, access.ActionRead, profileOf(caller)); err != nil {
		return nil, err
	}
	return service.repository.FindByID(ctx, caller.UserID)
}

/*
UpdateProfile applies a partial update to the caller's own account.

A role in the payload is honoured only for callers allowed to assign roles;
for everyone else the stored role is kept and the request still succeeds.
*/
func (service *Service) UpdateProfile(ctx context.Context, caller access.Caller, input UpdateInput) (*auth.User, error) {
	if err := access.Authorize(caller, access.ActionUpdate, profileOf(caller)); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if !access.CanAssignRole(caller) {
		input.Role = nil
	}

	return service.applyUpdate(ctx, user, input)
}

func profileOf(caller access.Caller) access.Resource {
	return access.Resource{Kind: access.KindProfile, OwnerID: caller.UserID}
}

// # Administration

var adminResource = access.Resource{Kind: access.KindUserAdmin}

// List returns one page of users for an admin caller.
func (service *Service) List(ctx context.Context, caller access.Caller, filter ListFilter) ([]*auth.User, int, error) {
	if err := access.Authorize(caller, access.ActionRead, adminResource); err != nil {
		return nil, 0, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return service.repository.List(ctx, filter)
}

// Get returns any user by username for an admin caller.
func (service *Service) Get(ctx context.Context, caller access.Caller, username string) (*auth.User, error) {
	if err := access.Authorize(caller, access.ActionRead, adminResource); err != nil {
		return nil, err
	}
	return service.repository.FindByUsername(ctx, username)
}

/*
Create provisions an account directly. No confirmation code is issued; the
user obtains one through signup with the same username and email.
*/
func (service *Service) Create(ctx context.Context, caller access.Caller, input CreateInput) (*auth.User, error) {
	if err := access.Authorize(caller, access.ActionCreate, adminResource); err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = sec.RoleUser.String()
	}

	validator := &validate.Validator{}
	auth.ValidateUsername(validator, input.Username)
	auth.ValidateEmail(validator, input.Email)
	validateNames(validator, input.FirstName, input.LastName)
	validateRole(validator, input.Role)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_provisioned",
		slog.Int64("user_id", user.ID),
		slog.Int64("admin_id", caller.UserID),
	)
	return user, nil
}

// Update applies a partial update to any account for an admin caller.
func (service *Service) Update(ctx context.Context, caller access.Caller, username string, input UpdateInput) (*auth.User, error) {
	if err := access.Authorize(caller, access.ActionUpdate, adminResource); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return service.applyUpdate(ctx, user, input)
}

// Delete removes any account for an admin caller.
func (service *Service) Delete(ctx context.Context, caller access.Caller, username string) error {
	if err := access.Authorize(caller, access.ActionDelete, adminResource); err != nil {
		return err
	}

	user, err := service.repository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, user.ID); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "user_deleted",
		slog.Int64("user_id", user.ID),
		slog.Int64("admin_id", caller.UserID),
	)
	return nil
}

// # Helpers

// applyUpdate validates the delta, merges it into user and persists the result.
func (service *Service) applyUpdate(ctx context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	validator := &validate.Validator{}

	if input.Username != nil {
		*input.Username = strings.TrimSpace(*input.Username)
		auth.ValidateUsername(validator, *input.Username)
	}
	if input.Email != nil {
		*input.Email = strings.TrimSpace(*input.Email)
		auth.ValidateEmail(validator, *input.Email)
	}
	if input.FirstName != nil {
		validator.MaxLen(auth.FieldFirstName, *input.FirstName, auth.NameMaxLength)
	}
	if input.LastName != nil {
		validator.MaxLen(auth.FieldLastName, *input.LastName, auth.NameMaxLength)
	}
	if input.Role != nil {
		validateRole(validator, *input.Role)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	pointer.Apply(&user.Username, input.Username)
	pointer.Apply(&user.Email, input.Email)
	pointer.Apply(&user.FirstName, input.FirstName)
	pointer.Apply(&user.LastName, input.LastName)
	pointer.Apply(&user.Bio, input.Bio)
	pointer.ApplyFunc(&user.Role, input.Role, func(role string) sec.UserRole { return sec.UserRole(role) })

	if err := service.repository.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_profile_updated", slog.Int64("user_id", user.ID))
	return user, nil
}

func validateRole(validator *validate.Validator, role string) {
	validator.Custom(auth.FieldRole, !sec.UserRole(role).Valid(),
		"Must be one of: "+strings.Join(sec.RoleNames(), ", "))
}

func validateNames(validator *validate.Validator, firstName, lastName string) {
	validator.MaxLen(auth.FieldFirstName, firstName, auth.NameMaxLength).
		MaxLen(auth.FieldLastName, lastName, auth.NameMaxLength)
}
