// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/notify"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(identity sec.Identity, timeToLive time.Duration) (string, error)
}

// Notifier queues outbound mail. [notify.Outbox] satisfies it.
type Notifier interface {
	Enqueue(ctx context.Context, message notify.Message) error
}

// CodeGenerator produces plain-text confirmation codes.
type CodeGenerator func() (string, error)

// DefaultCodeGenerator draws a code of the configured length from crypto/rand.
func DefaultCodeGenerator() (string, error) {
	return sec.GenerateCode(constants.ConfirmationCodeLength, constants.ConfirmationCodeAlphabet)
}

// Service implements the signup and token-exchange use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	notifier       Notifier
	generateCode   CodeGenerator
	tokenTTL       time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	notifier Notifier,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		notifier:       notifier,
		generateCode:   DefaultCodeGenerator,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

// WithCodeGenerator replaces the confirmation-code source. Intended for tests.
func (service *Service) WithCodeGenerator(generator CodeGenerator) *Service {
	service.generateCode = generator
	return service
}

// # Signup Flow

// SignupInput is the identity a caller wants to register or re-confirm.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ValidateUsername applies the username rules shared with profile editing.
func ValidateUsername(validator *validate.Validator, username string) *validate.Validator {
	return validator.
		Required(FieldUsername, username).
		MaxLen(FieldUsername, username, UsernameMaxLength).
		Username(FieldUsername, username)
}

// ValidateEmail applies the email rules shared with profile editing.
func ValidateEmail(validator *validate.Validator, email string) *validate.Validator {
	validator.Required(FieldEmail, email).MaxLen(FieldEmail, email, EmailMaxLength)
	if email != "" {
		validator.Email(FieldEmail, email)
	}
	return validator
}

/*
Signup registers an identity (or re-confirms an existing one) and emails a
fresh confirmation code.

Rules:
  - The exact (username, email) pair already registered: the code is regenerated.
  - Username taken with another email, or email taken with another username:
    CONFLICT naming the colliding field; nothing is written.
  - Otherwise a new account with role 'user' is created.

Every successful call enqueues exactly one email. The code itself is never
returned.

Returns:
  - *SignupInput: The echoed identity
  - error: VALIDATION_ERROR, CONFLICT or internal failures
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*SignupInput, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	ValidateUsername(validator, input.Username)
	ValidateEmail(validator, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.resolveSignupUser(ctx, input)
	if err != nil {
		return nil, err
	}

	code, err := service.generateCode()
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_code_failed: %w", err)
	}

	if err := service.userRepository.SetConfirmationCode(ctx, user.ID, codeHash); err != nil {
		return nil, err
	}

	err = service.notifier.Enqueue(ctx, notify.Message{
		To:      user.Email,
		Subject: SignupMailSubject,
		Body:    fmt.Sprintf(signupMailBody, code),
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_enqueue_code_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "signup_code_issued",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &SignupInput{Username: user.Username, Email: user.Email}, nil
}

// resolveSignupUser finds the existing identity for a resend or creates a new one.
func (service *Service) resolveSignupUser(ctx context.Context, input SignupInput) (*User, error) {
	byUsername, err := service.findOptional(ctx, service.userRepository.FindByUsername, input.Username)
	if err != nil {
		return nil, err
	}

	byEmail, err := service.findOptional(ctx, service.userRepository.FindByEmail, input.Email)
	if err != nil {
		return nil, err
	}

	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return byUsername, nil
	case byUsername != nil:
		return nil, apperr.ConflictField(FieldUsername, "A user with that username already exists")
	case byEmail != nil:
		return nil, apperr.ConflictField(FieldEmail, "A user with that email already exists")
	}

	user := &User{
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	// A concurrent signup for the same name loses here with CONFLICT.
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "user_registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// findOptional turns NOT_FOUND into (nil, nil).
func (service *Service) findOptional(
	ctx context.Context,
	find func(context.Context, string) (*User, error),
	key string,
) (*User, error) {
	user, err := find(ctx, key)
	if apperr.HasCode(err, "NOT_FOUND") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # Token Exchange

// TokenInput is a confirmation-code exchange request.
type TokenInput struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
IssueToken exchanges a confirmation code for a bearer access token.

The stored code is single use: it is cleared by any exchange attempt, so a
wrong guess also burns it and the caller must sign up again for a new code.

Returns:
  - string: Signed access token
  - error: NOT_FOUND for an unknown username, VALIDATION_ERROR on
    confirmation_code for a wrong, cleared or missing code
*/
func (service *Service) IssueToken(ctx context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, matched, err := service.userRepository.ConsumeConfirmationCode(ctx, input.Username,
		func(codeHash string) bool {
			return sec.CheckSecret(input.ConfirmationCode, codeHash)
		},
	)
	if err != nil {
		return "", err
	}

	if !matched {
		service.logger.WarnContext(ctx, "confirmation_code_rejected", slog.Int64("user_id", user.ID))
		return "", validate.FieldErr(FieldConfirmationCode, "Invalid confirmation code")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.Identity(), service.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_sign_token_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "token_issued", slog.Int64("user_id", user.ID))
	return token, nil
}

// # Request Identity

/*
ResolveIdentity loads the current role and superuser flag of an account.

Tokens carry the identity as it was at issue time; the authentication
middleware calls this on every request so a demoted or deleted account loses
its privileges before the token expires.

Returns:
  - sec.Identity: The identity as currently stored
  - error: apperr.Unauthorized when the account no longer exists, or storage failures
*/
func (service *Service) ResolveIdentity(ctx context.Context, userID int64) (sec.Identity, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if apperr.HasCode(err, "NOT_FOUND") {
		return sec.Identity{}, apperr.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return sec.Identity{}, err
	}
	return user.Identity(), nil
}
