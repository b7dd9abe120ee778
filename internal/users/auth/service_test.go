// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

type fixture struct {
	users   *memoryUsers
	outbox  *memoryOutbox
	service *auth.Service
}

func newFixture() *fixture {
	users := newMemoryUsers()
	outbox := &memoryOutbox{}
	service := auth.NewService(users, stubTokens{}, outbox, time.Hour, slog.Default())
	return &fixture{users: users, outbox: outbox, service: service}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	require.NotEmpty(t, appErr.Details)
	return appErr.Details[0].Field
}

func TestSignup_NewIdentity(t *testing.T) {
	f := newFixture()

	result, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Username)
	assert.Equal(t, "bob@x.com", result.Email)

	assert.Equal(t, 1, f.users.count())
	assert.NotEmpty(t, f.users.storedCode("bob"))

	messages := f.outbox.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "bob@x.com", messages[0].To)
	assert.Equal(t, auth.SignupMailSubject, messages[0].Subject)
	assert.Regexp(t, `^Confirmation code: [0-9A-Z]{6}\.$`, messages[0].Body)

	// The stored code is a hash, never the plain code.
	assert.NotEqual(t, f.outbox.lastCode(), f.users.storedCode("bob"))

	user, err := f.users.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role.String())
}

func TestSignup_ResendRegeneratesCode(t *testing.T) {
	f := newFixture()
	f.service.WithCodeGenerator(sequenceCodes("AAAAAA", "BBBBBB"))
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	firstHash := f.users.storedCode("bob")

	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.users.count())
	assert.NotEqual(t, firstHash, f.users.storedCode("bob"))
	assert.Len(t, f.outbox.sent(), 2)
	assert.Equal(t, "BBBBBB", f.outbox.lastCode())
}

func TestSignup_Conflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	t.Run("username_taken", func(t *testing.T) {
		_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "other@x.com"})
		assert.True(t, apperr.HasCode(err, "CONFLICT"))
		assert.Equal(t, "username", fieldOf(t, err))
	})

	t.Run("email_taken", func(t *testing.T) {
		_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "bob@x.com"})
		assert.True(t, apperr.HasCode(err, "CONFLICT"))
		assert.Equal(t, "email", fieldOf(t, err))
	})

	assert.Equal(t, 1, f.users.count())
	assert.Len(t, f.outbox.sent(), 1)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
		field string
	}{
		{"reserved_username", auth.SignupInput{Username: "me", Email: "me@x.com"}, "username"},
		{"bad_characters", auth.SignupInput{Username: "bob smith", Email: "bob@x.com"}, "username"},
		{"username_too_long", auth.SignupInput{Username: strings.Repeat("a", 151), Email: "bob@x.com"}, "username"},
		{"missing_username", auth.SignupInput{Email: "bob@x.com"}, "username"},
		{"bad_email", auth.SignupInput{Username: "bob", Email: "not-an-email"}, "email"},
		{"email_too_long", auth.SignupInput{Username: "bob", Email: strings.Repeat("a", 250) + "@x.com"}, "email"},
		{"missing_email", auth.SignupInput{Username: "bob"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.Signup(context.Background(), tt.input)
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
			assert.Equal(t, tt.field, fieldOf(t, err))
			assert.Zero(t, f.users.count())
			assert.Empty(t, f.outbox.sent())
		})
	}
}

func TestSignup_EnqueueFailure(t *testing.T) {
	f := newFixture()
	f.outbox.err = errors.New("redis down")

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))
}

// For all fresh pairs: one identity, one dispatch, a non-empty stored code.
func TestSignup_FreshPairsProperty(t *testing.T) {
	f := newFixture()
	faker := gofakeit.New(7)

	for i := 0; i < 25; i++ {
		username := fmt.Sprintf("%s_%d", faker.LetterN(8), i)
		email := fmt.Sprintf("%s.%d@%s", strings.ToLower(faker.LetterN(6)), i, faker.DomainName())

		_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: username, Email: email})
		require.NoError(t, err, "signup %q <%s>", username, email)

		assert.Equal(t, i+1, f.users.count())
		assert.Len(t, f.outbox.sent(), i+1)
		assert.NotEmpty(t, f.users.storedCode(username))
	}
}

// bob signs up, guesses wrong, the right code is now burned, a resend gives a new code.
func TestIssueToken_FailClosedScenario(t *testing.T) {
	f := newFixture()
	f.service.WithCodeGenerator(sequenceCodes("C1C1C1", "C3C3C3"))
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: "C2C2C2"})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	assert.Equal(t, "confirmation_code", fieldOf(t, err))
	assert.Empty(t, f.users.storedCode("bob"))

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: "C1C1C1"})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	token, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: "C3C3C3"})
	require.NoError(t, err)
	assert.Equal(t, "token-1-user", token)
}

func TestIssueToken_CodeIsSingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	code := f.outbox.lastCode()

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: code})
	require.NoError(t, err)

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

func TestIssueToken_ConcurrentExchange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	code := f.outbox.lastCode()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "bob", ConfirmationCode: code}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestIssueToken_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("unknown_user", func(t *testing.T) {
		_, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "ghost", ConfirmationCode: "ABCDEF"})
		assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	})

	t.Run("missing_fields", func(t *testing.T) {
		_, err := f.service.IssueToken(ctx, auth.TokenInput{})
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Len(t, appErr.Details, 2)
	})

	t.Run("never_issued", func(t *testing.T) {
		require.NoError(t, f.users.Create(ctx, &auth.User{Username: "carol", Email: "carol@x.com", Role: "user"}))
		_, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "carol", ConfirmationCode: "ABCDEF"})
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})
}

func TestResolveIdentity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "eve", Email: "eve@x.com"})
	require.NoError(t, err)
	eve, err := f.users.FindByUsername(ctx, "eve")
	require.NoError(t, err)

	identity, err := f.service.ResolveIdentity(ctx, eve.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, identity.Role)

	f.users.mu.Lock()
	f.users.users[eve.ID].Role = sec.RoleModerator
	f.users.mu.Unlock()

	identity, err = f.service.ResolveIdentity(ctx, eve.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, identity.Role)
	assert.Equal(t, "eve", identity.Username)

	_, err = f.service.ResolveIdentity(ctx, 404)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}
