// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/notify"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] with the same uniqueness
// and locking guarantees as the Postgres implementation.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*auth.User
	codes  map[int64]string
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[int64]*auth.User{}, codes: map[int64]string{}}
}

func (m *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return apperr.ConflictField("username", "taken")
		}
		if existing.Email == user.Email {
			return apperr.ConflictField("email", "taken")
		}
	}
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUsers) SetConfirmationCode(_ context.Context, userID int64, codeHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return apperr.NotFound("User")
	}
	m.codes[userID] = codeHash
	return nil
}

func (m *memoryUsers) ConsumeConfirmationCode(_ context.Context, username string, verify func(string) bool) (*auth.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, err := m.find(func(u *auth.User) bool { return u.Username == username })
	if err != nil {
		return nil, false, err
	}
	matched := verify(m.codes[user.ID])
	m.codes[user.ID] = ""
	return user, matched, nil
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memoryUsers) storedCode(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, user := range m.users {
		if user.Username == username {
			return m.codes[id]
		}
	}
	return ""
}

// memoryOutbox records enqueued messages.
type memoryOutbox struct {
	mu       sync.Mutex
	messages []notify.Message
	err      error
}

func (o *memoryOutbox) Enqueue(_ context.Context, message notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.messages = append(o.messages, message)
	return nil
}

func (o *memoryOutbox) sent() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message(nil), o.messages...)
}

// lastCode extracts the plain code from the most recent message.
func (o *memoryOutbox) lastCode() string {
	messages := o.sent()
	if len(messages) == 0 {
		return ""
	}
	body := messages[len(messages)-1].Body
	return strings.TrimSuffix(strings.TrimPrefix(body, "Confirmation code: "), ".")
}

type stubTokens struct{ err error }

func (s stubTokens) GenerateAccessToken(identity sec.Identity, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token-%d-%s", identity.UserID, identity.Role), nil
}

// sequenceCodes yields the given codes in order.
func sequenceCodes(codes ...string) auth.CodeGenerator {
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(codes) == 0 {
			return "", errors.New("no more codes")
		}
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
}
