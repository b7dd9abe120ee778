// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func TestRequestScope(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx = ctxutil.WithLogger(ctxutil.WithRequestID(ctx, "0190c5d2-req"), logger)

	assert.Equal(t, "0190c5d2-req", ctxutil.GetRequestID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name          string
		claims        *sec.AuthClaims
		wantAnonymous bool
		wantModerator bool
	}{
		{"anonymous", nil, true, false},
		{"user", &sec.AuthClaims{UserID: 3, Username: "bob", Role: "user"}, false, false},
		{"moderator", &sec.AuthClaims{UserID: 2, Username: "mod", Role: "moderator"}, false, true},
		{"superuser_with_user_role", &sec.AuthClaims{UserID: 1, Role: "user", Superuser: true}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ctxutil.WithAuthUser(context.Background(), tt.claims)
			caller := ctxutil.GetCaller(ctx)

			assert.Equal(t, tt.wantAnonymous, caller.Anonymous())
			assert.Equal(t, tt.wantModerator, caller.IsModerator())

			if tt.claims == nil {
				assert.Nil(t, ctxutil.GetAuthUser(ctx))
				return
			}
			require.NotNil(t, ctxutil.GetAuthUser(ctx))
			assert.Equal(t, tt.claims.UserID, caller.UserID)
		})
	}
}
