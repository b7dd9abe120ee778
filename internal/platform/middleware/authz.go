// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Defining it here decouples the middleware from [sec.TokenService] so tests
// can inject a stub.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver loads the stored identity behind a verified token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID int64) (sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No 'Authorization' header: the request proceeds as anonymous.
//  2. A header that is not 'Bearer <token>': 401.
//  3. A token that fails verification: 401.
//  4. The account is re-read through resolver; a missing account is 401.
//  5. The claims, with role and superuser flag taken from storage, are
//     injected into the request context.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if apperr.HasCode(err, "NOT_FOUND") {
				err = apperr.Unauthorized("Account no longer exists")
			}
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			current := *claims
			current.Username = identity.Username
			current.Role = identity.Role.String()
			current.Superuser = identity.Superuser

			ctx := ctxutil.WithAuthUser(request.Context(), &current)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission consults the permission evaluator for resources that
// have no owner (catalog entries, user administration).
//
// Safe methods map to [access.ActionRead]; everything else maps to the
// action derived from the HTTP method. Ownership-based decisions happen in
// the services, which know the resource author.
func RequirePermission(kind access.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			caller := ctxutil.GetCaller(request.Context())
			action := ActionFor(request.Method)

			if err := access.Authorize(caller, action, access.Resource{Kind: kind}); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// ActionFor maps an HTTP method to an [access.Action].
func ActionFor(method string) access.Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return access.ActionRead
	case http.MethodPost:
		return access.ActionCreate
	case http.MethodDelete:
		return access.ActionDelete
	default:
		return access.ActionUpdate
	}
}
