package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AsMember attaches ordinary-member claims for the given member ID.
func AsMember(r *http.Request, memberID string) *http.Request {
	return auth.WithTestClaims(r, &auth.Claims{
		MemberID:   memberID,
		MemberRole: authz.RoleMember,
		Email:      memberID + "@test.example",
		FirstName:  "Test",
		LastName:   "Member",
	})
}

// AsAdmin attaches admin claims.
func AsAdmin(r *http.Request) *http.Request {
	return auth.WithTestClaims(r, &auth.Claims{
		MemberID:   "0001",
		MemberRole: authz.RoleAdmin,
		Email:      "admin@test.example",
		FirstName:  "Test",
		LastName:   "Admin",
	})
}

// AsRole attaches claims with an arbitrary role.
func AsRole(r *http.Request, memberID, role string) *http.Request {
	return auth.WithTestClaims(r, &auth.Claims{
		MemberID:   memberID,
		MemberRole: role,
		Email:      memberID + "@test.example",
	})
}
