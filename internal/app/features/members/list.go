// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"
	"strconv"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

type listResponse struct {
	Members []models.Member `json:"members"`
	Count   int             `json:"count"`
}

// HandleList serves the member directory of active members. ?query=
// searches names, IDs, address, email and mobile as a substring;
// ?include_deleted=1 shows soft-deleted and deactivated records and is
// honored only for admins.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := memberstore.ListOptions{
		Offset: parseInt64(q.Get("offset")),
		Limit:  parseInt64(q.Get("limit")),
	}
	if q.Get("include_deleted") == "1" {
		claims, _ := auth.CurrentClaims(r)
		if claims == nil || claims.MemberRole != authz.RoleAdmin {
			httperr.Write(w, h.Log, httperr.Forbidden("include_deleted requires admin"))
			return
		}
		opts.IncludeDeleted = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		found []models.Member
		err   error
	)
	if query := q.Get("query"); query != "" {
		found, err = h.Members.Search(ctx, query, opts)
	} else {
		found, err = h.Members.List(ctx, opts)
	}
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if found == nil {
		found = []models.Member{}
	}
	httperr.JSON(w, http.StatusOK, listResponse{Members: found, Count: len(found)})
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
