// internal/app/features/members/member.go
//
// Single-member operations: get, update, soft delete.
package members

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/authz"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/sanitize"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

// HandleGet serves one member by their human-readable ID.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByMemberID(ctx, memberID)
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	httperr.JSON(w, http.StatusOK, m)
}

type updateRequest struct {
	MemberType         string   `json:"member_type"`
	Title              string   `json:"title"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Address            []string `json:"address"`
	Mobile             string   `json:"mobile"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	Image              []string `json:"image"`
	Notes              string   `json:"notes"`
	InvitedBy          string   `json:"invited_by"`
	JoinDate           string   `json:"join_date"`
	PeriodInSchoolFrom int      `json:"period_in_school_from"`
	PeriodInSchoolTo   int      `json:"period_in_school_to"`
	MemberRole         string   `json:"member_role"`
	IsActive           bool     `json:"is_active"`
}

// HandleUpdate replaces the editable fields of a member. The member ID
// itself never changes; changing the member type does not renumber.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	var req updateRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		httperr.Write(w, h.Log, httperr.Validation("first_name and last_name are required"))
		return
	}
	if !models.IsValidMemberType(req.MemberType) {
		httperr.Write(w, h.Log, httperr.Validation("invalid member_type"))
		return
	}
	if !authz.IsValidRole(req.MemberRole) {
		httperr.Write(w, h.Log, httperr.Validation("invalid member_role"))
		return
	}
	var joinDate time.Time
	if req.JoinDate != "" {
		t, err := time.Parse(time.RFC3339, req.JoinDate)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Validation("join_date must be RFC 3339"))
			return
		}
		joinDate = t
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Members.UpdateByMemberID(ctx, memberID, memberstore.Update{
		MemberType:         req.MemberType,
		Title:              sanitize.Text(req.Title),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Address:            sanitize.Lines(req.Address),
		Mobile:             req.Mobile,
		Phone:              req.Phone,
		Email:              req.Email,
		Image:              req.Image,
		Notes:              sanitize.Text(req.Notes),
		InvitedBy:          sanitize.Text(req.InvitedBy),
		JoinDate:           joinDate,
		PeriodInSchoolFrom: req.PeriodInSchoolFrom,
		PeriodInSchoolTo:   req.PeriodInSchoolTo,
		MemberRole:         req.MemberRole,
		IsActive:           req.IsActive,
	})
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}

	m, err := h.Members.GetByMemberID(ctx, memberID)
	if err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	httperr.JSON(w, http.StatusOK, m)
}

// HandleDelete soft-deletes a member. The record stays and the ID is
// never reissued.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Members.SoftDelete(ctx, memberID); err != nil {
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}
	h.Log.Info("member soft-deleted", zap.String("member_id", memberID))
	httperr.JSON(w, http.StatusOK, map[string]string{"member_id": memberID, "status": "deleted"})
}
