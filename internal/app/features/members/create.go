// internal/app/features/members/create.go
package members

import (
	"context"
	"errors"
	"net/http"
	"time"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/memberid"
	"github.com/clubworks/clubhub/internal/app/system/sanitize"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// allocateRetries bounds how many times a create re-reads the highest
// ID after losing the allocation race to a concurrent insert.
const allocateRetries = 3

type createRequest struct {
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
	JoinDate           string   `json:"join_date"` // RFC 3339 date, optional
	PeriodInSchoolFrom int      `json:"period_in_school_from"`
	PeriodInSchoolTo   int      `json:"period_in_school_to"`
	MemberRole         string   `json:"member_role"`
	Password           string   `json:"password"` // optional; empty means federated-only
}

// HandleCreate registers a member, allocating the next ID in the
// sequence for the member type.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	m, err := h.memberFromRequest(req)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	cat := memberid.CategoryFor(m.MemberType)
	var created models.Member
	for attempt := 0; ; attempt++ {
		highest, err := h.Members.HighestMemberID(ctx, cat)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Internal(err))
			return
		}
		next, err := memberid.Next(cat, highest)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Internal(err))
			return
		}
		m.MemberID = next

		created, err = h.Members.Create(ctx, m)
		if err == nil {
			break
		}
		if errors.Is(err, memberstore.ErrDuplicateMemberID) && attempt < allocateRetries {
			h.Log.Debug("member id taken, retrying allocation",
				zap.String("member_id", next), zap.Int("attempt", attempt+1))
			continue
		}
		httperr.Write(w, h.Log, classifyStoreErr(err))
		return
	}

	h.Log.Info("member created",
		zap.String("member_id", created.MemberID),
		zap.String("member_type", created.MemberType))
	httperr.JSON(w, http.StatusCreated, created)
}

// memberFromRequest validates and converts a create request. The
// password is hashed here; the store never sees plain text.
func (h *Handler) memberFromRequest(req createRequest) (models.Member, error) {
	if req.FirstName == "" || req.LastName == "" {
		return models.Member{}, httperr.Validation("first_name and last_name are required")
	}
	if !models.IsValidMemberType(req.MemberType) {
		return models.Member{}, httperr.Validation("invalid member_type")
	}
	role := req.MemberRole
	if role == "" {
		role = authz.RoleMember
	}
	if !authz.IsValidRole(role) {
		return models.Member{}, httperr.Validation("invalid member_role")
	}

	var joinDate time.Time
	if req.JoinDate != "" {
		t, err := time.Parse(time.RFC3339, req.JoinDate)
		if err != nil {
			return models.Member{}, httperr.Validation("join_date must be RFC 3339")
		}
		joinDate = t
	}

	m := models.Member{
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
		MemberRole:         role,
		IsActive:           true,
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return models.Member{}, httperr.Internal(err)
		}
		m.PasswordHash = hash
	}
	return m, nil
}

// classifyStoreErr maps member-store sentinels onto the error surface.
func classifyStoreErr(err error) error {
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		return httperr.NotFound("member not found")
	case errors.Is(err, memberstore.ErrDuplicateMemberID):
		return httperr.Conflict("member ID already in use")
	case errors.Is(err, memberstore.ErrDuplicateEmail):
		return httperr.Conflict("email already registered")
	case errors.Is(err, memberstore.ErrDuplicateMobile):
		return httperr.Conflict("mobile number already registered")
	default:
		return httperr.Internal(err)
	}
}
