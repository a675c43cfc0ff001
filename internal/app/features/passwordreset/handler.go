// internal/app/features/passwordreset/handler.go
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/store/otps"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/mailer"
	"github.com/clubworks/clubhub/internal/app/system/normalize"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
)

// minPasswordLength applies to reset passwords only; existing hashes
// are never rechecked.
const minPasswordLength = 8

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Members *memberstore.Store
	Otps    *otps.Store
	Mail    mailer.Sender
	// SiteName appears in the reset email.
	SiteName string
	// RequireMember rejects reset requests for unknown emails with 404.
	// When false the request succeeds either way and no code is issued
	// for unknown emails, which hides whether an address is registered.
	RequireMember bool
}

func NewHandler(db *mongo.Database, otpStore *otps.Store, mail mailer.Sender, siteName string, requireMember bool, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		Members:       memberstore.New(db),
		Otps:          otpStore,
		Mail:          mail,
		SiteName:      siteName,
		RequireMember: requireMember,
	}
}

type otpRequest struct {
	Email string `json:"email"`
}

// HandleRequestOTP issues a reset code and emails it. Re-requesting
// replaces any earlier code for the same email.
func (h *Handler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		httperr.Write(w, h.Log, httperr.Validation("email is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	memberID, mobile := "", ""
	m, err := h.Members.FindByEmail(ctx, email)
	switch {
	case err == nil:
		memberID, mobile = m.MemberID, m.Mobile
	case errors.Is(err, memberstore.ErrNotFound):
		if h.RequireMember {
			httperr.Write(w, h.Log, httperr.NotFound("no member registered with this email"))
			return
		}
		// Don't reveal that the email is unknown.
		httperr.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
		return
	default:
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	code, err := h.Otps.Create(ctx, email, memberID, mobile)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	msg := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.SiteName,
		Code:      code,
		MemberID:  memberID,
		ExpiresIn: formatExpiry(h.Otps.Expiry()),
	})
	msg.To = email
	if err := h.Mail.Send(msg); err != nil {
		// The code stays valid; a retry of this endpoint re-sends.
		h.Log.Error("reset email send failed", zap.String("email", email), zap.Error(err))
		httperr.Write(w, h.Log, httperr.Upstream("could not send reset email", err))
		return
	}

	h.Log.Info("reset code issued", zap.String("member_id", memberID))
	httperr.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type resetRequest struct {
	Email string `json:"email"`
	// MemberID is optional; when sent it must match the member the code
	// was issued for.
	MemberID    string `json:"member_id"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// HandleResetPassword consumes a valid code and stores a new password
// hash. A wrong code leaves the stored code in place for another try,
// up to the attempt cap.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || req.Code == "" {
		httperr.Write(w, h.Log, httperr.Validation("email and code are required"))
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		httperr.Write(w, h.Log, httperr.Validation(
			fmt.Sprintf("new_password must be at least %d characters", minPasswordLength)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	otc, err := h.Otps.Validate(ctx, email, req.Code)
	if err != nil {
		httperr.Write(w, h.Log, classifyOTPErr(err))
		return
	}

	if req.MemberID != "" && otc.MemberID != "" && req.MemberID != otc.MemberID {
		httperr.Write(w, h.Log, httperr.Forbidden("code was not issued for this member"))
		return
	}

	memberID := otc.MemberID
	if memberID == "" {
		m, err := h.Members.FindByEmail(ctx, email)
		if err != nil {
			httperr.Write(w, h.Log, httperr.NotFound("no member registered with this email"))
			return
		}
		memberID = m.MemberID
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if err := h.Members.SetPassword(ctx, memberID, hash); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httperr.Write(w, h.Log, httperr.NotFound("member not found"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Log.Info("password reset", zap.String("member_id", memberID))
	httperr.JSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func classifyOTPErr(err error) error {
	switch {
	case errors.Is(err, otps.ErrNotFound):
		return httperr.NotFound("no reset code for this email")
	case errors.Is(err, otps.ErrExpired):
		return httperr.Forbidden("code expired, request a new one")
	case errors.Is(err, otps.ErrMismatch):
		return httperr.Forbidden("invalid code")
	case errors.Is(err, otps.ErrTooManyAttempts):
		return httperr.Forbidden("too many attempts, request a new code")
	default:
		return httperr.Internal(err)
	}
}

func formatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
