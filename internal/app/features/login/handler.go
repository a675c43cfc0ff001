// internal/app/features/login/handler.go
package login

// Terminology: Member Identifiers
//   - ID / ObjectID: The MongoDB _id of the record, internal only
//   - MemberID / member_id: The human-readable ID members use everywhere
//   - LoginID / login_id: Whatever the person typed to sign in; resolved
//     against member_id, mobile, and email in that order

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	loginstore "github.com/clubworks/clubhub/internal/app/store/logins"
	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Members *memberstore.Store
	Logins  *loginstore.Store
	Tokens  *auth.TokenManager
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Members: memberstore.New(db),
		Logins:  loginstore.New(db),
		Tokens:  tokens,
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token  string         `json:"token"`
	Member *models.Member `json:"member"`
}

// HandleLogin signs a member in with member ID, mobile, or email plus
// password. Unknown login IDs and wrong passwords produce the same
// response; an account that exists but has no local password gets its
// own message so the person knows to use Google sign-in.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		httperr.Write(w, h.Log, err)
		return
	}
	if req.LoginID == "" || req.Password == "" {
		httperr.Write(w, h.Log, httperr.Validation("login_id and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.FindByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httperr.Write(w, h.Log, httperr.Auth("invalid credentials"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	if err := auth.VerifyPassword(req.Password, m.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrFederatedOnly) {
			httperr.Write(w, h.Log, httperr.Auth("account uses Google sign-in"))
			return
		}
		httperr.Write(w, h.Log, httperr.Auth("invalid credentials"))
		return
	}
	if !m.IsActive {
		httperr.Write(w, h.Log, httperr.Forbidden("account is disabled"))
		return
	}

	h.issueAndRespond(ctx, w, r, m, "local")
}

// issueAndRespond mints a token, records the login, and writes the
// response. The login record is best effort; a write failure must not
// fail the sign-in.
func (h *Handler) issueAndRespond(ctx context.Context, w http.ResponseWriter, r *http.Request, m *models.Member, method string) {
	token, err := h.Tokens.Issue(auth.Claims{
		MemberID:   m.MemberID,
		MemberRole: m.MemberRole,
		Email:      m.Email,
		Mobile:     m.Mobile,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
	})
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	if err := h.Logins.CreateFrom(ctx, r, m.MemberID, method); err != nil {
		h.Log.Warn("login record write failed",
			zap.String("member_id", m.MemberID), zap.Error(err))
	}

	h.Log.Info("member signed in",
		zap.String("member_id", m.MemberID), zap.String("method", method))
	httperr.JSON(w, http.StatusOK, tokenResponse{Token: token, Member: m})
}

// HandleMe returns the member record behind the presented token.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentClaims(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Auth("authentication required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByMemberID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			// Token outlived the member record.
			httperr.Write(w, h.Log, httperr.Auth("account no longer exists"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	httperr.JSON(w, http.StatusOK, m)
}
