// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	loginstore "github.com/clubworks/clubhub/internal/app/store/logins"
	memberstore "github.com/clubworks/clubhub/internal/app/store/members"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/authz"
	"github.com/clubworks/clubhub/internal/app/system/httperr"
	"github.com/clubworks/clubhub/internal/app/system/memberid"
	"github.com/clubworks/clubhub/internal/app/system/timeouts"
	"github.com/clubworks/clubhub/internal/domain/models"
)

// googleUserInfoURL is Google's OpenID userinfo endpoint. Overridable
// on the Handler for tests.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

const allocateRetries = 3

// Handler handles Google-federated sign-in. The client completes the
// OAuth dance itself and presents the resulting access token; the
// server verifies it against Google's userinfo endpoint.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Members *memberstore.Store
	Logins  *loginstore.Store
	Tokens  *auth.TokenManager

	// UserInfoURL defaults to Google's endpoint; tests point it at a
	// stub server.
	UserInfoURL string
}

// NewHandler creates a Google-federated auth handler.
func NewHandler(db *mongo.Database, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Members:     memberstore.New(db),
		Logins:      loginstore.New(db),
		Tokens:      tokens,
		UserInfoURL: googleUserInfoURL,
	}
}

type federatedRequest struct {
	AccessToken string `json:"access_token"`
}

type tokenResponse struct {
	Token  string         `json:"token"`
	Member *models.Member `json:"member"`
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// HandleLoginFederated signs in an existing member by Google access
// token. There is no auto-provisioning: an unknown email is a 404 and
// the client should offer registration instead.
func (h *Handler) HandleLoginFederated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := h.verifyAccessToken(ctx, w, r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	m, err := h.Members.FindByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			httperr.Write(w, h.Log, httperr.NotFound("no member registered with this Google account"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if !m.IsActive {
		httperr.Write(w, h.Log, httperr.Forbidden("account is disabled"))
		return
	}

	h.issueAndRespond(ctx, w, r, m)
}

// HandleRegisterFederated provisions a guest account from a Google
// access token. The account gets the next guest ID and a random
// password hash so local login stays closed until a password reset.
func (h *Handler) HandleRegisterFederated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := h.verifyAccessToken(ctx, w, r)
	if err != nil {
		httperr.Write(w, h.Log, err)
		return
	}

	if _, err := h.Members.FindByEmail(ctx, info.Email); err == nil {
		httperr.Write(w, h.Log, httperr.Conflict("a member with this email already exists"))
		return
	} else if !errors.Is(err, memberstore.ErrNotFound) {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	firstName := info.GivenName
	lastName := info.FamilyName
	if firstName == "" && lastName == "" {
		firstName = info.Name
	}
	if firstName == "" {
		httperr.Write(w, h.Log, httperr.Validation("Google profile has no name"))
		return
	}
	if lastName == "" {
		lastName = "-"
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	m := models.Member{
		MemberType:   models.TypeGuest,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        info.Email,
		MemberRole:   authz.RoleGuest,
		PasswordHash: hash,
		IsActive:     true,
	}
	if info.Picture != "" {
		m.Image = []string{info.Picture}
	}

	var created models.Member
	for attempt := 0; ; attempt++ {
		highest, err := h.Members.HighestMemberID(ctx, memberid.Guest)
		if err != nil {
			httperr.Write(w, h.Log, httperr.Internal(err))
			return
		}
		next, err := memberid.Next(memberid.Guest, highest)
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
			continue
		}
		if errors.Is(err, memberstore.ErrDuplicateEmail) {
			httperr.Write(w, h.Log, httperr.Conflict("a member with this email already exists"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	h.Log.Info("federated guest registered",
		zap.String("member_id", created.MemberID))
	h.respondWithToken(ctx, w, r, &created, http.StatusCreated)
}

func (h *Handler) issueAndRespond(ctx context.Context, w http.ResponseWriter, r *http.Request, m *models.Member) {
	h.respondWithToken(ctx, w, r, m, http.StatusOK)
}

func (h *Handler) respondWithToken(ctx context.Context, w http.ResponseWriter, r *http.Request, m *models.Member, status int) {
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

	if err := h.Logins.CreateFrom(ctx, r, m.MemberID, "google"); err != nil {
		h.Log.Warn("login record write failed",
			zap.String("member_id", m.MemberID), zap.Error(err))
	}

	h.Log.Info("member signed in",
		zap.String("member_id", m.MemberID), zap.String("method", "google"))
	httperr.JSON(w, status, tokenResponse{Token: token, Member: m})
}

// verifyAccessToken reads the request body and resolves the access
// token against the userinfo endpoint. A token Google rejects is a
// 401; Google being unreachable is a 502.
func (h *Handler) verifyAccessToken(ctx context.Context, w http.ResponseWriter, r *http.Request) (*googleUserInfo, error) {
	var req federatedRequest
	if err := httperr.Decode(w, r, &req); err != nil {
		return nil, err
	}
	if req.AccessToken == "" {
		return nil, httperr.Validation("access_token is required")
	}

	info, err := h.fetchUserInfo(ctx, req.AccessToken)
	if err != nil {
		var he *httperr.Error
		if errors.As(err, &he) {
			return nil, err
		}
		return nil, httperr.Upstream("could not reach Google", err)
	}
	if info.Email == "" {
		return nil, httperr.Auth("Google token has no email")
	}
	return info, nil
}

// fetchUserInfo retrieves the profile behind an access token.
func (h *Handler) fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))

	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, httperr.Auth("invalid Google access token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
