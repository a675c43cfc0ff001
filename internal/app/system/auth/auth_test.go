package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubworks/clubhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestHashVerifyPassword_RoundTrip(t *testing.T) {
	for _, plain := range []string{"hunter2", "a much longer pass phrase 123!", "päss"} {
		digest, err := auth.HashPassword(plain)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", plain, err)
		}
		if digest == plain {
			t.Fatal("digest equals plaintext")
		}
		if err := auth.VerifyPassword(plain, digest); err != nil {
			t.Errorf("VerifyPassword(%q, hash) failed: %v", plain, err)
		}
		if err := auth.VerifyPassword(plain+"x", digest); err == nil {
			t.Errorf("VerifyPassword accepted wrong password for %q", plain)
		}
	}
}

func TestVerifyPassword_FederatedOnly(t *testing.T) {
	if err := auth.VerifyPassword("anything", ""); err != auth.ErrFederatedOnly {
		t.Errorf("empty digest: got %v, want ErrFederatedOnly", err)
	}
}

func TestTokenManager_IssueVerify(t *testing.T) {
	tm, err := auth.NewTokenManager("test-signing-key", "clubhub", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	tokenString, err := tm.Issue(auth.Claims{MemberID: "0042", MemberRole: "treasurer"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.MemberID != "0042" || claims.MemberRole != "treasurer" {
		t.Errorf("claims = %q/%q, want 0042/treasurer", claims.MemberID, claims.MemberRole)
	}
	if claims.Subject != "0042" {
		t.Errorf("subject = %q, want member id", claims.Subject)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm, err := auth.NewTokenManager("test-signing-key", "clubhub", time.Nanosecond)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	tokenString, err := tm.Issue(auth.Claims{MemberID: "0001", MemberRole: "member"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := tm.Verify(tokenString); err == nil {
		t.Error("expired token verified")
	}
}

func TestTokenManager_RejectsWrongKey(t *testing.T) {
	tm1, _ := auth.NewTokenManager("key-one", "clubhub", time.Hour)
	tm2, _ := auth.NewTokenManager("key-two", "clubhub", time.Hour)

	tokenString, err := tm1.Issue(auth.Claims{MemberID: "0001", MemberRole: "member"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tm2.Verify(tokenString); err == nil {
		t.Error("token verified with wrong key")
	}
}

func TestNewTokenManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewTokenManager("", "clubhub", time.Hour); err == nil {
		t.Error("expected error for empty signing key")
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	tm, _ := auth.NewTokenManager("k", "clubhub", time.Hour)
	h := tm.Authenticate(zap.NewNop())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous request: status %d", rec.Code)
	}
}

func TestAuthenticate_BadTokenRejected(t *testing.T) {
	tm, _ := auth.NewTokenManager("k", "clubhub", time.Hour)
	h := tm.Authenticate(zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", rec.Code)
	}
}

func TestAuthenticate_LoadsClaims(t *testing.T) {
	tm, _ := auth.NewTokenManager("k", "clubhub", time.Hour)
	tokenString, _ := tm.Issue(auth.Claims{MemberID: "0007", MemberRole: "secretary"})

	var seen *auth.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentClaims(r)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	tm.Authenticate(zap.NewNop())(inner).ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.MemberID != "0007" {
		t.Fatalf("claims not loaded: %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	log := zap.NewNop()
	h := auth.RequireRole(log, "admin", "treasurer")(okHandler())

	// anonymous → 401
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status %d, want 401", rec.Code)
	}

	// wrong role → 403
	rec = httptest.NewRecorder()
	req := auth.WithTestClaims(httptest.NewRequest(http.MethodGet, "/", nil),
		&auth.Claims{MemberID: "0002", MemberRole: "member"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: status %d, want 403", rec.Code)
	}

	// allowed role → 200
	rec = httptest.NewRecorder()
	req = auth.WithTestClaims(httptest.NewRequest(http.MethodGet, "/", nil),
		&auth.Claims{MemberID: "0003", MemberRole: "treasurer"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("allowed role: status %d, want 200", rec.Code)
	}
}
