package passwordreset_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubworks/clubhub/internal/app/features/passwordreset"
	"github.com/clubworks/clubhub/internal/app/store/otps"
	"github.com/clubworks/clubhub/internal/app/system/mailer"
	"github.com/clubworks/clubhub/internal/testutil"
)

// captureSender records sent emails instead of delivering them.
type captureSender struct {
	sent []mailer.Email
	fail bool
}

func (c *captureSender) Send(e mailer.Email) error {
	if c.fail {
		return errSendFailed
	}
	c.sent = append(c.sent, e)
	return nil
}

var errSendFailed = errors.New("smtp connection refused")

func newHandler(t *testing.T) (*passwordreset.Handler, *captureSender, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sender := &captureSender{}
	h := passwordreset.NewHandler(db, otps.New(db, 0), sender, "ClubHub", true, zap.NewNop())
	return h, sender, testutil.NewFixtures(t, db)
}

var codeRe = regexp.MustCompile(`\b(\d{6})\b`)

func requestOTP(t *testing.T, h *passwordreset.Handler, email string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", "/auth/otp", strings.NewReader(`{"email":"`+email+`"}`))
	w := httptest.NewRecorder()
	h.HandleRequestOTP(w, r)
	return w
}

func resetPassword(t *testing.T, h *passwordreset.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest("POST", "/auth/reset-password", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleResetPassword(w, r)
	return w
}

func TestHandleRequestOTP_SendsCode(t *testing.T) {
	h, sender, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMemberWithPassword(ctx, "0042", "jane@example.com", "oldpassword")

	w := requestOTP(t, h, "jane@example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	e := sender.sent[0]
	if e.To != "jane@example.com" {
		t.Errorf("to = %q", e.To)
	}
	if !codeRe.MatchString(e.TextBody) {
		t.Error("email body has no 6-digit code")
	}
	if !strings.Contains(e.TextBody, "0042") {
		t.Error("email body missing member id")
	}
}

func TestHandleRequestOTP_UnknownEmail(t *testing.T) {
	h, sender, _ := newHandler(t)

	w := requestOTP(t, h, "nobody@example.com")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if len(sender.sent) != 0 {
		t.Error("email sent for unknown address")
	}
}

func TestHandleRequestOTP_SendFailureKeepsCode(t *testing.T) {
	h, sender, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMemberWithPassword(ctx, "0042", "jane@example.com", "oldpassword")

	sender.fail = true
	w := requestOTP(t, h, "jane@example.com")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	// The stored code survived the delivery failure.
	n, err := fx.DB().Collection("one_time_codes").CountDocuments(ctx, map[string]any{"email": "jane@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("stored codes = %d, want 1", n)
	}
}

func TestHandleResetPassword_FullFlow(t *testing.T) {
	h, sender, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMemberWithPassword(ctx, "0042", "jane@example.com", "oldpassword")

	if w := requestOTP(t, h, "jane@example.com"); w.Code != http.StatusOK {
		t.Fatalf("otp status = %d", w.Code)
	}
	code := codeRe.FindString(sender.sent[0].TextBody)

	w := resetPassword(t, h, `{"email":"jane@example.com","code":"`+code+`","new_password":"brandnewsecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body = %s", w.Code, w.Body.String())
	}

	m, err := h.Members.GetByMemberID(ctx, "0042")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte("brandnewsecret")) != nil {
		t.Error("new password not stored")
	}

	// The code is single use.
	w = resetPassword(t, h, `{"email":"jane@example.com","code":"`+code+`","new_password":"anothersecret1"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("reused code status = %d, want 404", w.Code)
	}
}

func TestHandleResetPassword_MemberIDBinding(t *testing.T) {
	h, sender, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMemberWithPassword(ctx, "0042", "jane@example.com", "oldpassword")

	if w := requestOTP(t, h, "jane@example.com"); w.Code != http.StatusOK {
		t.Fatal("otp request failed")
	}
	code := codeRe.FindString(sender.sent[0].TextBody)

	// A member_id that is not the one the code was issued for is refused.
	w := resetPassword(t, h, `{"email":"jane@example.com","member_id":"0099","code":"`+code+`","new_password":"brandnewsecret"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("mismatched member_id status = %d, want 403", w.Code)
	}

	// The matching member_id goes through.
	if w := requestOTP(t, h, "jane@example.com"); w.Code != http.StatusOK {
		t.Fatal("second otp request failed")
	}
	code = codeRe.FindString(sender.sent[1].TextBody)
	w = resetPassword(t, h, `{"email":"jane@example.com","member_id":"0042","code":"`+code+`","new_password":"brandnewsecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("matching member_id status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestHandleResetPassword_WrongCode(t *testing.T) {
	h, sender, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMemberWithPassword(ctx, "0042", "jane@example.com", "oldpassword")

	if w := requestOTP(t, h, "jane@example.com"); w.Code != http.StatusOK {
		t.Fatal("otp request failed")
	}
	code := codeRe.FindString(sender.sent[0].TextBody)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	w := resetPassword(t, h, `{"email":"jane@example.com","code":"`+wrong+`","new_password":"brandnewsecret"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong code status = %d, want 403", w.Code)
	}

	// Correct code still works after one bad attempt.
	w = resetPassword(t, h, `{"email":"jane@example.com","code":"`+code+`","new_password":"brandnewsecret"}`)
	if w.Code != http.StatusOK {
		t.Errorf("correct code after mismatch status = %d", w.Code)
	}
}

func TestHandleResetPassword_Validation(t *testing.T) {
	h, _, _ := newHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"code":"123456","new_password":"longenough1"}`},
		{"missing code", `{"email":"a@b.com","new_password":"longenough1"}`},
		{"short password", `{"email":"a@b.com","code":"123456","new_password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := resetPassword(t, h, tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
