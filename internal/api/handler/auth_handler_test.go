package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/ports"
)

type stubAuthService struct {
	result *ports.LoginResult
	err    error

	lastEmail    string
	lastPassword string
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	s.lastEmail = email
	s.lastPassword = password
	return s.result, s.err
}

func (s *stubAuthService) VerifyBearer(string) (domain.SessionData, error) {
	return domain.SessionData{}, domain.ErrInvalidSession
}

func loginContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginSetsSessionCookie(t *testing.T) {
	auth := &stubAuthService{result: &ports.LoginResult{
		Session:      domain.SessionData{Email: "root@example.com", Role: domain.RoleSuperadmin, Login: "root"},
		SessionToken: "tok-123",
		BearerToken:  "jwt-456",
	}}
	h := NewAuthHandler(auth, "session")

	c, rec := loginContext(`{"email":"root@example.com","password":"hunter2"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if auth.lastEmail != "root@example.com" || auth.lastPassword != "hunter2" {
		t.Fatalf("credentials not forwarded: %q / %q", auth.lastEmail, auth.lastPassword)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("len(cookies) = %d, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "session" || cookie.Value != "tok-123" {
		t.Fatalf("cookie = %s=%s", cookie.Name, cookie.Value)
	}
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Fatalf("cookie attributes = %+v", cookie)
	}

	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Email != "root@example.com" || body.Role != domain.RoleSuperadmin || body.Token != "jwt-456" {
		t.Fatalf("body = %+v", body)
	}
}

func TestLoginPropagatesBadCredentials(t *testing.T) {
	auth := &stubAuthService{err: domain.ErrBadCredentials}
	h := NewAuthHandler(auth, "session")

	c, rec := loginContext(`{"email":"root@example.com","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrBadCredentials {
		t.Fatalf("err = %v, want ErrBadCredentials", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set on failed login")
	}
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	auth := &stubAuthService{}
	h := NewAuthHandler(auth, "session")

	for _, body := range []string{
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"root@example.com"}`,
		`{}`,
	} {
		c, _ := loginContext(body)
		err := h.Login(c)
		var he *echo.HTTPError
		if !asHTTPError(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %s: err = %v, want 400 HTTPError", body, err)
		}
	}
	if auth.lastEmail != "" {
		t.Fatal("auth service should not be reached with invalid payloads")
	}
}

func TestOrderStatsRendersBuckets(t *testing.T) {
	svc := &stubResourceService{stats: &ports.OrderStats{Accepted: 7, Rejected: 3}}
	h := NewStatsHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/order_stats", "")
	if err := h.OrderStats(c); err != nil {
		t.Fatalf("OrderStats returned error: %v", err)
	}

	var body ports.OrderStats
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Accepted != 7 || body.Rejected != 3 {
		t.Fatalf("body = %+v", body)
	}
}

func TestOrderStatsPropagatesDenial(t *testing.T) {
	svc := &stubResourceService{err: domain.ErrAccessDenied}
	h := NewStatsHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/order_stats", "")
	if err := h.OrderStats(c); err != domain.ErrAccessDenied {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
}
