package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/models"
	jwtutil "github.com/lfarias-dev/biblioteca-api/internal/security/jwt"
)

func TestEnsureSession_MintsToken(t *testing.T) {
	var got models.Actor
	handler := mw.EnsureSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.ActorFrom(r)
	}))

	req := httptest.NewRequest("GET", "/books/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got.SessionKey == "" {
		t.Fatal("Expected a minted session key")
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "session_token" && c.Value == got.SessionKey {
			found = true
			if !c.HttpOnly {
				t.Error("session cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("Expected session_token cookie matching the actor")
	}
}

func TestEnsureSession_ReusesExistingCookie(t *testing.T) {
	var got models.Actor
	handler := mw.EnsureSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.ActorFrom(r)
	}))

	req := httptest.NewRequest("GET", "/books/", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "existing-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got.SessionKey != "existing-token" {
		t.Errorf("Expected existing-token, got %q", got.SessionKey)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("Should not re-set an existing session cookie")
	}
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	token, err := jwtutil.SignAccess("user-1", true, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	var got models.Actor
	handler := mw.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.ActorFrom(r)
	}))

	req := httptest.NewRequest("GET", "/loans/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got.UserID != "user-1" {
		t.Errorf("Expected user-1, got %q", got.UserID)
	}
	if !got.Staff {
		t.Error("Expected staff claim to carry over")
	}
}

func TestOptionalAuth_BadTokenActsAsGuest(t *testing.T) {
	var got models.Actor
	handler := mw.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.ActorFrom(r)
	}))

	req := httptest.NewRequest("GET", "/loans/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected pass-through, got %d", rec.Code)
	}
	if got.UserID != "" {
		t.Error("Invalid token must not authenticate")
	}
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.RequireStaff(ok)

	// No identity at all
	req := httptest.NewRequest("GET", "/admin/loans/overdue", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	// Authenticated but not staff
	req = httptest.NewRequest("GET", "/admin/loans/overdue", nil)
	req = req.WithContext(mw.WithActor(req.Context(), models.Actor{UserID: "u1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}

	// Staff
	req = httptest.NewRequest("GET", "/admin/loans/overdue", nil)
	req = req.WithContext(mw.WithActor(req.Context(), models.Actor{UserID: "u1", Staff: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
