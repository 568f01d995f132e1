package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

func TestFlashToastRoundTrip(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setFlashToast(c, viewmodels.ToastViewData{
		Category:    "SUCCESS",
		Title:       "  Postingan terbit  ",
		Description: "Postingan kamu sudah tayang di feed.",
	})

	cookies := rec.Result().Cookies()
	var toastCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == flashToastCookieName {
			toastCookie = cookie
		}
	}
	if toastCookie == nil {
		t.Fatal("flash toast cookie was not set")
	}
	if !toastCookie.HttpOnly {
		t.Fatal("flash toast cookie is not HttpOnly")
	}

	// Next request carries the cookie back.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(toastCookie)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	toast := popFlashToast(c2)
	if toast == nil {
		t.Fatal("popFlashToast returned nil")
	}
	if toast.Category != "success" {
		t.Fatalf("Category = %q, want %q", toast.Category, "success")
	}
	if toast.Title != "Postingan terbit" {
		t.Fatalf("Title = %q, want trimmed title", toast.Title)
	}

	// The pop clears the cookie.
	var cleared *http.Cookie
	for _, cookie := range rec2.Result().Cookies() {
		if cookie.Name == flashToastCookieName {
			cleared = cookie
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("clearing cookie = %+v, want MaxAge -1", cleared)
	}
}

func TestSetFlashToastSkipsEmptyToast(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setFlashToast(c, viewmodels.ToastViewData{Category: "success", Title: "   "})
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("cookies = %v, want none", rec.Result().Cookies())
	}
}

func TestPopFlashToastRejectsGarbage(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashToastCookieName, Value: "!!not-base64!!"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if toast := popFlashToast(c); toast != nil {
		t.Fatalf("popFlashToast = %+v, want nil", toast)
	}
}

func TestNormalizeToastCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"success", "success"},
		{" Warning ", "warning"},
		{"ERROR", "error"},
		{"", "info"},
		{"banana", "info"},
	}
	for _, tt := range tests {
		if got := normalizeToastCategory(tt.in); got != tt.want {
			t.Fatalf("normalizeToastCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
