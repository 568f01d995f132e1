package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/http/authn"
)

// newDialogServer wires the dialog endpoints onto a real router so Param
// resolution works exactly as in production. Every request runs as the given
// user id.
func newDialogServer(t *testing.T, userID int64) (*Handlers, *echo.Echo) {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Handlers{
		Alerts: alert.New(alert.WithLogger(quiet)),
		Logger: quiet,
	}
	t.Cleanup(h.Alerts.Close)

	as := func(next func(c *echo.Context) error) func(c *echo.Context) error {
		return func(c *echo.Context) error {
			if userID != 0 {
				c.Set(authn.ContextKeyPrincipal, auth.Principal{
					UserID: userID,
					Role:   auth.RoleStudent,
				})
			}
			return next(c)
		}
	}

	e := echo.New()
	e.GET("/dialog", as(h.HandleDialogPending))
	e.POST("/dialog/:id/confirm", as(h.HandleDialogConfirm))
	e.POST("/dialog/:id/cancel", as(h.HandleDialogCancel))
	e.POST("/dialog/:id/ack", as(h.HandleDialogAck))
	return h, e
}

func decisionSettled(d *alert.Decision) (bool, bool) {
	select {
	case got := <-d.Done():
		return got, true
	default:
		return false, false
	}
}

func TestDialogConfirmRejectsForeignResolver(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 2)

	decision := h.Alerts.Confirm("Hapus anggota ini?", alert.WithOwner("1"))
	pending, _ := h.Alerts.Pending()

	req := httptest.NewRequest(http.MethodPost, "/dialog/"+pending.ID+"/confirm", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got, settled := decisionSettled(decision); settled {
		t.Fatalf("decision settled to %v by a non-owner", got)
	}
	if _, ok := h.Alerts.Pending(); !ok {
		t.Fatalf("pending dialog gone after a rejected resolution")
	}
}

func TestDialogCancelRejectsForeignResolver(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 7)

	decision := h.Alerts.Confirm("Hapus postingan?", alert.WithOwner("3"))
	pending, _ := h.Alerts.Pending()

	req := httptest.NewRequest(http.MethodPost, "/dialog/"+pending.ID+"/cancel", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got, settled := decisionSettled(decision); settled {
		t.Fatalf("decision settled to %v by a non-owner", got)
	}
}

func TestDialogConfirmAllowsOwner(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 1)

	decision := h.Alerts.Confirm("Hapus anggota ini?", alert.WithOwner("1"))
	pending, _ := h.Alerts.Pending()

	req := httptest.NewRequest(http.MethodPost, "/dialog/"+pending.ID+"/confirm", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	got, settled := decisionSettled(decision)
	if !settled {
		t.Fatalf("decision not settled by its owner")
	}
	if !got {
		t.Fatalf("decision = false, want true after confirm")
	}
}

// A dialog armed without an owner keeps the old behavior: any signed-in user
// may resolve it.
func TestDialogWithoutOwnerResolvableByAnyone(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 42)

	ticket := h.Alerts.Notify("Pengumuman terkirim.", alert.KindError)
	pending, _ := h.Alerts.Pending()

	req := httptest.NewRequest(http.MethodPost, "/dialog/"+pending.ID+"/ack", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	select {
	case <-ticket.Done():
	default:
		t.Fatalf("ticket not settled after acknowledge")
	}
}

func TestDialogStaleIDPassesThrough(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 2)

	h.Alerts.Confirm("first", alert.WithOwner("1"))
	stale, _ := h.Alerts.Pending()
	decision := h.Alerts.Confirm("second", alert.WithOwner("1"))

	// Resolving a superseded id is a no-op, never a 403.
	req := httptest.NewRequest(http.MethodPost, "/dialog/"+stale.ID+"/confirm", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got, settled := decisionSettled(decision); settled {
		t.Fatalf("live decision settled to %v by a stale id", got)
	}
}

func TestDialogPendingHiddenFromForeignUser(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 9)

	h.Alerts.Confirm("Hapus postingan?", alert.WithOwner("1"))

	req := httptest.NewRequest(http.MethodGet, "/dialog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if body := rec.Body.String(); strings.Contains(body, "Hapus postingan?") {
		t.Fatalf("body leaked a foreign dialog: %q", body)
	}
}

func TestDialogPendingShownToOwner(t *testing.T) {
	t.Parallel()
	h, e := newDialogServer(t, 1)

	h.Alerts.Confirm("Hapus postingan?", alert.WithOwner("1"))

	req := httptest.NewRequest(http.MethodGet, "/dialog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Hapus postingan?") {
		t.Fatalf("fragment missing the dialog message: %q", body)
	}
}
