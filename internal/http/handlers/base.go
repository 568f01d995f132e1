// Package handlers contains HTTP handler logic split by domain.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/config"
	"github.com/angkasa-id/angkasa/internal/db"
	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/domain/forum"
	"github.com/angkasa-id/angkasa/internal/domain/inbox"
	"github.com/angkasa-id/angkasa/internal/domain/member"
	"github.com/angkasa-id/angkasa/internal/http/authn"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/identity"
	"github.com/angkasa-id/angkasa/internal/listview"
	"github.com/angkasa-id/angkasa/internal/treestore"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"

	onboardedCookieName = "angkasa_onboarded"
)

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg      config.Config
	Q        *db.Queries
	Pool     *pgxpool.Pool
	Sessions *scs.SessionManager
	Docs     *docstore.Store
	Tree     *treestore.Store
	Identity *identity.Service
	Alerts   *alert.Orchestrator
	Feed     *listview.Controller[forum.Post]
	Members  *listview.Controller[member.Member]
	Logger   *slog.Logger
}

// HandleHealthz is the unauthenticated liveness endpoint.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// LayoutData builds the common page chrome for the signed-in (or anonymous)
// visitor.
func (h *Handlers) LayoutData(ctx context.Context, c *echo.Context, title string) viewmodels.LayoutData {
	principal, signedIn := authn.PrincipalFromContext(c)
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)

	data := viewmodels.LayoutData{
		Title:      title,
		CSRFToken:  csrfToken,
		SignedIn:   signedIn,
		ActivePath: c.Request().URL.Path,
		Toast:      popFlashToast(c),
	}
	if signedIn {
		data.UserID = strconv.FormatInt(principal.UserID, 10)
		data.UserName = principal.DisplayName
		data.UserEmail = principal.Email
		data.UserRole = principal.Role
		data.IsAdmin = principal.IsAdmin()
		data.IsProvider = principal.IsProvider()
		data.EmailVerified = principal.EmailVerified
		data.ShowOnboarding = !hasOnboardedCookie(c)
		data.UnreadCount = h.unreadCount(ctx, data.UserID)
	}
	if pending, ok := h.Alerts.Pending(); ok && pending.ResolvableBy(data.UserID) {
		data.Dialog = dialogViewData(pending)
	}
	return data
}

func (h *Handlers) unreadCount(ctx context.Context, userID string) int {
	nodes, err := h.Tree.Get(ctx, inbox.UserPath(userID))
	if err != nil {
		h.Logger.Error("unread count read failed", "user_id", userID, "error", err)
		return 0
	}
	return inbox.CountUnread(inbox.FromNodes(nodes))
}

func dialogViewData(req alert.Request) *viewmodels.DialogViewData {
	return &viewmodels.DialogViewData{
		ID:                req.ID,
		Kind:              string(req.Kind),
		Title:             req.Title,
		Message:           req.Message,
		PrimaryLabel:      req.PrimaryLabel,
		SecondaryLabel:    req.SecondaryLabel,
		Confirm:           req.Kind == alert.KindConfirm,
		Destructive:       req.Destructive(),
		AutoDismissMillis: req.AutoDismiss.Milliseconds(),
	}
}

func hasOnboardedCookie(c *echo.Context) bool {
	cookie, err := c.Cookie(onboardedCookieName)
	return err == nil && cookie != nil && cookie.Value == "1"
}

func setOnboardedCookie(c *echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     onboardedCookieName,
		Value:    "1",
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RenderComponent renders a templ component as the response.
func (h *Handlers) RenderComponent(c *echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request().Context(), c.Response()); err != nil {
		return h.RenderError(c, err)
	}
	return nil
}

// RenderError returns a plain text error response.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	path := ""
	if req := c.Request(); req != nil && req.URL != nil {
		path = req.URL.Path
	}
	method := ""
	if req := c.Request(); req != nil {
		method = req.Method
	}
	c.Logger().Error("http error",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", c.RealIP(),
		"error", err,
	)

	msg := "Internal server error."
	if requestID != "" {
		msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
	}
	msg = fmt.Sprintf("%s Code: %s.", msg, InternalErrorCode)
	return c.String(http.StatusInternalServerError, msg)
}

// RenderNotFound returns a 404 response.
func RenderNotFound(c *echo.Context) error {
	return c.String(http.StatusNotFound, "404 page not found")
}

func requirePrincipal(c *echo.Context) (auth.Principal, error) {
	principal, ok := authn.PrincipalFromContext(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return principal, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("2 Jan 2006 15:04")
}
