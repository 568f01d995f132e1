// Package httpapp wires the echo server: sessions, CSRF, route guards and
// the dialog endpoints.
package httpapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/http/authn"
	"github.com/angkasa-id/angkasa/internal/http/handlers"
	"github.com/angkasa-id/angkasa/internal/metrics"
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h      *handlers.Handlers
	e      *echo.Echo
	server *http.Server
}

// NewEchoServer creates a new HTTP server over the shared handler set.
func NewEchoServer(h *handlers.Handlers, logger *slog.Logger) (*EchoServer, error) {
	if h.Sessions == nil {
		return nil, errors.New("httpapp: session manager is required")
	}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.Logger = logger
	es.e.HTTPErrorHandler = es.httpErrorHandler
	es.registerRoutes()
	return es, nil
}

func (es *EchoServer) registerRoutes() {
	es.e.Use(requestIDMiddleware)
	es.e.Use(requestMetricsMiddleware)
	es.e.Use(echo.WrapMiddleware(es.h.Sessions.LoadAndSave))

	es.e.GET("/healthz", es.h.HandleHealthz)
	es.e.Static("/static", "web/static")

	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken + ",form:csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})

	// Verification links arrive from mail clients, signed in or not.
	es.e.GET("/verify", es.h.HandleVerifyGet, csrf)

	guest := es.e.Group("")
	guest.Use(csrf)
	guest.Use(authn.RequireGuest(es.h.Sessions, es.h.Q))
	guest.GET("/login", es.h.HandleLoginGet)
	guest.POST("/login", es.h.HandleLoginPost)
	guest.GET("/register", es.h.HandleRegisterGet)
	guest.POST("/register", es.h.HandleRegisterPost)

	authed := es.e.Group("")
	authed.Use(csrf)
	authed.Use(authn.RequireAuth(es.h.Sessions, es.h.Q))
	authed.GET("/", es.h.HandleFeed)
	authed.GET("/posts/:id", es.h.HandlePostShow)
	authed.POST("/posts", es.h.HandlePostCreate)
	authed.POST("/posts/:id/reply", es.h.HandlePostReply)
	authed.POST("/posts/:id/like", es.h.HandlePostLike)
	authed.POST("/posts/:id/pin", es.h.HandlePostPin)
	authed.POST("/posts/:id/delete", es.h.HandlePostDelete)
	authed.GET("/inbox", es.h.HandleInbox)
	authed.POST("/inbox/:id/read", es.h.HandleInboxMarkRead)
	authed.POST("/inbox/clear", es.h.HandleInboxClear)
	authed.POST("/logout", es.h.HandleLogoutPost)
	authed.POST("/verify/resend", es.h.HandleVerifyResendPost)
	authed.GET("/dialog", es.h.HandleDialogPending)
	authed.POST("/dialog/:id/confirm", es.h.HandleDialogConfirm)
	authed.POST("/dialog/:id/cancel", es.h.HandleDialogCancel)
	authed.POST("/dialog/:id/ack", es.h.HandleDialogAck)
	authed.POST("/onboarding/complete", es.h.HandleOnboardingComplete)

	admin := authed.Group("/admin")
	admin.Use(authn.RequireRole(auth.RoleAdmin))
	admin.GET("", es.h.HandleAdmin)
	admin.POST("/members/:id/deactivate", es.h.HandleAdminMemberDeactivate)
	admin.POST("/members/:id/activate", es.h.HandleAdminMemberActivate)
	admin.POST("/members/:id/delete", es.h.HandleAdminMemberDelete)
	admin.POST("/announce", es.h.HandleAdminAnnounce)

	provider := authed.Group("/provider")
	provider.Use(authn.RequireRole(auth.RoleProvider))
	provider.GET("", es.h.HandleProvider)
}

func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlers.ContextKeyRequestID, id)
		c.Response().Header().Set(echo.HeaderXRequestID, id)
		return next(c)
	}
}

func requestMetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		err := next(c)
		status := 0
		if res, uerr := echo.UnwrapResponse(c.Response()); uerr == nil {
			status = res.Status
		}
		if err != nil {
			status = httpStatusFromError(err)
		}
		metrics.RequestDuration.
			WithLabelValues(c.Request().Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// httpErrorHandler keeps error details out of responses: 404s get the plain
// not-found body, other client errors get the status text, everything else
// the generic 500 with a request reference.
func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	if res, uerr := echo.UnwrapResponse(c.Response()); uerr == nil && res.Committed {
		return
	}

	status := httpStatusFromError(err)
	switch {
	case status == http.StatusNotFound:
		_ = handlers.RenderNotFound(c)
	case status >= http.StatusInternalServerError:
		_ = es.h.RenderError(c, err)
	default:
		_ = c.String(status, http.StatusText(status))
	}
}

func httpStatusFromError(err error) int {
	var sc echo.HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// Start starts the HTTP server.
func (es *EchoServer) Start(addr string) error {
	return es.e.Start(addr)
}

// StartServer starts the HTTP server with a custom http.Server.
func (es *EchoServer) StartServer(server *http.Server) error {
	server.Handler = es.e
	es.server = server
	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	if es.server == nil {
		return nil
	}
	return es.server.Shutdown(ctx)
}
