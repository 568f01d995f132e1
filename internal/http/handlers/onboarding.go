package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/http/authn"
)

// HandleOnboardingComplete records that the visitor dismissed the welcome
// banner. The flag lives in a long-lived cookie and is mirrored on the
// account so a new browser does not resurface the banner forever.
func (h *Handlers) HandleOnboardingComplete(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	setOnboardedCookie(c, h.Cfg.AuthCookieSecure)
	if err := h.Q.MarkAuthUserOnboarded(c.Request().Context(), principal.UserID); err != nil {
		h.Logger.Error("onboarding flag update failed", "user_id", principal.UserID, "error", err)
	}

	target := "/"
	if next := authn.SanitizeNext(c.FormValue("next")); next != "" {
		target = next
	}
	return c.Redirect(http.StatusSeeOther, target)
}
