package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/angkasa-id/angkasa/internal/http/authn"
	"github.com/angkasa-id/angkasa/internal/http/views"
)

// HandleDialogPending returns the pending dialog as an HTML fragment, or an
// empty body when nothing is pending or the dialog belongs to another user.
// Pages poll this to pick up dialogs raised after render.
func (h *Handlers) HandleDialogPending(c *echo.Context) error {
	addVary(c, "HX-Request")
	pending, ok := h.Alerts.Pending()
	if !ok || !pending.ResolvableBy(dialogResolverID(c)) {
		return c.NoContent(http.StatusNoContent)
	}
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return h.RenderComponent(c, views.Dialog(*dialogViewData(pending), csrfToken))
}

// HandleDialogConfirm resolves a confirmation positively. Stale ids are
// ignored; the dialog they belonged to is already gone.
func (h *Handlers) HandleDialogConfirm(c *echo.Context) error {
	if err := h.authorizeDialogResolution(c); err != nil {
		return err
	}
	h.Alerts.Acknowledge(c.Param("id"))
	return h.dialogDone(c)
}

// HandleDialogCancel resolves a confirmation negatively. Backdrop and
// secondary-button dismissals both land here.
func (h *Handlers) HandleDialogCancel(c *echo.Context) error {
	if err := h.authorizeDialogResolution(c); err != nil {
		return err
	}
	h.Alerts.Cancel(c.Param("id"))
	return h.dialogDone(c)
}

// HandleDialogAck acknowledges a notification dialog.
func (h *Handlers) HandleDialogAck(c *echo.Context) error {
	if err := h.authorizeDialogResolution(c); err != nil {
		return err
	}
	h.Alerts.Acknowledge(c.Param("id"))
	return h.dialogDone(c)
}

// authorizeDialogResolution rejects resolution attempts against a dialog
// owned by someone else. Without it any signed-in session could settle a
// confirmation armed by another user. Ids that no longer match the pending
// dialog pass through; resolving them is a no-op.
func (h *Handlers) authorizeDialogResolution(c *echo.Context) error {
	pending, ok := h.Alerts.Pending()
	if !ok || pending.ID != c.Param("id") {
		return nil
	}
	if !pending.ResolvableBy(dialogResolverID(c)) {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}
	return nil
}

func dialogResolverID(c *echo.Context) string {
	principal, ok := authn.PrincipalFromContext(c)
	if !ok {
		return ""
	}
	return strconv.FormatInt(principal.UserID, 10)
}

func (h *Handlers) dialogDone(c *echo.Context) error {
	// Send the visitor back to the page the dialog was resolved from,
	// stripped down to a local path.
	target := "/"
	if ref, err := url.Parse(c.Request().Referer()); err == nil {
		if next := authn.SanitizeNext(ref.RequestURI()); next != "" {
			target = next
		}
	}
	if isHX(c) {
		setHXRedirect(c, target)
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, target)
}
