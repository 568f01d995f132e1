package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/http/authn"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/http/views"
	"github.com/angkasa-id/angkasa/internal/identity"
)

func (h *Handlers) HandleLoginGet(c *echo.Context) error {
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	data := viewmodels.LoginViewData{
		CSRFToken: csrfToken,
		Next:      authn.SanitizeNext(c.QueryParam("next")),
		Toast:     popFlashToast(c),
	}
	return h.RenderComponent(c, views.LoginPage(data))
}

func (h *Handlers) HandleLoginPost(c *echo.Context) error {
	ctx := c.Request().Context()

	email := auth.NormalizeEmail(c.FormValue("email"))
	password := c.FormValue("password")
	next := authn.SanitizeNext(c.FormValue("next"))

	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	data := viewmodels.LoginViewData{
		CSRFToken: csrfToken,
		Email:     email,
		Next:      next,
	}

	if email == "" || strings.TrimSpace(password) == "" {
		data.ErrorMessage = identity.MessageFor(auth.ErrInvalidCredentials)
		return h.RenderComponent(c, views.LoginPage(data))
	}

	principal, err := h.Identity.SignIn(ctx, email, password, strings.TrimSpace(c.RealIP()))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			data.ErrorMessage = identity.MessageFor(err)
			return h.RenderComponent(c, views.LoginPage(data))
		}
		return err
	}

	if err := h.Sessions.RenewToken(ctx); err != nil {
		return err
	}
	h.Sessions.Put(ctx, authn.SessionKeyUserID, principal.UserID)

	if next != "" {
		return c.Redirect(http.StatusSeeOther, next)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) HandleRegisterGet(c *echo.Context) error {
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	data := viewmodels.RegisterViewData{
		CSRFToken:        csrfToken,
		RegistrationOpen: h.Cfg.RegistrationOpen,
		Toast:            popFlashToast(c),
	}
	return h.RenderComponent(c, views.RegisterPage(data))
}

func (h *Handlers) HandleRegisterPost(c *echo.Context) error {
	ctx := c.Request().Context()
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)

	params := identity.RegisterParams{
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		DisplayName: strings.TrimSpace(c.FormValue("display_name")),
		Role:        strings.TrimSpace(c.FormValue("role")),
		Institution: strings.TrimSpace(c.FormValue("institution")),
	}

	data := viewmodels.RegisterViewData{
		CSRFToken:        csrfToken,
		Email:            auth.NormalizeEmail(params.Email),
		DisplayName:      params.DisplayName,
		Institution:      params.Institution,
		Role:             params.Role,
		RegistrationOpen: h.Cfg.RegistrationOpen,
	}

	if data.DisplayName == "" {
		data.ErrorMessage = "Nama lengkap wajib diisi."
		return h.RenderComponent(c, views.RegisterPage(data))
	}

	principal, err := h.Identity.Register(ctx, params)
	if err != nil {
		data.ErrorMessage = identity.MessageFor(err)
		return h.RenderComponent(c, views.RegisterPage(data))
	}

	if err := h.Sessions.RenewToken(ctx); err != nil {
		return err
	}
	h.Sessions.Put(ctx, authn.SessionKeyUserID, principal.UserID)

	setFlashToast(c, viewmodels.ToastViewData{
		Category:    "success",
		Title:       "Selamat datang di Angkasa!",
		Description: "Kami sudah mengirim email verifikasi ke " + principal.Email + ".",
	})
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) HandleLogoutPost(c *echo.Context) error {
	principal, _ := authn.PrincipalFromContext(c)

	if err := h.Sessions.Destroy(c.Request().Context()); err != nil {
		return err
	}
	h.Identity.SignOut(principal.UserID)

	setFlashToast(c, viewmodels.ToastViewData{
		Category: "success",
		Title:    "Sampai jumpa!",
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}

// HandleVerifyGet consumes the emailed verification token. The route is
// public; the link has to work from any browser.
func (h *Handlers) HandleVerifyGet(c *echo.Context) error {
	ctx := c.Request().Context()
	token := strings.TrimSpace(c.QueryParam("token"))

	layout := h.LayoutData(ctx, c, "Verifikasi email")
	data := viewmodels.VerifyViewData{Layout: layout}

	if token == "" {
		data.Message = "Tautan verifikasi tidak lengkap. Buka tautan dari email kamu."
		data.ShowResendButton = layout.SignedIn && !layout.EmailVerified
		return h.RenderComponent(c, views.VerifyPage(data))
	}

	principal, err := h.Identity.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			data.Message = identity.MessageFor(err)
			data.ShowResendButton = layout.SignedIn && !layout.EmailVerified
			return h.RenderComponent(c, views.VerifyPage(data))
		}
		return err
	}

	data.Success = true
	data.Message = "Terima kasih, " + principal.DisplayName + "! Email kamu sudah terverifikasi."
	return h.RenderComponent(c, views.VerifyPage(data))
}

func (h *Handlers) HandleVerifyResendPost(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	cd, err := h.Identity.SendVerificationEmail(ctx, principal.UserID)
	switch {
	case errors.Is(err, identity.ErrCooldownActive):
		h.Alerts.Notify(identity.MessageFor(err), alert.KindWarning)
	case errors.Is(err, identity.ErrAlreadyVerified):
		h.Alerts.Notify(identity.MessageFor(err), alert.KindInfo)
	case err != nil:
		h.Logger.Error("verification resend failed", "user_id", principal.UserID, "error", err)
		h.Alerts.Notify("Email verifikasi gagal terkirim. Coba lagi.", alert.KindError)
	default:
		_ = cd
		h.Alerts.Notify("Email verifikasi terkirim. Cek kotak masuk kamu.", alert.KindSuccess)
	}
	return c.Redirect(http.StatusSeeOther, "/verify")
}
