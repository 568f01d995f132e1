package viewmodels

// LoginViewData backs the sign-in page.
type LoginViewData struct {
	CSRFToken    string
	Email        string
	Next         string
	ErrorMessage string
	Toast        *ToastViewData
}

// RegisterViewData backs the registration page.
type RegisterViewData struct {
	CSRFToken        string
	Email            string
	DisplayName      string
	Institution      string
	Role             string
	ErrorMessage     string
	RegistrationOpen bool
	Toast            *ToastViewData
}

// VerifyViewData backs the email verification landing page.
type VerifyViewData struct {
	Layout           LayoutData
	Success          bool
	Message          string
	CooldownSeconds  int
	ShowResendButton bool
}
