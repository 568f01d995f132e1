// Package viewmodels holds the data passed from handlers to views.
package viewmodels

// ToastViewData is a one-shot notice carried across a redirect.
type ToastViewData struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DialogViewData is the pending alert or confirmation dialog.
type DialogViewData struct {
	ID                string
	Kind              string
	Title             string
	Message           string
	PrimaryLabel      string
	SecondaryLabel    string
	Confirm           bool
	Destructive       bool
	AutoDismissMillis int64
}

// LayoutData is the common page chrome.
type LayoutData struct {
	Title          string
	CSRFToken      string
	SignedIn       bool
	UserID         string
	UserName       string
	UserEmail      string
	UserRole       string
	IsAdmin        bool
	IsProvider     bool
	EmailVerified  bool
	UnreadCount    int
	ShowOnboarding bool
	ActivePath     string
	Toast          *ToastViewData
	Dialog         *DialogViewData
}
