package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

func render(t *testing.T, comp templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := comp.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render error = %v", err)
	}
	return b.String()
}

func TestDialogConfirmRendersBothActions(t *testing.T) {
	t.Parallel()

	html := render(t, Dialog(viewmodels.DialogViewData{
		ID:             "d1",
		Kind:           "warning",
		Title:          "Konfirmasi",
		Message:        "Hapus postingan ini?",
		PrimaryLabel:   "Hapus",
		SecondaryLabel: "Batal",
		Confirm:        true,
		Destructive:    true,
	}, "tok"))

	if !strings.Contains(html, `action="/dialog/d1/confirm"`) {
		t.Fatalf("confirm action missing: %q", html)
	}
	if !strings.Contains(html, `action="/dialog/d1/cancel"`) {
		t.Fatalf("cancel action missing: %q", html)
	}
	// Backdrop click cancels, it never confirms.
	if !strings.Contains(html, `data-dismiss-action="/dialog/d1/cancel"`) {
		t.Fatalf("backdrop dismiss action missing: %q", html)
	}
	if !strings.Contains(html, `class="btn-danger"`) {
		t.Fatalf("destructive confirm button not danger styled: %q", html)
	}
	if !strings.Contains(html, `role="alert"`) || !strings.Contains(html, `aria-live="assertive"`) {
		t.Fatalf("destructive dialog aria attributes missing: %q", html)
	}
}

func TestDialogNotificationAcknowledges(t *testing.T) {
	t.Parallel()

	html := render(t, Dialog(viewmodels.DialogViewData{
		ID:                "d2",
		Kind:              "success",
		Title:             "Berhasil",
		Message:           "Postingan dihapus.",
		PrimaryLabel:      "OK",
		AutoDismissMillis: 4000,
	}, "tok"))

	if !strings.Contains(html, `action="/dialog/d2/ack"`) {
		t.Fatalf("ack action missing: %q", html)
	}
	if strings.Contains(html, "/dialog/d2/confirm") {
		t.Fatalf("notification rendered a confirm action: %q", html)
	}
	if !strings.Contains(html, `data-auto-dismiss-ms="4000"`) {
		t.Fatalf("auto dismiss attribute missing: %q", html)
	}
	if !strings.Contains(html, `role="status"`) {
		t.Fatalf("non-destructive dialog role missing: %q", html)
	}
}

func TestFeedPageStates(t *testing.T) {
	t.Parallel()

	empty := render(t, FeedPage(viewmodels.FeedViewData{
		Layout: viewmodels.LayoutData{Title: "Beranda", SignedIn: true},
	}))
	if !strings.Contains(empty, "Tidak ada hasil yang cocok.") {
		t.Fatalf("empty state missing: %q", empty)
	}

	loading := render(t, FeedPage(viewmodels.FeedViewData{
		Layout:  viewmodels.LayoutData{Title: "Beranda", SignedIn: true},
		Loading: true,
	}))
	if !strings.Contains(loading, `data-state="loading"`) {
		t.Fatalf("loading state missing: %q", loading)
	}
	if strings.Contains(loading, "Tidak ada hasil yang cocok.") {
		t.Fatalf("loading page also shows the empty state: %q", loading)
	}
}

func TestFeedPageEscapesUserContent(t *testing.T) {
	t.Parallel()

	html := render(t, FeedPage(viewmodels.FeedViewData{
		Layout: viewmodels.LayoutData{Title: "Beranda", SignedIn: true},
		Posts: []viewmodels.PostCardViewData{{
			ID:    "p1",
			Href:  "/posts/p1",
			Title: `<script>alert("x")</script>`,
		}},
	}))
	if strings.Contains(html, `<script>alert`) {
		t.Fatalf("post title not escaped: %q", html)
	}
}

func TestAdminMembersURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query, role, status, verified string
		want                          string
	}{
		{"", "", "", "", "/admin"},
		{"dewi", "", "", "", "/admin?q=dewi"},
		{"", "student", "suspended", "", "/admin?role=student&status=suspended"},
		{" dewi ", "provider", "", "yes", "/admin?q=dewi&role=provider&verified=yes"},
	}
	for _, tt := range tests {
		got := AdminMembersURL(tt.query, tt.role, tt.status, tt.verified)
		if got != tt.want {
			t.Fatalf("AdminMembersURL(%q, %q, %q, %q) = %q, want %q",
				tt.query, tt.role, tt.status, tt.verified, got, tt.want)
		}
	}
}
