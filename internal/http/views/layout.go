package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// Layout wraps page content in the common chrome: nav, toast, the pending
// dialog overlay and the onboarding banner.
func Layout(data viewmodels.LayoutData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + esc(data.Title) + ` · Angkasa</title>`)
		b.WriteString(`<link rel="stylesheet" href="/static/app.css">`)
		b.WriteString(`<script src="https://unpkg.com/htmx.org@2.0.7" defer></script>`)
		b.WriteString(`<script src="/static/app.js" defer></script>`)
		b.WriteString(`</head><body class="min-h-screen bg-slate-50 dark:bg-slate-950">`)

		writeNav(&b, data)
		writeToast(&b, data.Toast)
		if data.ShowOnboarding && data.SignedIn {
			writeOnboardingBanner(&b, data.CSRFToken)
		}

		b.WriteString(`<main id="main" class="mx-auto max-w-5xl px-4 py-6">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}

		var f strings.Builder
		f.WriteString(`</main>`)
		f.WriteString(`<div id="dialog-root">`)
		if data.Dialog != nil {
			writeDialog(&f, *data.Dialog, data.CSRFToken)
		}
		f.WriteString(`</div>`)
		f.WriteString(`</body></html>`)
		_, err := io.WriteString(w, f.String())
		return err
	})
}

func writeNav(b *strings.Builder, data viewmodels.LayoutData) {
	b.WriteString(`<header class="border-b bg-white dark:bg-slate-900"><nav class="mx-auto flex max-w-5xl items-center gap-4 px-4 py-3" aria-label="Utama">`)
	b.WriteString(`<a href="/" class="text-lg font-semibold">Angkasa</a>`)

	if data.SignedIn {
		navLink(b, data.ActivePath, "/", "Beranda")
		inboxLabel := "Inbox"
		if data.UnreadCount > 0 {
			inboxLabel = "Inbox (" + FormatInt(data.UnreadCount) + ")"
		}
		navLink(b, data.ActivePath, "/inbox", inboxLabel)
		if data.IsProvider {
			navLink(b, data.ActivePath, "/provider", "Workspace")
		}
		if data.IsAdmin {
			navLink(b, data.ActivePath, "/admin", "Admin")
		}
		b.WriteString(`<div class="ml-auto flex items-center gap-3">`)
		b.WriteString(`<span class="text-sm text-slate-500">` + esc(data.UserName) + `</span>`)
		b.WriteString(`<form method="post" action="/logout">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.CSRFToken) + `">`)
		b.WriteString(`<button type="submit" class="btn-ghost text-sm">Keluar</button>`)
		b.WriteString(`</form></div>`)
	} else {
		b.WriteString(`<div class="ml-auto flex items-center gap-3">`)
		b.WriteString(`<a href="/login" class="btn-ghost text-sm">Masuk</a>`)
		b.WriteString(`<a href="/register" class="btn-primary text-sm">Daftar</a>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</nav></header>`)
}

func navLink(b *strings.Builder, activePath, href, label string) {
	b.WriteString(`<a href="` + href + `" class="text-sm"`)
	if current := AriaCurrent(activePath, href); current != "" {
		b.WriteString(` aria-current="` + current + `"`)
	}
	b.WriteString(`>` + esc(label) + `</a>`)
}

func writeToast(b *strings.Builder, toast *viewmodels.ToastViewData) {
	if toast == nil {
		return
	}
	b.WriteString(`<div class="toast toast-` + esc(toast.Category) + `" role="status" aria-live="polite">`)
	b.WriteString(`<strong>` + esc(toast.Title) + `</strong>`)
	if toast.Description != "" {
		b.WriteString(`<p>` + esc(toast.Description) + `</p>`)
	}
	b.WriteString(`</div>`)
}

func writeOnboardingBanner(b *strings.Builder, csrfToken string) {
	b.WriteString(`<div class="banner bg-sky-50 dark:bg-sky-950" data-banner="onboarding">`)
	b.WriteString(`<p>Selamat datang di Angkasa! Lengkapi profil kamu dan mulai jelajahi lomba, beasiswa dan event.</p>`)
	b.WriteString(`<form method="post" action="/onboarding/complete">`)
	b.WriteString(`<input type="hidden" name="csrf" value="` + esc(csrfToken) + `">`)
	b.WriteString(`<button type="submit" class="btn-ghost text-sm">Mengerti</button>`)
	b.WriteString(`</form></div>`)
}
