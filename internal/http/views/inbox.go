package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// InboxURL builds the inbox address for a filter combination.
func InboxURL(query, kind, status string) string {
	values := url.Values{}
	if query = strings.TrimSpace(query); query != "" {
		values.Set("q", query)
	}
	if kind = strings.TrimSpace(kind); kind != "" {
		values.Set("kind", kind)
	}
	if status = strings.TrimSpace(status); status != "" {
		values.Set("status", status)
	}
	if len(values) == 0 {
		return "/inbox"
	}
	return "/inbox?" + values.Encode()
}

// InboxPage renders the notification list with kind and read-state facets.
func InboxPage(data viewmodels.InboxViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="inbox">`)
		b.WriteString(`<header class="inbox-header"><h1>Inbox</h1>`)
		if data.UnreadCount > 0 {
			b.WriteString(`<span class="badge">` + FormatInt(data.UnreadCount) + ` belum dibaca</span>`)
		}
		if data.Total > 0 {
			b.WriteString(`<form method="post" action="/inbox/clear">`)
			b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
			b.WriteString(`<button type="submit" class="btn-ghost text-sm">Bersihkan semua</button>`)
			b.WriteString(`</form>`)
		}
		b.WriteString(`</header>`)

		b.WriteString(`<form method="get" action="/inbox" class="inbox-search" role="search">`)
		b.WriteString(`<input type="search" name="q" value="` + esc(data.Query) + `" placeholder="Cari notifikasi" aria-label="Cari">`)
		if data.Kind != "" {
			b.WriteString(`<input type="hidden" name="kind" value="` + esc(data.Kind) + `">`)
		}
		if data.Status != "" {
			b.WriteString(`<input type="hidden" name="status" value="` + esc(data.Status) + `">`)
		}
		b.WriteString(`<button type="submit" class="btn-primary">Cari</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<div class="inbox-facets" role="group" aria-label="Saring">`)
		for _, kind := range []string{"announcement", "reply", "system"} {
			writeInboxChip(b, data, "kind", kind, HumanizeNotificationKind(kind), data.Kind == kind)
		}
		writeInboxChip(b, data, "status", "unread", "Belum dibaca", data.Status == "unread")
		b.WriteString(`</div>`)

		if len(data.Items) == 0 {
			b.WriteString(`<p class="inbox-empty">Tidak ada notifikasi.</p>`)
		}
		b.WriteString(`<ul class="inbox-list">`)
		for _, item := range data.Items {
			b.WriteString(`<li class="notification`)
			if !item.Read {
				b.WriteString(` notification-unread`)
			}
			b.WriteString(`">`)
			b.WriteString(`<span class="` + NotificationBadgeClass(item.Kind) + `">` + esc(item.KindLabel) + `</span>`)
			b.WriteString(`<h2>` + esc(item.Title) + `</h2>`)
			if item.Body != "" {
				b.WriteString(`<p>` + esc(item.Body) + `</p>`)
			}
			b.WriteString(`<time>` + esc(item.CreatedAt) + `</time>`)
			if !item.Read {
				b.WriteString(`<form method="post" action="/inbox/` + esc(item.ID) + `/read">`)
				b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
				b.WriteString(`<button type="submit" class="btn-ghost text-sm">Tandai dibaca</button>`)
				b.WriteString(`</form>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></section>`)
	})
	return Layout(data.Layout, body)
}

func writeInboxChip(b *strings.Builder, data viewmodels.InboxViewData, field, value, label string, active bool) {
	kind, status := data.Kind, data.Status
	switch field {
	case "kind":
		if active {
			kind = ""
		} else {
			kind = value
		}
	case "status":
		if active {
			status = ""
		} else {
			status = value
		}
	}
	b.WriteString(`<a href="` + esc(InboxURL(data.Query, kind, status)) + `" class="chip`)
	if active {
		b.WriteString(` chip-active" aria-pressed="true`)
	}
	b.WriteString(`">` + esc(label) + `</a>`)
}
