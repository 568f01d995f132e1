package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// Dialog renders the pending alert or confirmation as a modal overlay.
// Notifications expose a single acknowledge action; confirmations expose
// confirm and cancel, and clicking the backdrop cancels.
func Dialog(d viewmodels.DialogViewData, csrfToken string) templ.Component {
	return component(func(b *strings.Builder) {
		writeDialog(b, d, csrfToken)
	})
}

func writeDialog(b *strings.Builder, d viewmodels.DialogViewData, csrfToken string) {
	destructive := d.Destructive
	b.WriteString(`<div class="dialog-backdrop" data-dialog-id="` + esc(d.ID) + `"`)
	if d.Confirm {
		// Backdrop click resolves the confirmation negatively.
		b.WriteString(` data-dismiss-action="/dialog/` + esc(d.ID) + `/cancel"`)
	} else {
		b.WriteString(` data-dismiss-action="/dialog/` + esc(d.ID) + `/ack"`)
	}
	if d.AutoDismissMillis > 0 {
		b.WriteString(` data-auto-dismiss-ms="` + FormatInt64(d.AutoDismissMillis) + `"`)
	}
	b.WriteString(`>`)

	b.WriteString(`<div class="dialog dialog-` + esc(d.Kind) + `" role="` + AlertRole(destructive) + `" aria-live="` + AlertAriaLive(destructive) + `" aria-modal="true">`)
	b.WriteString(`<h2 class="dialog-title">` + esc(d.Title) + `</h2>`)
	b.WriteString(`<p class="dialog-message">` + esc(d.Message) + `</p>`)
	b.WriteString(`<div class="dialog-actions">`)

	if d.Confirm {
		b.WriteString(`<form method="post" action="/dialog/` + esc(d.ID) + `/cancel">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(csrfToken) + `">`)
		b.WriteString(`<button type="submit" class="btn-ghost">` + esc(d.SecondaryLabel) + `</button>`)
		b.WriteString(`</form>`)
		primaryClass := "btn-primary"
		if destructive {
			primaryClass = "btn-danger"
		}
		b.WriteString(`<form method="post" action="/dialog/` + esc(d.ID) + `/confirm">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(csrfToken) + `">`)
		b.WriteString(`<button type="submit" class="` + primaryClass + `" autofocus>` + esc(d.PrimaryLabel) + `</button>`)
		b.WriteString(`</form>`)
	} else {
		b.WriteString(`<form method="post" action="/dialog/` + esc(d.ID) + `/ack">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(csrfToken) + `">`)
		b.WriteString(`<button type="submit" class="btn-primary" autofocus>` + esc(d.PrimaryLabel) + `</button>`)
		b.WriteString(`</form>`)
	}

	b.WriteString(`</div></div></div>`)
}
