package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// AdminMembersURL builds the admin console address for a filter combination.
func AdminMembersURL(query, role, status, verified string) string {
	values := url.Values{}
	if query = strings.TrimSpace(query); query != "" {
		values.Set("q", query)
	}
	if role = strings.TrimSpace(role); role != "" {
		values.Set("role", role)
	}
	if status = strings.TrimSpace(status); status != "" {
		values.Set("status", status)
	}
	if verified = strings.TrimSpace(verified); verified != "" {
		values.Set("verified", verified)
	}
	if len(values) == 0 {
		return "/admin"
	}
	return "/admin?" + values.Encode()
}

// AdminPage renders the member directory with the announcement composer.
func AdminPage(data viewmodels.AdminViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="admin">`)
		b.WriteString(`<h1>Admin · Anggota</h1>`)

		b.WriteString(`<form method="get" action="/admin" class="admin-search" role="search">`)
		b.WriteString(`<input type="search" name="q" value="` + esc(data.Query) + `" placeholder="Cari nama, email, institusi" aria-label="Cari">`)
		if data.Role != "" {
			b.WriteString(`<input type="hidden" name="role" value="` + esc(data.Role) + `">`)
		}
		if data.Status != "" {
			b.WriteString(`<input type="hidden" name="status" value="` + esc(data.Status) + `">`)
		}
		if data.Verified != "" {
			b.WriteString(`<input type="hidden" name="verified" value="` + esc(data.Verified) + `">`)
		}
		b.WriteString(`<button type="submit" class="btn-primary">Cari</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<div class="admin-facets" role="group" aria-label="Saring">`)
		for _, role := range []string{"student", "provider", "admin"} {
			active := data.Role == role
			target := role
			if active {
				target = ""
			}
			b.WriteString(`<a href="` + esc(AdminMembersURL(data.Query, target, data.Status, data.Verified)) + `" class="chip`)
			if active {
				b.WriteString(` chip-active`)
			}
			b.WriteString(`">` + esc(HumanizeMemberRole(role)))
			if n := data.RoleCounts[role]; n > 0 {
				b.WriteString(` <span class="chip-count">` + FormatInt(n) + `</span>`)
			}
			b.WriteString(`</a>`)
		}
		for _, status := range []string{"active", "suspended"} {
			active := data.Status == status
			target := status
			if active {
				target = ""
			}
			label := "Aktif"
			if status == "suspended" {
				label = "Nonaktif"
			}
			b.WriteString(`<a href="` + esc(AdminMembersURL(data.Query, data.Role, target, data.Verified)) + `" class="chip`)
			if active {
				b.WriteString(` chip-active`)
			}
			b.WriteString(`">` + label + `</a>`)
		}
		b.WriteString(`</div>`)

		if data.Loading {
			b.WriteString(`<p class="admin-empty" data-state="loading">Memuat…</p>`)
		} else if len(data.Members) == 0 {
			b.WriteString(`<p class="admin-empty">Tidak ada anggota yang cocok.</p>`)
		}

		b.WriteString(`<table class="admin-table"><thead><tr>`)
		b.WriteString(`<th>Nama</th><th>Email</th><th>Peran</th><th>Institusi</th><th>Status</th><th>Bergabung</th><th></th>`)
		b.WriteString(`</tr></thead><tbody>`)
		for _, m := range data.Members {
			b.WriteString(`<tr>`)
			b.WriteString(`<td>` + esc(m.DisplayName) + `</td>`)
			b.WriteString(`<td>` + esc(m.Email) + `</td>`)
			b.WriteString(`<td><span class="` + MemberRoleBadgeClass(m.Role) + `">` + esc(m.RoleLabel) + `</span></td>`)
			b.WriteString(`<td>` + esc(m.Institution) + `</td>`)
			if m.Active {
				b.WriteString(`<td><span class="` + MemberStatusBadgeClass("active") + `">Aktif</span></td>`)
			} else {
				b.WriteString(`<td><span class="` + MemberStatusBadgeClass("suspended") + `">Nonaktif</span></td>`)
			}
			b.WriteString(`<td>` + esc(m.JoinedAt) + `</td>`)
			b.WriteString(`<td class="admin-actions">`)
			if m.Active {
				b.WriteString(`<form method="post" action="/admin/members/` + esc(m.ID) + `/deactivate">`)
				b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
				b.WriteString(`<button type="submit" class="btn-danger text-sm">Nonaktifkan</button>`)
				b.WriteString(`</form>`)
			} else {
				b.WriteString(`<form method="post" action="/admin/members/` + esc(m.ID) + `/activate">`)
				b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
				b.WriteString(`<button type="submit" class="btn-ghost text-sm">Aktifkan</button>`)
				b.WriteString(`</form>`)
			}
			b.WriteString(`<form method="post" action="/admin/members/` + esc(m.ID) + `/delete">`)
			b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
			b.WriteString(`<button type="submit" class="btn-danger text-sm">Hapus</button>`)
			b.WriteString(`</form>`)
			b.WriteString(`</td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)

		b.WriteString(`<section class="admin-announce"><h2>Kirim pengumuman</h2>`)
		b.WriteString(`<form method="post" action="/admin/announce">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
		b.WriteString(`<label>Judul<input type="text" name="title" required></label>`)
		b.WriteString(`<label>Isi<textarea name="body" rows="3" required></textarea></label>`)
		b.WriteString(`<button type="submit" class="btn-primary">Kirim ke semua anggota</button>`)
		b.WriteString(`</form></section>`)

		b.WriteString(`</section>`)
	})
	return Layout(data.Layout, body)
}

// ProviderPage renders the provider workspace: their own posts plus the
// composer.
func ProviderPage(data viewmodels.ProviderViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="provider">`)
		b.WriteString(`<h1>Workspace Penyelenggara</h1>`)

		b.WriteString(`<section class="provider-compose"><h2>Buat postingan</h2>`)
		b.WriteString(`<form method="post" action="/posts">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
		b.WriteString(`<label>Judul<input type="text" name="title" required></label>`)
		b.WriteString(`<label>Kategori<select name="category">`)
		for _, opt := range data.Categories {
			b.WriteString(`<option value="` + esc(opt.Value) + `">` + esc(opt.Label) + `</option>`)
		}
		b.WriteString(`</select></label>`)
		b.WriteString(`<label>Isi (Markdown)<textarea name="body" rows="6" required></textarea></label>`)
		b.WriteString(`<button type="submit" class="btn-primary">Terbitkan</button>`)
		b.WriteString(`</form></section>`)

		b.WriteString(`<h2>Postingan kamu (` + FormatInt(data.Total) + `)</h2>`)

		b.WriteString(`<form method="get" action="/provider" class="feed-search" role="search">`)
		b.WriteString(`<input type="search" name="q" value="` + esc(data.Query) + `" placeholder="Cari di postinganmu" aria-label="Cari">`)
		if data.Category != "" {
			b.WriteString(`<input type="hidden" name="category" value="` + esc(data.Category) + `">`)
		}
		b.WriteString(`<button type="submit" class="btn-primary">Cari</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<div class="feed-facets" role="group" aria-label="Kategori">`)
		for _, opt := range data.Categories {
			writeCategoryChip(b, "/provider", data.Query, opt)
		}
		b.WriteString(`</div>`)

		if len(data.Posts) == 0 {
			b.WriteString(`<p class="provider-empty">Belum ada postingan yang cocok.</p>`)
		}
		b.WriteString(`<ul class="feed-list">`)
		for _, post := range data.Posts {
			writePostCard(b, post)
		}
		b.WriteString(`</ul></section>`)
	})
	return Layout(data.Layout, body)
}
