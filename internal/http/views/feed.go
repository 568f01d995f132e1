package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// FeedPage renders the home feed: search box, category chips and post cards.
func FeedPage(data viewmodels.FeedViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="feed">`)
		b.WriteString(`<form method="get" action="/" class="feed-search" role="search">`)
		b.WriteString(`<input type="search" name="q" value="` + esc(data.Query) + `" placeholder="Cari lomba, beasiswa, event…" aria-label="Cari">`)
		if data.Category != "" {
			b.WriteString(`<input type="hidden" name="category" value="` + esc(data.Category) + `">`)
		}
		b.WriteString(`<button type="submit" class="btn-primary">Cari</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<div class="feed-facets" role="group" aria-label="Kategori">`)
		for _, opt := range data.Categories {
			writeCategoryChip(b, "/", data.Query, opt)
		}
		b.WriteString(`</div>`)

		if data.Loading {
			b.WriteString(`<p class="feed-empty" data-state="loading">Memuat…</p>`)
		} else if len(data.Posts) == 0 {
			b.WriteString(`<p class="feed-empty">Tidak ada hasil yang cocok.</p>`)
		}

		b.WriteString(`<ul class="feed-list">`)
		for _, post := range data.Posts {
			writePostCard(b, post)
		}
		b.WriteString(`</ul>`)
		b.WriteString(`</section>`)
	})
	return Layout(data.Layout, body)
}

func writeCategoryChip(b *strings.Builder, base, query string, opt viewmodels.CategoryOption) {
	// Toggling the active chip clears it.
	values := url.Values{}
	if !opt.Active {
		values.Set("category", opt.Value)
	}
	if query != "" {
		values.Set("q", query)
	}
	href := base
	if len(values) > 0 {
		href = base + "?" + values.Encode()
	}
	b.WriteString(`<a href="` + esc(href) + `" class="chip`)
	if opt.Active {
		b.WriteString(` chip-active`)
	}
	b.WriteString(`"`)
	if opt.Active {
		b.WriteString(` aria-pressed="true"`)
	}
	b.WriteString(`>` + esc(opt.Label))
	if opt.Count > 0 {
		b.WriteString(` <span class="chip-count">` + FormatInt(opt.Count) + `</span>`)
	}
	b.WriteString(`</a>`)
}

func writePostCard(b *strings.Builder, post viewmodels.PostCardViewData) {
	b.WriteString(`<li class="post-card`)
	if post.Pinned {
		b.WriteString(` post-card-pinned`)
	}
	b.WriteString(`">`)
	b.WriteString(`<span class="` + CategoryBadgeClass(post.Category) + `">` + esc(post.CategoryLabel) + `</span>`)
	b.WriteString(`<h2><a href="` + esc(post.Href) + `">` + esc(post.Title) + `</a></h2>`)
	if post.Excerpt != "" {
		b.WriteString(`<p class="post-excerpt">` + esc(post.Excerpt) + `</p>`)
	}
	b.WriteString(`<footer class="post-meta">`)
	b.WriteString(`<span>` + esc(post.AuthorName) + `</span>`)
	b.WriteString(`<time>` + esc(post.CreatedAt) + `</time>`)
	b.WriteString(`<span>` + FormatInt64(post.Replies) + ` balasan</span>`)
	if post.Likes > 0 {
		b.WriteString(`<span>` + FormatInt64(post.Likes) + ` suka</span>`)
	}
	b.WriteString(`</footer></li>`)
}

// PostPage renders the post detail with replies and the reply form.
func PostPage(data viewmodels.PostViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<article class="post-detail">`)
		b.WriteString(`<span class="` + CategoryBadgeClass(data.Category) + `">` + esc(data.CategoryLabel) + `</span>`)
		b.WriteString(`<h1>` + esc(data.Title) + `</h1>`)
		b.WriteString(`<p class="post-meta"><span>` + esc(data.AuthorName) + `</span> <time>` + esc(data.CreatedAt) + `</time></p>`)
		b.WriteString(`<div class="post-body">` + string(data.BodyHTML) + `</div>`)

		b.WriteString(`<div class="post-actions">`)
		b.WriteString(`<form method="post" action="/posts/` + esc(data.ID) + `/like">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
		b.WriteString(`<button type="submit" class="btn-ghost">Suka (` + FormatInt64(data.Likes) + `)</button>`)
		b.WriteString(`</form>`)
		if data.CanPin {
			pinLabel := "Sematkan"
			if data.Pinned {
				pinLabel = "Lepas sematan"
			}
			b.WriteString(`<form method="post" action="/posts/` + esc(data.ID) + `/pin">`)
			b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
			b.WriteString(`<button type="submit" class="btn-ghost">` + pinLabel + `</button>`)
			b.WriteString(`</form>`)
		}
		if data.CanDelete {
			b.WriteString(`<form method="post" action="/posts/` + esc(data.ID) + `/delete">`)
			b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
			b.WriteString(`<button type="submit" class="btn-danger">Hapus postingan</button>`)
			b.WriteString(`</form>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`</article>`)

		b.WriteString(`<section class="replies"><h2>` + FormatInt(len(data.Replies)) + ` Balasan</h2><ul>`)
		for _, reply := range data.Replies {
			b.WriteString(`<li class="reply">`)
			b.WriteString(`<p class="reply-meta"><span>` + esc(reply.AuthorName) + `</span> <time>` + esc(reply.CreatedAt) + `</time></p>`)
			b.WriteString(`<div class="reply-body">` + string(reply.BodyHTML) + `</div>`)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)

		b.WriteString(`<form method="post" action="/posts/` + esc(data.ID) + `/reply" class="reply-form">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
		b.WriteString(`<label>Balas<textarea name="body" rows="4" required></textarea></label>`)
		b.WriteString(`<button type="submit" class="btn-primary">Kirim balasan</button>`)
		b.WriteString(`</form></section>`)
	})
	return Layout(data.Layout, body)
}

// PostNotFoundPage renders the friendly missing-post page.
func PostNotFoundPage(layout viewmodels.LayoutData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="not-found">`)
		b.WriteString(`<h1>Postingan tidak ditemukan</h1>`)
		b.WriteString(`<p>Postingan ini mungkin sudah dihapus oleh penulis atau admin.</p>`)
		b.WriteString(`<a href="/" class="btn-primary">Kembali ke beranda</a>`)
		b.WriteString(`</section>`)
	})
	return Layout(layout, body)
}
